package employee

const (
	EmploymentFullTime   = "FULL_TIME"
	EmploymentPartTime   = "PART_TIME"
	EmploymentContractor = "CONTRACTOR"

	PaymentCheque        = "CHEQUE"
	PaymentDirectDeposit = "DIRECT_DEPOSIT"

	DefaultProvince      = "ON"
	DefaultCountry       = "CA"
	DefaultVacationPay   = "4"
	DefaultBonus         = "0"
	DefaultFederalTD1    = "15492"
	DefaultProvincialTD1 = "12298"

	defaultListLimit = 50
	maxListLimit     = 200
)
