package employee

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Number holds a numeric field sent either as a JSON number or a string.
// The raw text is kept so a bad value is reported as a field issue rather
// than failing the whole decode.
type Number struct {
	Raw string
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.Raw = s
		return nil
	}
	n.Raw = string(data)
	return nil
}

type CreateInput struct {
	FirstName         string  `json:"firstName" validate:"required,max=100"`
	LastName          string  `json:"lastName" validate:"required,max=100"`
	Email             string  `json:"email" validate:"required,email,max=254"`
	SIN               string  `json:"sin" validate:"required,numeric,len=9"`
	AddrLine1         string  `json:"addrLine1" validate:"required,max=200"`
	AddrLine2         string  `json:"addrLine2" validate:"max=200"`
	AddrCity          string  `json:"addrCity" validate:"required,max=100"`
	AddrProvince      string  `json:"addrProvince" validate:"omitempty,len=2,alpha"`
	AddrPostal        string  `json:"addrPostal" validate:"required,max=16"`
	AddrCountry       string  `json:"addrCountry" validate:"omitempty,len=2,alpha"`
	BirthDate         string  `json:"birthDate" validate:"required"`
	HireDate          string  `json:"hireDate" validate:"required"`
	EmploymentType    string  `json:"employmentType" validate:"required,oneof=FULL_TIME PART_TIME CONTRACTOR"`
	PayGroup          string  `json:"payGroup" validate:"omitempty,oneof=BI_WEEKLY MONTHLY"`
	PayType           string  `json:"payType" validate:"required,oneof=HOURLY SALARY"`
	HourlyRate        *Number `json:"hourlyRate"`
	Salary            *Number `json:"salary"`
	VacationPay       *Number `json:"vacationPay"`
	Bonus             *Number `json:"bonus"`
	FederalTD1        *Number `json:"federalTD1"`
	ProvincialTD1     *Number `json:"provincialTD1"`
	PaymentMethod     string  `json:"paymentMethod" validate:"omitempty,oneof=CHEQUE DIRECT_DEPOSIT"`
	BankName          string  `json:"bankName" validate:"max=100"`
	BankAccount       string  `json:"bankAccount" validate:"omitempty,numeric,min=5,max=17"`
	TransitNumber     string  `json:"transitNumber" validate:"omitempty,numeric,len=5"`
	InstitutionNumber string  `json:"institutionNumber" validate:"omitempty,numeric,len=3"`
}

// Employee is a validated employee record. SIN and BankAccount are held in
// clear only in memory; the store seals them.
type Employee struct {
	ID                snowflake.ID
	FirstName         string
	LastName          string
	Email             string
	SIN               string
	AddrLine1         string
	AddrLine2         string
	AddrCity          string
	AddrProvince      string
	AddrPostal        string
	AddrCountry       string
	BirthDate         time.Time
	HireDate          time.Time
	EmploymentType    string
	PayGroup          string
	PayType           string
	HourlyRate        *decimal.Decimal
	Salary            *decimal.Decimal
	VacationPay       decimal.Decimal
	Bonus             decimal.Decimal
	FederalTD1        decimal.Decimal
	ProvincialTD1     decimal.Decimal
	PaymentMethod     string
	BankName          string
	BankAccount       string
	TransitNumber     string
	InstitutionNumber string
	CreatedAt         time.Time
}

// Summary is the list view. It never carries the SIN or bank details.
type Summary struct {
	ID             snowflake.ID     `json:"id"`
	FirstName      string           `json:"firstName"`
	LastName       string           `json:"lastName"`
	Email          string           `json:"email"`
	AddrCity       string           `json:"addrCity"`
	AddrProvince   string           `json:"addrProvince"`
	EmploymentType string           `json:"employmentType"`
	PayType        string           `json:"payType"`
	PayGroup       string           `json:"payGroup"`
	HourlyRate     *decimal.Decimal `json:"hourlyRate"`
	Salary         *decimal.Decimal `json:"salary"`
	VacationPay    decimal.Decimal  `json:"vacationPay"`
	PaymentMethod  string           `json:"paymentMethod"`
	HireDate       time.Time        `json:"hireDate"`
	CreatedAt      time.Time        `json:"createdAt"`
}

type ListFilter struct {
	PayType string
	Limit   int
	Offset  int
}
