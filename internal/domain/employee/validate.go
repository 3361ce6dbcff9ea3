package employee

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"paydesk/internal/domain/payroll"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate normalizes the input, applies defaults and checks every field
// and cross-field rule. All problems are reported together.
func Validate(in CreateInput) (Employee, error) {
	in = normalize(in)
	var issues []Issue

	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Employee{}, err
		}
		for _, fe := range fieldErrs {
			issues = append(issues, Issue{Field: fe.Field(), Reason: reasonFor(fe)})
		}
	}

	emp := Employee{
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Email:             in.Email,
		SIN:               in.SIN,
		AddrLine1:         in.AddrLine1,
		AddrLine2:         in.AddrLine2,
		AddrCity:          in.AddrCity,
		AddrProvince:      in.AddrProvince,
		AddrPostal:        in.AddrPostal,
		AddrCountry:       in.AddrCountry,
		EmploymentType:    in.EmploymentType,
		PayGroup:          in.PayGroup,
		PayType:           in.PayType,
		PaymentMethod:     in.PaymentMethod,
		BankName:          in.BankName,
		BankAccount:       in.BankAccount,
		TransitNumber:     in.TransitNumber,
		InstitutionNumber: in.InstitutionNumber,
	}

	addIssue := func(field, reason string) {
		issues = append(issues, Issue{Field: field, Reason: reason})
	}
	if in.BirthDate != "" {
		if d, ok := parseDate(in.BirthDate); ok {
			emp.BirthDate = d
		} else {
			addIssue("birthDate", "must be a valid date in YYYY-MM-DD format")
		}
	}
	if in.HireDate != "" {
		if d, ok := parseDate(in.HireDate); ok {
			emp.HireDate = d
		} else {
			addIssue("hireDate", "must be a valid date in YYYY-MM-DD format")
		}
	}
	if !emp.BirthDate.IsZero() && !emp.HireDate.IsZero() && emp.HireDate.Before(emp.BirthDate) {
		addIssue("hireDate", "must be on or after birthDate")
	}

	number := func(field string, value *Number, fallback string) (*decimal.Decimal, bool) {
		raw := fallback
		if value != nil && strings.TrimSpace(value.Raw) != "" && value.Raw != "null" {
			raw = strings.TrimSpace(value.Raw)
		}
		if raw == "" {
			return nil, true
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			addIssue(field, "must be a number")
			return nil, false
		}
		if d.IsNegative() {
			addIssue(field, "must not be negative")
			return nil, false
		}
		return &d, true
	}

	emp.HourlyRate, _ = number("hourlyRate", in.HourlyRate, "")
	emp.Salary, _ = number("salary", in.Salary, "")
	if d, ok := number("vacationPay", in.VacationPay, DefaultVacationPay); ok {
		emp.VacationPay = *d
		if d.GreaterThan(decimal.NewFromInt(100)) {
			addIssue("vacationPay", "must be a percentage between 0 and 100")
		}
	}
	if d, ok := number("bonus", in.Bonus, DefaultBonus); ok {
		emp.Bonus = *d
	}
	if d, ok := number("federalTD1", in.FederalTD1, DefaultFederalTD1); ok {
		emp.FederalTD1 = *d
	}
	if d, ok := number("provincialTD1", in.ProvincialTD1, DefaultProvincialTD1); ok {
		emp.ProvincialTD1 = *d
	}

	switch in.PayType {
	case payroll.PayTypeHourly:
		if isBlank(in.HourlyRate) {
			addIssue("hourlyRate", "is required for HOURLY")
		}
		if !isBlank(in.Salary) {
			addIssue("salary", "must be empty for HOURLY")
		}
	case payroll.PayTypeSalary:
		if isBlank(in.Salary) {
			addIssue("salary", "is required for SALARY")
		}
		if !isBlank(in.HourlyRate) {
			addIssue("hourlyRate", "must be empty for SALARY")
		}
	}

	if in.PaymentMethod == PaymentDirectDeposit {
		for field, value := range map[string]string{
			"bankName":          in.BankName,
			"bankAccount":       in.BankAccount,
			"transitNumber":     in.TransitNumber,
			"institutionNumber": in.InstitutionNumber,
		} {
			if value == "" {
				addIssue(field, "is required for DIRECT_DEPOSIT")
			}
		}
	}

	if len(issues) > 0 {
		return Employee{}, &ValidationError{Issues: sortIssues(issues)}
	}
	return emp, nil
}

func normalize(in CreateInput) CreateInput {
	trim := strings.TrimSpace
	upper := func(s string) string { return strings.ToUpper(trim(s)) }

	in.FirstName = trim(in.FirstName)
	in.LastName = trim(in.LastName)
	in.Email = strings.ToLower(trim(in.Email))
	in.SIN = strings.NewReplacer(" ", "", "-", "").Replace(trim(in.SIN))
	in.AddrLine1 = trim(in.AddrLine1)
	in.AddrLine2 = trim(in.AddrLine2)
	in.AddrCity = trim(in.AddrCity)
	in.AddrProvince = upper(in.AddrProvince)
	in.AddrPostal = upper(in.AddrPostal)
	in.AddrCountry = upper(in.AddrCountry)
	in.BirthDate = trim(in.BirthDate)
	in.HireDate = trim(in.HireDate)
	in.EmploymentType = upper(in.EmploymentType)
	in.PayGroup = upper(in.PayGroup)
	in.PayType = upper(in.PayType)
	in.PaymentMethod = upper(in.PaymentMethod)
	in.BankName = trim(in.BankName)
	in.BankAccount = trim(in.BankAccount)
	in.TransitNumber = trim(in.TransitNumber)
	in.InstitutionNumber = trim(in.InstitutionNumber)

	if in.AddrProvince == "" {
		in.AddrProvince = DefaultProvince
	}
	if in.AddrCountry == "" {
		in.AddrCountry = DefaultCountry
	}
	if in.PayGroup == "" {
		in.PayGroup = payroll.PayGroupBiWeekly
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = PaymentCheque
	}
	return in
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "numeric":
		return "must contain digits only"
	case "alpha":
		return "must contain letters only"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

func parseDate(raw string) (time.Time, bool) {
	if d, err := time.Parse("2006-01-02", raw); err == nil {
		return d, true
	}
	if d, err := time.Parse(time.RFC3339, raw); err == nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func isBlank(n *Number) bool {
	return n == nil || strings.TrimSpace(n.Raw) == "" || n.Raw == "null"
}

func sortIssues(issues []Issue) []Issue {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Field == issues[j].Field {
			return issues[i].Reason < issues[j].Reason
		}
		return issues[i].Field < issues[j].Field
	})
	return issues
}
