package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bwmarrin/snowflake"

	"paydesk/internal/domain/employee"
)

// EmployeeCreator is the employee service as seen by the seeder.
type EmployeeCreator interface {
	Create(ctx context.Context, in employee.CreateInput) (snowflake.ID, error)
}

func demoEmployees() []employee.CreateInput {
	return []employee.CreateInput{
		{
			FirstName:      "Grace",
			LastName:       "Hopper",
			Email:          "grace.hopper@example.com",
			SIN:            "046454286",
			AddrLine1:      "100 Queen St W",
			AddrCity:       "Toronto",
			AddrPostal:     "M5H 2N2",
			BirthDate:      "1986-12-09",
			HireDate:       "2021-03-01",
			EmploymentType: employee.EmploymentFullTime,
			PayType:        "HOURLY",
			HourlyRate:     &employee.Number{Raw: "20"},
		},
		{
			FirstName:         "Alan",
			LastName:          "Turing",
			Email:             "alan.turing@example.com",
			SIN:               "130692544",
			AddrLine1:         "1 Yonge St",
			AddrCity:          "Toronto",
			AddrPostal:        "M5E 1E5",
			BirthDate:         "1982-06-23",
			HireDate:          "2019-09-16",
			EmploymentType:    employee.EmploymentFullTime,
			PayType:           "SALARY",
			PayGroup:          "BI_WEEKLY",
			Salary:            &employee.Number{Raw: "52000"},
			PaymentMethod:     employee.PaymentDirectDeposit,
			BankName:          "Example Bank",
			BankAccount:       "1234567",
			TransitNumber:     "00011",
			InstitutionNumber: "004",
		},
		{
			FirstName:      "Katherine",
			LastName:       "Johnson",
			Email:          "katherine.johnson@example.com",
			SIN:            "193456787",
			AddrLine1:      "24 Sussex Dr",
			AddrCity:       "Ottawa",
			AddrPostal:     "K1M 1M4",
			BirthDate:      "1990-08-26",
			HireDate:       "2023-01-09",
			EmploymentType: employee.EmploymentPartTime,
			PayType:        "SALARY",
			PayGroup:       "MONTHLY",
			Salary:         &employee.Number{Raw: "24000"},
		},
	}
}

// Seed creates the demo employees that do not exist yet and returns how
// many it added. Existing emails are left alone.
func Seed(ctx context.Context, creator EmployeeCreator) (int, error) {
	created := 0
	for _, in := range demoEmployees() {
		id, err := creator.Create(ctx, in)
		if errors.Is(err, employee.ErrDuplicateEmail) {
			continue
		}
		if err != nil {
			return created, err
		}
		slog.Info("demo employee seeded", "employeeId", id.String(), "email", in.Email)
		created++
	}
	return created, nil
}
