package payroll

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	"paydesk/internal/platform/ids"
)

func boolPtr(v bool) *bool {
	return &v
}

func sampleProfiles() map[snowflake.ID]PayProfile {
	return map[snowflake.ID]PayProfile{
		1: hourlyProfile("20"),
		2: {EmployeeID: 2, PayType: PayTypeSalary, PayGroup: PayGroupBiWeekly, Salary: decPtr("52000"), VacationPayPercent: dec("4")},
		3: {EmployeeID: 3, PayType: PayTypeHourly, HourlyRate: decPtr("17.35"), VacationPayPercent: dec("6")},
		4: {EmployeeID: 4, PayType: PayTypeSalary, PayGroup: PayGroupMonthly, Salary: decPtr("71234.57"), VacationPayPercent: dec("4")},
	}
}

func sampleItems() []LineItem {
	return []LineItem{
		{EmployeeID: 1, HoursWorked: decPtr("40"), OvertimeHours: decPtr("5")},
		{EmployeeID: 2},
		{EmployeeID: 3, HoursWorked: decPtr("37.5"), HolidayHours: decPtr("7.5"), IncludeVacation: boolPtr(false)},
		{EmployeeID: 4, Included: boolPtr(false)},
	}
}

func TestAggregateTotals(t *testing.T) {
	results, totals, err := Aggregate(sampleProfiles(), sampleItems())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected every row listed, got %d", len(results))
	}
	if results[3].Included || !results[3].GrossPay.IsZero() {
		t.Fatalf("expected excluded row with zero gross, got %+v", results[3])
	}

	sum := decimal.Zero
	for _, row := range results {
		if row.Included {
			sum = sum.Add(row.GrossPay)
		}
	}
	if !totals.GrossPay.Equal(sum) {
		t.Fatalf("expected totals %s to equal row sum %s", totals.GrossPay, sum)
	}
	if totals.Included != 3 {
		t.Fatalf("expected 3 included rows, got %d", totals.Included)
	}
	if !totals.BasePay.Add(totals.VacationPay).Equal(totals.GrossPay) {
		t.Fatalf("expected base + vacation = gross, got %s + %s != %s", totals.BasePay, totals.VacationPay, totals.GrossPay)
	}
}

func TestAggregateExcludedRowsDoNotChangeTotals(t *testing.T) {
	items := sampleItems()
	_, withExcluded, err := Aggregate(sampleProfiles(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var onlyIncluded []LineItem
	for _, item := range items {
		if item.IsIncluded() {
			onlyIncluded = append(onlyIncluded, item)
		}
	}
	_, without, err := Aggregate(sampleProfiles(), onlyIncluded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !withExcluded.GrossPay.Equal(without.GrossPay) {
		t.Fatalf("expected equal totals, got %s and %s", withExcluded.GrossPay, without.GrossPay)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	items := sampleItems()
	_, want, err := Aggregate(sampleProfiles(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := append([]LineItem(nil), items...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		_, got, err := Aggregate(sampleProfiles(), shuffled)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.GrossPay.Equal(want.GrossPay) || !got.BasePay.Equal(want.BasePay) {
			t.Fatalf("expected order independent totals, got %s vs %s", got.GrossPay, want.GrossPay)
		}
	}
}

func TestAggregateUnknownEmployee(t *testing.T) {
	items := append(sampleItems(), LineItem{EmployeeID: ids.Flexible(99), HoursWorked: decPtr("8")})
	results, totals, err := Aggregate(sampleProfiles(), items)
	if !errors.Is(err, ErrUnknownEmployee) {
		t.Fatalf("expected ErrUnknownEmployee, got %v", err)
	}
	var unknown *UnknownEmployeeError
	if !errors.As(err, &unknown) || unknown.ID != 99 {
		t.Fatalf("expected error naming id 99, got %v", err)
	}
	last := results[len(results)-1]
	if len(last.Errors) != 1 || !last.GrossPay.IsZero() {
		t.Fatalf("expected failed row annotated, got %+v", last)
	}
	if totals.Included != 3 {
		t.Fatalf("expected failed row excluded from totals, got %d", totals.Included)
	}
}

func TestAggregateMissingRateIsRowError(t *testing.T) {
	profiles := map[snowflake.ID]PayProfile{7: {EmployeeID: 7, PayType: PayTypeHourly}}
	_, _, err := Aggregate(profiles, []LineItem{{EmployeeID: 7, HoursWorked: decPtr("10")}})
	var rowErr *RowError
	if !errors.As(err, &rowErr) || rowErr.EmployeeID != 7 {
		t.Fatalf("expected RowError for employee 7, got %v", err)
	}
	if !errors.Is(err, ErrMissingPayRate) {
		t.Fatalf("expected ErrMissingPayRate, got %v", err)
	}
}
