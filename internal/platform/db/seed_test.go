package db

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"

	"paydesk/internal/domain/employee"
)

type countingCreator struct {
	existing map[string]bool
	next     snowflake.ID
	fail     error
}

func (c *countingCreator) Create(_ context.Context, in employee.CreateInput) (snowflake.ID, error) {
	if c.fail != nil {
		return 0, c.fail
	}
	if c.existing[in.Email] {
		return 0, employee.ErrDuplicateEmail
	}
	if _, err := employee.Validate(in); err != nil {
		return 0, err
	}
	c.existing[in.Email] = true
	c.next++
	return c.next, nil
}

func TestSeedIsRepeatable(t *testing.T) {
	creator := &countingCreator{existing: map[string]bool{}}

	created, err := Seed(context.Background(), creator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != len(demoEmployees()) {
		t.Fatalf("expected %d created, got %d", len(demoEmployees()), created)
	}

	created, err = Seed(context.Background(), creator)
	if err != nil || created != 0 {
		t.Fatalf("expected second seed to add nothing, got %d %v", created, err)
	}
}

func TestSeedStopsOnFailure(t *testing.T) {
	boom := errors.New("db down")
	if _, err := Seed(context.Background(), &countingCreator{existing: map[string]bool{}, fail: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected failure, got %v", err)
	}
}
