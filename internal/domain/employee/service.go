package employee

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type IDSource interface {
	Generate() snowflake.ID
}

// Notifier is told about new employees. Delivery is best effort and must
// not block or fail creation.
type Notifier interface {
	EmployeeCreated(ctx context.Context, emp Employee)
}

type Service struct {
	store    StoreAPI
	ids      IDSource
	notifier Notifier
	now      func() time.Time
}

func NewService(store StoreAPI, ids IDSource, notifier Notifier) *Service {
	return &Service{store: store, ids: ids, notifier: notifier, now: time.Now}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (snowflake.ID, error) {
	emp, err := Validate(in)
	if err != nil {
		return 0, err
	}
	emp.ID = s.ids.Generate()
	emp.CreatedAt = s.now().UTC()

	if err := s.store.Create(ctx, emp); err != nil {
		return 0, err
	}
	slog.Info("employee created", "employeeId", emp.ID.String(), "payType", emp.PayType, "payGroup", emp.PayGroup)

	if s.notifier != nil {
		s.notifier.EmployeeCreated(ctx, emp)
	}
	return emp.ID, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Summary, int, error) {
	filter.PayType = strings.ToUpper(strings.TrimSpace(filter.PayType))
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.store.List(ctx, filter)
}
