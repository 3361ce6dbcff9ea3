package payroll

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type StoreAPI interface {
	PayProfiles(ctx context.Context, employeeIDs []snowflake.ID) (map[snowflake.ID]PayProfile, error)
	CreatePayHistoryBatch(ctx context.Context, records []PayHistoryRecord) error
	UpdateStatus(ctx context.Context, ids []snowflake.ID, status string, from []string) (int64, error)
	ListPending(ctx context.Context, ids []snowflake.ID) ([]PendingExport, error)
	PaystubData(ctx context.Context, id snowflake.ID) (PaystubData, error)
}
