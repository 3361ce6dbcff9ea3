package employee

import "context"

type StoreAPI interface {
	Create(ctx context.Context, emp Employee) error
	List(ctx context.Context, filter ListFilter) ([]Summary, int, error)
}

// Sealer protects SIN and bank account numbers at rest.
type Sealer interface {
	SealString(value string) ([]byte, error)
	OpenString(sealed []byte) (string, error)
}
