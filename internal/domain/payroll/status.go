package payroll

import (
	"fmt"
	"strings"
)

// statusAliases maps accepted input names onto stored statuses. SENT was
// used for the terminal state by older clients.
var statusAliases = map[string]string{
	StatusPending:   StatusPending,
	StatusProcessed: StatusProcessed,
	StatusPaid:      StatusPaid,
	"SENT":          StatusPaid,
}

// allowedFrom lists, per target status, the statuses a record may move from.
var allowedFrom = map[string][]string{
	StatusPending:   {StatusProcessed},
	StatusProcessed: {StatusPending},
	StatusPaid:      {StatusPending, StatusProcessed},
}

func NormalizeStatus(raw string) (string, error) {
	status, ok := statusAliases[strings.ToUpper(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// AllowedFrom returns the source statuses for a transition into target.
func AllowedFrom(target string) []string {
	from := allowedFrom[target]
	out := make([]string, len(from))
	copy(out, from)
	return out
}

func CanTransition(from, to string) bool {
	for _, candidate := range allowedFrom[to] {
		if candidate == from {
			return true
		}
	}
	return false
}
