package shared

import (
	"strings"

	"github.com/bwmarrin/snowflake"

	"paydesk/internal/platform/ids"
)

// ParseIDList reads a comma separated list of ids. Blank entries are
// skipped; the first malformed entry is returned with the error.
func ParseIDList(raw string) ([]snowflake.ID, string, error) {
	var out []snowflake.ID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := ids.Parse(part)
		if err != nil {
			return nil, part, err
		}
		out = append(out, id)
	}
	return out, "", nil
}
