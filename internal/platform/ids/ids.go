// Package ids issues and parses the 63-bit snowflake identifiers used for
// employees and pay history. Identifiers exceed the safe integer range of
// JSON number consumers, so they always cross the HTTP boundary as strings.
package ids

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
)

var ErrInvalidID = errors.New("invalid identifier")

type Generator struct {
	node *snowflake.Node
}

func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	return &Generator{node: node}, nil
}

func (g *Generator) Generate() snowflake.ID {
	return g.node.Generate()
}

// Parse accepts a base-10 integer string and rejects anything else,
// including fractions, exponents and non-positive values.
func Parse(raw string) (snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidID
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return snowflake.ID(value), nil
}

// Canonical re-renders a raw identifier in its canonical decimal form.
func Canonical(raw string) (string, error) {
	id, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func Strings(values []snowflake.ID) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

func Int64s(values []snowflake.ID) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = v.Int64()
	}
	return out
}

// Flexible decodes an identifier sent either as a JSON string or a JSON
// number. Numbers are read from their literal text, never through float64.
type Flexible snowflake.ID

func (f *Flexible) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidID, data)
		}
	}
	id, err := Parse(raw)
	if err != nil {
		return err
	}
	*f = Flexible(id)
	return nil
}

func (f Flexible) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.ID().String())
}

func (f Flexible) ID() snowflake.ID {
	return snowflake.ID(f)
}

func FromFlexible(values []Flexible) []snowflake.ID {
	out := make([]snowflake.ID, len(values))
	for i, v := range values {
		out[i] = v.ID()
	}
	return out
}
