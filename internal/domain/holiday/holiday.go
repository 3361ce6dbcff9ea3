// Package holiday computes statutory holidays for a jurisdiction and answers
// year, range and single-date queries. Dates carry no time component: every
// Holiday.Date is midnight UTC of its calendar day.
package holiday

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"
)

var ErrUnknownJurisdiction = errors.New("unknown holiday jurisdiction")

type Holiday struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

const DateLayout = "2006-01-02"

// MarshalJSON renders Date as a bare calendar date.
func (h Holiday) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Date string `json:"date"`
	}{ID: h.ID, Name: h.Name, Date: h.Date.Format(DateLayout)})
}

// Jurisdiction is a rule set producing the holidays of one calendar year.
type Jurisdiction interface {
	Code() string
	Holidays(year int) []Holiday
}

var jurisdictions = map[string]Jurisdiction{
	OntarioCode: Ontario{},
}

func Lookup(code string) (Jurisdiction, error) {
	rules, ok := jurisdictions[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, ErrUnknownJurisdiction
	}
	return rules, nil
}

func Codes() []string {
	codes := make([]string, 0, len(jurisdictions))
	for code := range jurisdictions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

type Calendar struct {
	rules Jurisdiction
}

func NewCalendar(rules Jurisdiction) *Calendar {
	return &Calendar{rules: rules}
}

func (c *Calendar) Jurisdiction() string {
	return c.rules.Code()
}

// ForYear returns the year's holidays ordered by date ascending.
func (c *Calendar) ForYear(year int) []Holiday {
	holidays := c.rules.Holidays(year)
	out := make([]Holiday, len(holidays))
	copy(out, holidays)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// InRange returns holidays between start and end, both inclusive, for every
// year the range touches.
func (c *Calendar) InRange(start, end time.Time) []Holiday {
	from, to := Day(start), Day(end)
	if to.Before(from) {
		return nil
	}
	var out []Holiday
	for year := from.Year(); year <= to.Year(); year++ {
		for _, h := range c.ForYear(year) {
			if h.Date.Before(from) || h.Date.After(to) {
				continue
			}
			out = append(out, h)
		}
	}
	return out
}

func (c *Calendar) OnDate(date time.Time) (Holiday, bool) {
	target := Day(date)
	for _, h := range c.rules.Holidays(target.Year()) {
		if h.Date.Equal(target) {
			return h, true
		}
	}
	return Holiday{}, false
}

// Day truncates t to its calendar day, keeping the year, month and day as
// seen in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
