package holidays

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/holiday"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

const (
	minYear      = 1900
	maxYear      = 2200
	maxRangeDays = 366 * 5
)

type Handler struct {
	Calendar *holiday.Calendar
	now      func() time.Time
}

func NewHandler(calendar *holiday.Calendar) *Handler {
	return &Handler{Calendar: calendar, now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/holidays", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/{date}", h.handleOnDate)
	})
}

type listResponse struct {
	Jurisdiction string            `json:"jurisdiction"`
	Start        string            `json:"start"`
	End          string            `json:"end"`
	Holidays     []holiday.Holiday `json:"holidays"`
}

type dateResponse struct {
	Date         string           `json:"date"`
	Jurisdiction string           `json:"jurisdiction"`
	IsHoliday    bool             `json:"isHoliday"`
	Holiday      *holiday.Holiday `json:"holiday"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()
	v := shared.NewValidator()

	var start, end time.Time
	rawStart, rawEnd := query.Get("start"), query.Get("end")
	switch {
	case rawStart != "" || rawEnd != "":
		start, _ = v.Date("start", rawStart)
		end, _ = v.Date("end", rawEnd)
		v.DateOrder("start", start, "end", end)
		if !start.IsZero() && !end.IsZero() && end.Sub(start) > maxRangeDays*24*time.Hour {
			v.Add("end", "range must not exceed five years")
		}
	default:
		year := h.now().Year()
		if raw := query.Get("year"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < minYear || parsed > maxYear {
				v.Add("year", "must be a year between 1900 and 2200")
			}
			year = parsed
		}
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	if v.Reject(w, requestID) {
		return
	}

	found := h.Calendar.InRange(start, end)
	if found == nil {
		found = []holiday.Holiday{}
	}
	api.Success(w, listResponse{
		Jurisdiction: h.Calendar.Jurisdiction(),
		Start:        start.Format(holiday.DateLayout),
		End:          end.Format(holiday.DateLayout),
		Holidays:     found,
	}, requestID)
}

func (h *Handler) handleOnDate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	date, err := time.Parse(holiday.DateLayout, chi.URLParam(r, "date"))
	if err != nil {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "date", Reason: "must be a valid date in YYYY-MM-DD format"}})
		return
	}
	resp := dateResponse{Date: date.Format(holiday.DateLayout), Jurisdiction: h.Calendar.Jurisdiction()}
	if found, ok := h.Calendar.OnDate(date); ok {
		resp.IsHoliday = true
		resp.Holiday = &found
	}
	api.Success(w, resp, requestID)
}
