package employees

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/employee"
	"paydesk/internal/domain/payroll"
	"paydesk/internal/transport/http/api"
	"paydesk/internal/transport/http/middleware"
	"paydesk/internal/transport/http/shared"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type Service interface {
	Create(ctx context.Context, in employee.CreateInput) (snowflake.ID, error)
	List(ctx context.Context, filter employee.ListFilter) ([]employee.Summary, int, error)
}

type Handler struct {
	Service Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
	})
}

type listResponse struct {
	Items  []employee.Summary `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload employee.CreateInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.FailDecode(w, requestID, err)
		return
	}

	id, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		var verr *employee.ValidationError
		switch {
		case errors.As(err, &verr):
			issues := make([]shared.ValidationIssue, 0, len(verr.Issues))
			for _, issue := range verr.Issues {
				issues = append(issues, shared.ValidationIssue{Field: issue.Field, Reason: issue.Reason})
			}
			shared.FailValidation(w, requestID, issues)
		case errors.Is(err, employee.ErrDuplicateEmail):
			api.Fail(w, http.StatusConflict, "duplicate_email", "an employee with this email already exists", requestID)
		default:
			slog.Error("employee create failed", "err", err, "requestId", requestID)
			api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", requestID)
		}
		return
	}
	api.Created(w, map[string]string{"id": id.String()}, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	payType := r.URL.Query().Get("payType")
	v := shared.NewValidator()
	v.Enum("payType", payType, []string{payroll.PayTypeHourly, payroll.PayTypeSalary}, "must be HOURLY or SALARY")
	page := v.Page(r.URL.Query(), defaultPageSize, maxPageSize)
	if v.Reject(w, requestID) {
		return
	}

	items, total, err := h.Service.List(r.Context(), employee.ListFilter{PayType: payType, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		slog.Error("employee list failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", requestID)
		return
	}
	if items == nil {
		items = []employee.Summary{}
	}
	api.Success(w, listResponse{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, requestID)
}
