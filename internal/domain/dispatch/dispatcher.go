package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"paydesk/internal/platform/ids"
)

const (
	Source          = "paydesk/payroll"
	maxResponseBody = 1 << 20
)

// Request is a scheduling request as received from a client.
type Request struct {
	EmployeeIDs []ids.Flexible `json:"employeeIds"`
	PayDate     string         `json:"payDate"`
	PeriodStart *string        `json:"periodStart"`
	PeriodEnd   *string        `json:"periodEnd"`
	SendAt      *string        `json:"sendAt"`
	Timezone    string         `json:"timezone"`
	Meta        map[string]any `json:"meta"`
}

// Payload is the JSON body posted to the workflow endpoint.
type Payload struct {
	EmployeeIDs []string       `json:"employeeIds"`
	PayDate     string         `json:"payDate"`
	PeriodStart *string        `json:"periodStart"`
	PeriodEnd   *string        `json:"periodEnd"`
	SendAt      *string        `json:"sendAt"`
	Timezone    string         `json:"timezone"`
	Meta        map[string]any `json:"meta"`
	SendAtISO   string         `json:"sendAtIso"`
	ReceivedAt  string         `json:"receivedAt"`
	Source      string         `json:"source"`
}

type Result struct {
	Status    int             `json:"status"`
	SendAtISO string          `json:"sendAtIso"`
	Upstream  json.RawMessage `json:"upstream"`
}

type Config struct {
	URL             string
	Secret          string
	Timeout         time.Duration
	DefaultTimezone string
}

type Dispatcher struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

func New(cfg Config) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if strings.TrimSpace(cfg.DefaultTimezone) == "" {
		cfg.DefaultTimezone = DefaultTimezone
	}
	return &Dispatcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		now:    time.Now,
	}
}

func (d *Dispatcher) Configured() bool {
	return strings.TrimSpace(d.cfg.URL) != ""
}

// BuildPayload validates req and resolves its send instant.
func (d *Dispatcher) BuildPayload(req Request) (Payload, error) {
	if len(req.EmployeeIDs) == 0 {
		return Payload{}, &FieldError{Field: "employeeIds", Reason: "must list at least one employee"}
	}
	if _, err := ParseDay(req.PayDate); err != nil {
		return Payload{}, &FieldError{Field: "payDate", Reason: "must be YYYY-MM-DD", Err: err}
	}
	tz := strings.TrimSpace(req.Timezone)
	if tz == "" {
		tz = d.cfg.DefaultTimezone
	}
	sendAt, err := ResolveSendAt(req.PayDate, req.SendAt, tz)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidTimezone):
			return Payload{}, &FieldError{Field: "timezone", Reason: "unknown IANA timezone", Err: err}
		case errors.Is(err, ErrInvalidSendAt):
			return Payload{}, &FieldError{Field: "sendAt", Reason: "must be a date, a local date-time or an RFC 3339 instant", Err: err}
		}
		return Payload{}, err
	}

	meta := req.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	return Payload{
		EmployeeIDs: ids.Strings(ids.FromFlexible(req.EmployeeIDs)),
		PayDate:     req.PayDate,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		SendAt:      req.SendAt,
		Timezone:    tz,
		Meta:        meta,
		SendAtISO:   sendAt.Format(time.RFC3339),
		ReceivedAt:  d.now().UTC().Format(time.RFC3339Nano),
		Source:      Source,
	}, nil
}

// Schedule posts one scheduling request to the workflow endpoint. It never
// retries; a non-2xx answer or a transport failure is an UpstreamError.
func (d *Dispatcher) Schedule(ctx context.Context, req Request) (Result, error) {
	if !d.Configured() {
		return Result{}, ErrNotConfigured
	}
	payload, err := d.BuildPayload(req)
	if err != nil {
		return Result{}, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build workflow request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if d.cfg.Secret != "" {
		httpReq.Header.Set("Authorization", "Bearer "+d.cfg.Secret)
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return Result{}, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	upstream := readBody(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("workflow endpoint rejected schedule", "status", resp.StatusCode, "employees", len(payload.EmployeeIDs))
		return Result{}, &UpstreamError{Status: resp.StatusCode, Body: upstream}
	}
	slog.Info("payroll schedule dispatched", "sendAt", payload.SendAtISO, "employees", len(payload.EmployeeIDs))
	return Result{Status: resp.StatusCode, SendAtISO: payload.SendAtISO, Upstream: upstream}, nil
}

// readBody returns the response as JSON. Non-JSON text is wrapped as
// {"raw": text}; an empty body becomes {}.
func readBody(r io.Reader) json.RawMessage {
	data, _ := io.ReadAll(io.LimitReader(r, maxResponseBody))
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return json.RawMessage(`{}`)
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	wrapped, _ := json.Marshal(map[string]string{"raw": string(data)})
	return wrapped
}
