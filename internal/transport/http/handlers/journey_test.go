package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydesk/internal/app/server"
	"paydesk/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestApp(t *testing.T) *httptest.Server {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:         dbURL,
		DataEncryptionKey:   "0123456789abcdef0123456789abcdef",
		Environment:         "test",
		WorkflowTimeout:     5 * time.Second,
		DefaultTimezone:     "America/Toronto",
		HolidayJurisdiction: "CA-ON",
		MaxBodyBytes:        1048576,
		RateLimitPerMinute:  1000,
		NodeID:              7,
		RunMigrations:       true,
	}

	app, err := server.New(context.Background(), cfg)
	require.NoError(t, err, "failed to start app")
	ts := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		ts.Close()
		app.Close()
	})
	return ts
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, headers map[string]string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func createHourlyEmployee(t *testing.T, client *http.Client, baseURL, email string) string {
	t.Helper()
	status, env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/employees", map[string]any{
		"firstName":      "Ada",
		"lastName":       "Lovelace",
		"email":          email,
		"sin":            "046 454 286",
		"addrLine1":      "10 King St E",
		"addrCity":       "Toronto",
		"addrPostal":     "M5C 1C3",
		"birthDate":      "1990-12-10",
		"hireDate":       "2022-02-01",
		"employmentType": "FULL_TIME",
		"payType":        "HOURLY",
		"hourlyRate":     "20.00",
	}, nil)
	require.Equal(t, http.StatusCreated, status, "create employee: %+v", env.Error)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestPayRunJourney(t *testing.T) {
	ts := newTestApp(t)
	client := ts.Client()

	email := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	employeeID := createHourlyEmployee(t, client, ts.URL, email)

	status, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/employees", map[string]any{
		"firstName": "Ada", "lastName": "Again", "email": email, "sin": "046454286",
		"addrLine1": "1 Main", "addrCity": "Toronto", "addrPostal": "M5C 1C3",
		"birthDate": "1990-12-10", "hireDate": "2022-02-01",
		"employmentType": "FULL_TIME", "payType": "HOURLY", "hourlyRate": 20,
	}, nil)
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "duplicate_email", env.Error.Code)

	run := map[string]any{
		"periodStart": "2025-06-23",
		"periodEnd":   "2025-07-06",
		"payDate":     "2025-07-11",
		"items": []map[string]any{
			{"employeeId": employeeID, "hoursWorked": "40"},
		},
	}
	headers := map[string]string{"Idempotency-Key": "journey-" + employeeID}

	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/payroll/runs", run, headers)
	require.Equal(t, http.StatusCreated, status, "submit run: %+v", env.Error)
	var summary struct {
		Count  int      `json:"count"`
		IDs    []string `json:"ids"`
		Totals struct {
			BasePay decimal.Decimal `json:"basePay"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	require.Equal(t, 1, summary.Count)
	require.Len(t, summary.IDs, 1)
	assert.True(t, decimal.RequireFromString("800").Equal(summary.Totals.BasePay), "basePay %s", summary.Totals.BasePay)

	status, replay := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/payroll/runs", run, headers)
	require.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, string(env.Data), string(replay.Data))

	run["payDate"] = "2025-07-18"
	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/payroll/runs", run, headers)
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "idempotency_conflict", env.Error.Code)

	recordID := summary.IDs[0]
	status, env = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/payroll/export?ids="+recordID, nil, nil)
	require.Equal(t, http.StatusOK, status)
	var pending []struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Employee struct {
			Email string `json:"email"`
		} `json:"employee"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "PENDING", pending[0].Status)
	assert.Equal(t, email, pending[0].Employee.Email)

	status, env = doJSON(t, client, http.MethodPatch, ts.URL+"/api/v1/payroll/history/status", map[string]any{
		"ids":    []string{recordID},
		"status": "SENT",
	}, nil)
	require.Equal(t, http.StatusOK, status, "update status: %+v", env.Error)
	assert.JSONEq(t, `{"updated":1}`, string(env.Data))

	status, env = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/payroll/export?ids="+recordID, nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))

	resp, err := client.Get(ts.URL + "/api/v1/payroll/history/" + recordID + "/paystub.pdf")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestPayRunRejectsUnknownEmployee(t *testing.T) {
	ts := newTestApp(t)

	status, env := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/payroll/runs", map[string]any{
		"periodStart": "2025-06-23",
		"periodEnd":   "2025-07-06",
		"payDate":     "2025-07-11",
		"items":       []map[string]any{{"employeeId": "42", "hoursWorked": 10}},
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "unknown_employee", env.Error.Code)
}

func TestScheduleWithoutWorkflowIsUnavailable(t *testing.T) {
	ts := newTestApp(t)

	status, env := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/payroll/update-status", map[string]any{
		"employeeIds": []string{"1"},
		"payDate":     "2025-07-11",
	}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "dispatch_not_configured", env.Error.Code)
}
