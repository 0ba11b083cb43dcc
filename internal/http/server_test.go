package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meudinheiro/internal/aggregate"
	"meudinheiro/internal/cache"
	"meudinheiro/internal/core"
	"meudinheiro/internal/log"
	"meudinheiro/internal/middleware/ratelimit"
	"meudinheiro/internal/notify"
	"meudinheiro/internal/services"
	"meudinheiro/internal/store/memory"
)

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func quietLogger() *log.Logger {
	return log.New(log.Config{Component: "test", Handler: slog.NewTextHandler(io.Discard, nil)})
}

func newTestServer(t *testing.T, limiter *ratelimit.Limiter) *Server {
	t.Helper()
	logger := quietLogger()
	st := memory.New(nil)
	q := notify.New(time.Hour, nil, logger)
	t.Cleanup(q.Close)
	mon := services.NewDueMonitor(st.Transactions(), q, services.WindowRule{Days: 3}, false, logger)
	session := services.NewSession(services.SessionConfig{
		Store:        st,
		Queue:        q,
		Monitor:      mon,
		Dashboards:   cache.NewLRUCache[aggregate.Dashboard](8, time.Minute),
		Logger:       logger,
		Now:          func() time.Time { return fixedNow },
		CashFlowSeed: core.Reais(100),
	})
	return NewServer(":0", session, Options{Logger: logger, Limiter: limiter})
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func onboard(t *testing.T, srv *Server, p core.UserProfile) {
	t.Helper()
	rr := do(t, srv, http.MethodPost, "/api/onboarding", p)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func rent() map[string]any {
	return map[string]any{
		"date":          "2025-03-12",
		"description":   "Aluguel",
		"amountText":    "1.500,00",
		"type":          "EXPENSE",
		"category":      "moradia",
		"paymentMethod": "PIX",
		"owner":         "USER1",
		"status":        "PENDING",
	}
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	}

	rr := do(t, srv, http.MethodPost, "/healthz", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestMiddlewareHeaders(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := do(t, srv, http.MethodGet, "/api/profile", nil)
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.True(t, strings.HasPrefix(rr.Header().Get("X-Request-ID"), "req_"))
	assert.Equal(t, int64(1), srv.Metrics().TotalRequests)
}

func TestOnboardingAndViewSelection(t *testing.T) {
	srv := newTestServer(t, nil)

	profile := decode[core.UserProfile](t, do(t, srv, http.MethodGet, "/api/profile", nil))
	assert.False(t, profile.SetupComplete)

	rr := do(t, srv, http.MethodPost, "/api/onboarding", core.UserProfile{Mode: core.Couple, User1Name: "Ana"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	onboard(t, srv, core.UserProfile{Mode: core.Couple, User1Name: "Ana", User2Name: "Bruno"})
	profile = decode[core.UserProfile](t, do(t, srv, http.MethodGet, "/api/profile", nil))
	assert.True(t, profile.SetupComplete)

	view := decode[viewResponse](t, do(t, srv, http.MethodGet, "/api/view", nil))
	assert.Equal(t, core.Joint, view.View)
	assert.Equal(t, []core.ViewMode{core.Joint, core.User1, core.User2}, view.Views)

	rr = do(t, srv, http.MethodPut, "/api/view", map[string]string{"view": "USER2"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, core.User2, decode[viewResponse](t, rr).View)

	rr = do(t, srv, http.MethodPut, "/api/profile", core.UserProfile{Mode: core.Single, User1Name: "Ana"})
	require.Equal(t, http.StatusOK, rr.Code)
	updated := decode[core.UserProfile](t, rr)
	assert.True(t, updated.SetupComplete)
	assert.Empty(t, updated.User2Name)

	view = decode[viewResponse](t, do(t, srv, http.MethodGet, "/api/view", nil))
	assert.Equal(t, core.Joint, view.View)

	rr = do(t, srv, http.MethodPut, "/api/view", map[string]string{"view": "USER2"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, log.ErrorTypeConflict, decode[errorBody](t, rr).Code)
}

func TestTransactionLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)
	onboard(t, srv, core.UserProfile{Mode: core.Single, User1Name: "Ana"})

	rr := do(t, srv, http.MethodPost, "/api/transactions", rent())
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[transactionView](t, rr)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(150000), created.Amount.Cents)
	assert.Equal(t, "R$ 1.500,00", created.AmountFormatted)
	assert.Equal(t, "12/03/2025", created.DateFormatted)
	assert.Equal(t, "Moradia", created.CategoryName)

	list := decode[[]transactionView](t, do(t, srv, http.MethodGet, "/api/transactions?status=pending", nil))
	require.Len(t, list, 1)
	list = decode[[]transactionView](t, do(t, srv, http.MethodGet, "/api/transactions?status=CONFIRMED", nil))
	assert.Empty(t, list)
	list = decode[[]transactionView](t, do(t, srv, http.MethodGet, "/api/transactions?q=alug", nil))
	assert.Len(t, list, 1)

	update := rent()
	update["description"] = "Aluguel março"
	update["status"] = "CONFIRMED"
	rr = do(t, srv, http.MethodPut, "/api/transactions/"+created.ID, update)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Aluguel março", decode[transactionView](t, rr).Description)

	rr = do(t, srv, http.MethodPut, "/api/transactions/missing", update)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = do(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, log.ErrorTypeNotFound, decode[errorBody](t, rr).Code)
}

func TestRequestValidation(t *testing.T) {
	srv := newTestServer(t, nil)
	onboard(t, srv, core.UserProfile{Mode: core.Single, User1Name: "Ana"})

	withField := func(key string, v any) map[string]any {
		tx := rent()
		tx[key] = v
		return tx
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"malformed json", http.MethodPost, "/api/transactions", "{"},
		{"empty body", http.MethodPost, "/api/transactions", ""},
		{"unknown field", http.MethodPost, "/api/transactions", withField("color", "red")},
		{"fractional cents", http.MethodPost, "/api/accounts", `{"name":"Conta","owner":"USER1","type":"CHECKING","balanceConfirmed":1.5}`},
		{"bad amount text", http.MethodPost, "/api/transactions", withField("amountText", "abc")},
		{"unknown category", http.MethodPost, "/api/transactions", withField("category", "viagem")},
		{"user2 in single mode", http.MethodPost, "/api/transactions", withField("owner", "USER2")},
		{"unknown status filter", http.MethodGet, "/api/transactions?status=LATE", nil},
		{"bad cashflow start", http.MethodGet, "/api/cashflow?start=03-2025", nil},
		{"inverted cashflow window", http.MethodGet, "/api/cashflow?start=2025-03-10&end=2025-03-01", nil},
		{"bad seed", http.MethodGet, "/api/cashflow?seed=1.5", nil},
		{"unknown category type", http.MethodGet, "/api/categories?type=GIFT", nil},
		{"goal without target", http.MethodPost, "/api/goals", map[string]any{"title": "Viagem", "owner": "JOINT", "type": "SAVING"}},
		{"card day out of range", http.MethodPost, "/api/cards", map[string]any{"name": "Nubank", "owner": "USER1", "limit": 100000, "closingDay": 0, "dueDay": 10}},
		{"empty notification", http.MethodPost, "/api/notifications", map[string]string{"type": "INFO"}},
		{"inverted range", http.MethodPut, "/api/range", map[string]string{"start": "2025-03-10", "end": "2025-03-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			assert.Equal(t, log.ErrorTypeValidation, decode[errorBody](t, rr).Code)
		})
	}
}

func TestEntityEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)
	onboard(t, srv, core.UserProfile{Mode: core.Couple, User1Name: "Ana", User2Name: "Bruno"})

	rr := do(t, srv, http.MethodPost, "/api/accounts", map[string]any{
		"name": "Conta Ana", "bank": "Nubank", "owner": "USER1",
		"balanceConfirmed": 250000, "balanceProjected": 300000, "type": "CHECKING",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	account := decode[accountView](t, rr)
	assert.Equal(t, "R$ 2.500,00", account.BalanceConfirmedFormatted)

	rr = do(t, srv, http.MethodPost, "/api/goals", map[string]any{
		"title": "Reserva", "targetAmount": 100000, "currentAmount": 25000,
		"deadline": "2025-12-31", "owner": "JOINT", "type": "SAVING",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, srv, http.MethodPost, "/api/cards", map[string]any{
		"name": "Roxinho", "bank": "Nubank", "owner": "USER2",
		"limit": 500000, "used": 450000, "closingDay": 3, "dueDay": 10, "brand": "Mastercard",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	accounts := decode[[]accountView](t, do(t, srv, http.MethodGet, "/api/accounts", nil))
	assert.Len(t, accounts, 1)

	goals := decode[[]aggregate.GoalStatus](t, do(t, srv, http.MethodGet, "/api/goals", nil))
	require.Len(t, goals, 1)
	assert.Equal(t, 25, goals[0].Percentage)

	cards := decode[[]aggregate.CardUtilization](t, do(t, srv, http.MethodGet, "/api/cards", nil))
	require.Len(t, cards, 1)
	assert.InDelta(t, 90.0, cards[0].Percentage, 0.001)

	// USER1 view hides the USER2 card and the JOINT goal stays visible.
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPut, "/api/view", map[string]string{"view": "USER1"}).Code)
	cards = decode[[]aggregate.CardUtilization](t, do(t, srv, http.MethodGet, "/api/cards", nil))
	assert.Empty(t, cards)
	goals = decode[[]aggregate.GoalStatus](t, do(t, srv, http.MethodGet, "/api/goals", nil))
	assert.Len(t, goals, 1)
}

func TestDashboardAndPlanning(t *testing.T) {
	srv := newTestServer(t, nil)
	onboard(t, srv, core.UserProfile{Mode: core.Single, User1Name: "Ana"})

	salary := map[string]any{
		"date": "2025-03-05", "description": "Salário", "amount": 500000,
		"type": "INCOME", "category": "salario", "paymentMethod": "TRANSFER",
		"owner": "USER1", "status": "CONFIRMED",
	}
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/transactions", salary).Code)
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/transactions", rent()).Code)

	rr := do(t, srv, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var dash struct {
		View         core.ViewMode          `json:"view"`
		Totals       aggregate.PeriodTotals `json:"totals"`
		Transactions []transactionView      `json:"transactions"`
		Formatted    map[string]string      `json:"formatted"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dash))
	assert.Equal(t, core.Joint, dash.View)
	assert.Equal(t, int64(500000), dash.Totals.Income.Cents)
	assert.Equal(t, int64(0), dash.Totals.Expense.Cents)
	assert.Equal(t, "R$ 5.000,00", dash.Formatted["income"])
	require.Len(t, dash.Transactions, 2)
	assert.Equal(t, "Aluguel", dash.Transactions[0].Description)

	plan := decode[planningView](t, do(t, srv, http.MethodGet, "/api/planning", nil))
	require.Len(t, plan.Payables, 1)
	assert.Empty(t, plan.Receivables)
	assert.Equal(t, "R$ 1.500,00", plan.PayablesTotalFormatted)
}

func TestCashFlowParameters(t *testing.T) {
	srv := newTestServer(t, nil)

	series := decode[aggregate.CashFlowSeries](t, do(t, srv, http.MethodGet, "/api/cashflow", nil))
	assert.Len(t, series.Days, 31)
	assert.Equal(t, int64(10000), series.Seed.Cents)

	series = decode[aggregate.CashFlowSeries](t, do(t, srv, http.MethodGet, "/api/cashflow?start=2025-03-01&end=2025-03-03&seed=-500", nil))
	require.Len(t, series.Days, 3)
	assert.Equal(t, int64(-500), series.Seed.Cents)
	for _, d := range series.Days {
		assert.Equal(t, int64(-500), d.Balance.Cents)
	}
}

func TestDateRangeEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	window := decode[aggregate.DateRange](t, do(t, srv, http.MethodGet, "/api/range", nil))
	assert.Equal(t, "2025-03-01", window.Start.String())
	assert.Equal(t, "2025-03-31", window.End.String())

	rr := do(t, srv, http.MethodPut, "/api/range", map[string]string{"start": "2025-02-01", "end": "2025-02-07"})
	require.Equal(t, http.StatusOK, rr.Code)

	series := decode[aggregate.CashFlowSeries](t, do(t, srv, http.MethodGet, "/api/cashflow", nil))
	assert.Len(t, series.Days, 7)

	rr = do(t, srv, http.MethodPut, "/api/range", map[string]string{"start": "1600-01-01", "end": "2025-12-31"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(t, srv, http.MethodGet, "/api/cashflow?start=1600-01-01&end=2025-12-31", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCategoriesEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	all := decode[[]core.Category](t, do(t, srv, http.MethodGet, "/api/categories", nil))
	assert.Len(t, all, len(core.Categories()))

	income := decode[[]core.Category](t, do(t, srv, http.MethodGet, "/api/categories?type=income", nil))
	require.NotEmpty(t, income)
	for _, c := range income {
		assert.Equal(t, core.Income, c.Type)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := do(t, srv, http.MethodPost, "/api/notifications", map[string]string{"message": "Olá", "type": "BOGUS"})
	require.Equal(t, http.StatusCreated, rr.Code)
	n := decode[core.Notification](t, rr)
	assert.Equal(t, core.Info, n.Type)

	list := decode[[]core.Notification](t, do(t, srv, http.MethodGet, "/api/notifications", nil))
	require.Len(t, list, 1)
	assert.Equal(t, n.ID, list[0].ID)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/notifications/"+n.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodDelete, "/api/notifications/"+n.ID, nil).Code)
}

func TestSessionReset(t *testing.T) {
	srv := newTestServer(t, nil)
	onboard(t, srv, core.UserProfile{Mode: core.Single, User1Name: "Ana"})
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/transactions", rent()).Code)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodPost, "/api/session/reset", nil).Code)

	profile := decode[core.UserProfile](t, do(t, srv, http.MethodGet, "/api/profile", nil))
	assert.False(t, profile.SetupComplete)
	assert.Empty(t, decode[[]transactionView](t, do(t, srv, http.MethodGet, "/api/transactions", nil)))
	assert.Empty(t, decode[[]core.Notification](t, do(t, srv, http.MethodGet, "/api/notifications", nil)))
}

func TestRateLimitAppliesToMutationsOnly(t *testing.T) {
	srv := newTestServer(t, ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: 1}))

	body := map[string]string{"message": "Olá"}
	assert.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/notifications", body).Code)

	rr := do(t, srv, http.MethodPost, "/api/notifications", body)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))

	for range 3 {
		assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/notifications", nil).Code)
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"direct", "203.0.113.7:5000", nil, "203.0.113.7"},
		{"untrusted peer ignores XFF", "203.0.113.7:5000", map[string]string{"X-Forwarded-For": "198.51.100.1"}, "203.0.113.7"},
		{"trusted proxy XFF", "10.0.0.2:5000", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.2"}, "198.51.100.1"},
		{"trusted proxy X-Real-IP", "127.0.0.1:5000", map[string]string{"X-Real-IP": "198.51.100.9"}, "198.51.100.9"},
		{"trusted proxy garbage header", "192.168.1.1:5000", map[string]string{"X-Forwarded-For": "not-an-ip"}, "192.168.1.1"},
		{"no port", "203.0.113.7", nil, "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, extractClientIP(req))
		})
	}
}
