package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/financial-health/internal/auth"
	"example.com/financial-health/internal/notifications"
)

func TestStreamRequiresUser(t *testing.T) {
	e := echo.New()
	h := NewNotificationHandler(notifications.NewHub())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, h.Stream(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type signalRecorder struct {
	*httptest.ResponseRecorder
	writes chan string
}

func (r *signalRecorder) Write(p []byte) (int, error) {
	n, err := r.ResponseRecorder.Write(p)
	select {
	case r.writes <- string(p):
	default:
	}
	return n, err
}

func TestStreamDeliversReportEvents(t *testing.T) {
	e := echo.New()
	hub := notifications.NewHub()
	h := NewNotificationHandler(hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec := &signalRecorder{ResponseRecorder: httptest.NewRecorder(), writes: make(chan string, 16)}
	c := e.NewContext(req, rec)
	c.Set(auth.ContextUserIDKey, "user-42")

	done := make(chan error, 1)
	go func() {
		done <- h.Stream(c)
	}()

	require.Eventually(t, func() bool {
		return hub.Subscribers("user-42") == 1
	}, time.Second, 5*time.Millisecond)

	delivered := hub.Publish("user-42", notifications.Event{
		Type: notifications.EventFinancialHealthReady,
		Data: map[string]interface{}{"grade": 72, "overall": "B"},
	})
	require.Equal(t, 1, delivered)

	timeout := time.After(time.Second)
	for received := false; !received; {
		select {
		case chunk := <-rec.writes:
			received = strings.HasPrefix(chunk, "data: ") && strings.Contains(chunk, notifications.EventFinancialHealthReady)
		case <-timeout:
			t.Fatal("report event was not written")
		}
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after cancel")
	}

	assert.Equal(t, 0, hub.Subscribers("user-42"))
	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))

	body := rec.Body.String()
	assert.Contains(t, body, "event: connected\n")
	assert.Contains(t, body, "event: financial_health_report\n")

	var event notifications.Event
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "data: ") && strings.Contains(line, notifications.EventFinancialHealthReady) {
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
		}
	}
	assert.Equal(t, notifications.EventFinancialHealthReady, event.Type)
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error {
	return f.err
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name    string
		db      pinger
		status  string
		storage string
	}{
		{name: "without storage", db: nil, status: "ok", storage: "disabled"},
		{name: "storage ok", db: fakePinger{}, status: "ok", storage: "ok"},
		{name: "storage down", db: fakePinger{err: errors.New("refused")}, status: "degraded", storage: "unavailable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

			require.NoError(t, NewHealthHandler(tc.db).Health(c))
			assert.Equal(t, http.StatusOK, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.status, resp.Status)
			assert.Equal(t, tc.storage, resp.Storage)
		})
	}
}
