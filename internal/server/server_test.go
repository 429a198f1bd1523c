package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/workhub-ai/workhub-agent/internal/agent"
	"github.com/workhub-ai/workhub-agent/internal/classifier"
	"github.com/workhub-ai/workhub-agent/internal/config"
	"github.com/workhub-ai/workhub-agent/internal/notify"
	"github.com/workhub-ai/workhub-agent/internal/routing"
	"github.com/workhub-ai/workhub-agent/internal/stats"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingStore struct {
	actions []routing.Action
	err     error
}

func (r *recordingStore) Execute(_ context.Context, action routing.Action, _, _ string, _ classifier.EntitySet) error {
	r.actions = append(r.actions, action)
	return r.err
}

func newTestServer(store *recordingStore, notifier notify.Notifier) (*Server, *stats.Collector) {
	collector := stats.NewCollector()
	a := agent.New(agent.Config{
		Policy: config.Default().Policy,
		Stats:  collector,
		Logger: zap.NewNop(),
	})
	return New(a, store, notifier, collector, zap.NewNop()), collector
}

func postMessage(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/process-message", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestProcessMessageEndToEnd(t *testing.T) {
	store := &recordingStore{}
	notifier := notify.NewChannelNotifier(8)
	srv, _ := newTestServer(store, notifier)

	w := postMessage(t, srv.Handler(),
		`{"message": "There's a gas leak in the basement - urgent!", "sender_id": "worker-9"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Intent                   string               `json:"intent"`
		Confidence               float64              `json:"confidence"`
		Response                 string               `json:"response"`
		DatabaseAction           string               `json:"database_action"`
		DBSuccess                bool                 `json:"db_success"`
		RequiresManagerAttention bool                 `json:"requires_manager_attention"`
		Entities                 map[string][]string  `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "incident_report", resp.Intent)
	assert.Equal(t, "create_incident_record", resp.DatabaseAction)
	assert.True(t, resp.DBSuccess)
	assert.True(t, resp.RequiresManagerAttention)
	assert.NotEmpty(t, resp.Response)
	assert.Contains(t, resp.Entities["urgency"], "urgent")

	require.Equal(t, []routing.Action{routing.ActionCreateIncidentRecord}, store.actions)

	select {
	case alert := <-notifier.Alerts():
		assert.Equal(t, "incident_report", alert.Intent)
		assert.Equal(t, "worker-9", alert.SenderID)
	default:
		t.Fatal("expected a manager alert")
	}
}

func TestProcessMessageStoreFailureStillReplies(t *testing.T) {
	store := &recordingStore{err: fmt.Errorf("disk full")}
	srv, collector := newTestServer(store, nil)

	w := postMessage(t, srv.Handler(),
		`{"message": "Just finished the plumbing repair in Building A", "sender_id": "worker-2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		DBSuccess bool   `json:"db_success"`
		Response  string `json:"response"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.DBSuccess)
	assert.NotEmpty(t, resp.Response)

	assert.Equal(t, int64(1), collector.Collect().StoreFailures)
}

func TestProcessMessageNoAlertWithoutAttention(t *testing.T) {
	notifier := notify.NewChannelNotifier(8)
	srv, _ := newTestServer(&recordingStore{}, notifier)

	w := postMessage(t, srv.Handler(),
		`{"message": "Just finished the plumbing repair in Building A", "sender_id": "worker-2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	select {
	case alert := <-notifier.Alerts():
		t.Fatalf("unexpected alert: %+v", alert)
	default:
	}
}

func TestProcessMessageValidation(t *testing.T) {
	srv, _ := newTestServer(&recordingStore{}, nil)
	handler := srv.Handler()

	w := postMessage(t, handler, `{"message": "hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postMessage(t, handler, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/process-message", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthAndStats(t *testing.T) {
	srv, _ := newTestServer(&recordingStore{}, nil)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	postMessage(t, handler, `{"message": "checked in at the site", "sender_id": "w"}`)

	req = httptest.NewRequest(http.MethodGet, "/stats", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var s stats.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, int64(1), s.MessageCount)
}
