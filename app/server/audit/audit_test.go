package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/fcon/app/enum"
	"github.com/umputun/fcon/app/server/audit/mocks"
	"github.com/umputun/fcon/lib/fcrepo"
)

func TestLogger_Record(t *testing.T) {
	var buf bytes.Buffer
	actor := &mocks.ActorMock{GetRequestActorFunc: func(*http.Request) string { return "user:admin" }}
	l := New(&buf, actor)

	req := httptest.NewRequest(http.MethodPost, "/web/actions/delete", http.NoBody)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-Request-ID", "req-1")
	l.Record(req, Dispatched(fcrepo.Delete("http://localhost:8080/rest/books"), nil))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "delete", got["action"])
	assert.Equal(t, "DELETE", got["method"])
	assert.Equal(t, "http://localhost:8080/rest/books", got["target"])
	assert.Equal(t, "user:admin", got["actor"])
	assert.Equal(t, "success", got["result"])
	assert.Equal(t, "192.0.2.1", got["ip"])
	assert.Equal(t, "test-agent", got["user_agent"])
	assert.Equal(t, "req-1", got["request_id"])
	assert.NotEmpty(t, got["ts"])
	assert.NotContains(t, got, "status")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	assert.Len(t, actor.GetRequestActorCalls(), 1)
}

func TestLogger_RecordNil(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Record(httptest.NewRequest(http.MethodPost, "/", http.NoBody), Entry{Action: "delete"})
	})
}

func TestLogger_RecordToLog(t *testing.T) {
	l := New(nil, nil)
	assert.NotPanics(t, func() {
		l.Record(httptest.NewRequest(http.MethodPost, "/", http.NoBody), Entry{Action: "delete"})
	})
}

func TestLogger_RecordConcurrent(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, nil)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Record(httptest.NewRequest(http.MethodPost, "/", http.NoBody), Entry{Action: "sparql-update"})
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 20)
	for _, line := range lines {
		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		assert.Equal(t, "anonymous", e["actor"])
	}
}

func TestDispatched(t *testing.T) {
	a := fcrepo.CreateChild("http://localhost:8080/rest/books", "moby", "")

	t.Run("success", func(t *testing.T) {
		e := Dispatched(a, nil)
		assert.Equal(t, "create-child", e.Action)
		assert.Equal(t, http.MethodPut, e.Method)
		assert.Equal(t, enum.AuditResultSuccess, e.Result)
		assert.Zero(t, e.Status)
	})

	t.Run("status failure", func(t *testing.T) {
		e := Dispatched(a, &fcrepo.RequestError{Label: "Error creating resource", StatusCode: http.StatusConflict})
		assert.Equal(t, enum.AuditResultFailed, e.Result)
		assert.Equal(t, http.StatusConflict, e.Status)
		assert.Contains(t, e.Reason, "Error creating resource")
	})

	t.Run("transport failure", func(t *testing.T) {
		e := Dispatched(a, &fcrepo.RequestError{Err: errors.New("connection refused")})
		assert.Equal(t, enum.AuditResultFailed, e.Result)
		assert.Zero(t, e.Status)
		assert.Contains(t, e.Reason, "connection refused")
	})
}

func TestEntry_String(t *testing.T) {
	e := Rejected("delete", enum.AuditResultDenied, "books", "no write access")
	e.Actor = "token:abcd****"
	assert.Equal(t, `action=delete actor=token:abcd**** result=denied books reason="no write access"`, e.String())

	e = Entry{Action: "commit-transaction", Actor: "anonymous", Method: "POST", Target: "tx/1/fcr:tx/fcr:commit",
		Result: enum.AuditResultFailed, Status: 410}
	assert.Equal(t, "action=commit-transaction actor=anonymous result=failed POST tx/1/fcr:tx/fcr:commit status=410", e.String())
}
