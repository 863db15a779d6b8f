// Package audit records repository actions submitted through the console and the API.
// Entries go to a JSON lines writer when one is configured, to the application log otherwise.
package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest/realip"

	"github.com/umputun/fcon/app/enum"
	"github.com/umputun/fcon/lib/fcrepo"
)

//go:generate moq -out mocks/actor.go -pkg mocks -skip-ensure -fmt goimports . Actor

// Actor identifies the caller of a request.
type Actor interface {
	GetRequestActor(r *http.Request) string
}

// Entry is a single audited action.
type Entry struct {
	Timestamp time.Time        `json:"ts"`
	Action    string           `json:"action"`
	Method    string           `json:"method,omitempty"`
	Target    string           `json:"target,omitempty"`
	Actor     string           `json:"actor"`
	Result    enum.AuditResult `json:"result"`
	Status    int              `json:"status,omitempty"` // upstream status of a failed request
	Reason    string           `json:"reason,omitempty"`
	IP        string           `json:"ip,omitempty"`
	UserAgent string           `json:"user_agent,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
}

// String formats the entry for the application log.
func (e Entry) String() string {
	s := fmt.Sprintf("action=%s actor=%s result=%s", e.Action, e.Actor, e.Result)
	if e.Method != "" {
		s += " " + e.Method
	}
	if e.Target != "" {
		s += " " + e.Target
	}
	if e.Status != 0 {
		s += fmt.Sprintf(" status=%d", e.Status)
	}
	if e.Reason != "" {
		s += fmt.Sprintf(" reason=%q", e.Reason)
	}
	return s
}

// Logger writes audit entries. A nil *Logger discards them.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	actor Actor
}

// New makes an audit logger. With nil out entries are written to the application log.
func New(out io.Writer, actor Actor) *Logger {
	return &Logger{out: out, actor: actor}
}

// Record completes the entry from the request and writes it.
func (l *Logger) Record(r *http.Request, e Entry) {
	if l == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	e.Actor = "anonymous"
	if l.actor != nil {
		e.Actor = l.actor.GetRequestActor(r)
	}
	e.IP, _ = realip.Get(r) // empty on lookup failure
	e.UserAgent = r.UserAgent()
	e.RequestID = r.Header.Get("X-Request-ID")

	if l.out == nil {
		log.Printf("[INFO] audit: %s", e)
		return
	}

	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("[WARN] failed to marshal audit entry: %v", err)
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.out.Write(append(data, '\n')); err != nil {
		log.Printf("[WARN] failed to write audit entry: %v", err)
	}
}

// Dispatched builds the entry of a dispatched action from its error, nil meaning success.
func Dispatched(a fcrepo.Action, err error) Entry {
	e := Entry{Action: a.Kind.String(), Method: a.Method, Target: a.Target, Result: enum.AuditResultSuccess}
	if err == nil {
		return e
	}
	e.Result = enum.AuditResultFailed
	e.Reason = err.Error()
	var reqErr *fcrepo.RequestError
	if errors.As(err, &reqErr) {
		e.Status = reqErr.StatusCode
	}
	return e
}

// Rejected builds the entry of an action that never reached the repository.
func Rejected(kind string, result enum.AuditResult, target, reason string) Entry {
	return Entry{Action: kind, Target: target, Result: result, Reason: reason}
}
