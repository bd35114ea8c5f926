package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/events"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "formengine_session"

// session is one browser's form. Its mutex serialises every event applied to
// the form, including pointer dispatch through page.
type session struct {
	id       string
	mu       sync.Mutex
	form     *engine.Form
	page     *events.Document
	lastSeen time.Time
}

// mount attaches the form to the session page unless it is already live.
func (s *session) mount() error {
	if s.form.Mounted() {
		return nil
	}
	return s.form.Mount(s.page)
}

// Store keeps sessions in memory keyed by cookie value.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	newForm  func() *engine.Form
	logger   *zap.Logger
	metrics  *Metrics
	path     string
}

func newStore(ttl time.Duration, newForm func() *engine.Form, logger *zap.Logger, metrics *Metrics, now func() time.Time, path string) *Store {
	if now == nil {
		now = time.Now
	}
	if path == "" {
		path = "/"
	}
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      now,
		newForm:  newForm,
		logger:   logger,
		metrics:  metrics,
		path:     path,
	}
}

// acquire returns the caller's session, creating one and setting the cookie
// when the request carries no live id.
func (st *Store) acquire(w http.ResponseWriter, r *http.Request) *session {
	ids := requestSessionIDs(r)

	st.mu.Lock()
	defer st.mu.Unlock()

	if sess, ok := st.lookup(ids); ok {
		sess.lastSeen = st.now()
		return sess
	}

	sess := &session{
		id:       uuid.NewString(),
		form:     st.newForm(),
		page:     events.NewDocument(),
		lastSeen: st.now(),
	}
	st.sessions[sess.id] = sess
	st.metrics.SessionsActive.Inc()
	st.logger.Debug("session created", zap.String("session", sess.id))

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.id,
		Path:     st.path,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// requestSessionIDs lists the candidate ids: the cookie first, then the
// session field rendered into the form.
func requestSessionIDs(r *http.Request) []string {
	var ids []string
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		ids = append(ids, cookie.Value)
	}
	if id := r.FormValue(SessionCookie); id != "" {
		ids = append(ids, id)
	}
	return ids
}

func (st *Store) lookup(ids []string) (*session, bool) {
	for _, id := range ids {
		if sess, ok := st.sessions[id]; ok {
			return sess, true
		}
	}
	return nil, false
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep unmounts and drops sessions idle for longer than the TTL.
func (st *Store) Sweep() int {
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	var expired []*session
	for id, sess := range st.sessions {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, sess := range expired {
		sess.mu.Lock()
		sess.form.Unmount()
		sess.mu.Unlock()
		st.metrics.SessionsActive.Dec()
		st.metrics.SessionsExpired.Inc()
		st.logger.Debug("session expired", zap.String("session", sess.id))
	}
	return len(expired)
}

// Run sweeps on every interval tick until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				st.logger.Info("expired sessions removed", zap.Int("count", n))
			}
		}
	}
}

// Close unmounts every session.
func (st *Store) Close() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*session)
	st.mu.Unlock()

	for _, sess := range sessions {
		sess.mu.Lock()
		sess.form.Unmount()
		sess.mu.Unlock()
		st.metrics.SessionsActive.Dec()
	}
}
