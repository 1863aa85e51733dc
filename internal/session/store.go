package session

import (
	"context"
	"image"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"mandala/internal/domain"
	"mandala/internal/mandala"
)

// Phase is the controller state of a session, inspectable by the renderer and
// by tests.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseRequesting Phase = "requesting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// Result is the most recent successful generation. It is owned by the session
// and replaced wholesale; partial updates are never visible.
type Result struct {
	Bitmap      image.Image
	PNG         []byte
	PromptUsed  string
	SourceTopic string
	Width       int
	Height      int
	CreatedAt   time.Time
}

// Filename derives the download name from the held state alone.
func (r *Result) Filename() string {
	return mandala.Filename(r.SourceTopic, r.CreatedAt)
}

// Session holds per-browser-session state: at most one Result, the controller
// phase, and the last error message. At most one generation is in flight.
type Session struct {
	mu       sync.Mutex
	id       string
	phase    Phase
	inFlight bool
	result   *Result
	lastErr  string
	lastSeen time.Time
}

// ID returns the opaque session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Phase returns the current controller phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Result returns the current result or nil.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// LastError returns the message of the last failed generation, if any.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// BeginGeneration marks a generation in flight. A second submit while one is
// running is refused with domain.ErrBusy and causes no state change.
func (s *Session) BeginGeneration() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return domain.ErrBusy
	}
	s.inFlight = true
	s.phase = PhaseRequesting
	s.lastErr = ""
	return nil
}

// Complete stores the result, replacing any prior one wholesale.
func (s *Session) Complete(res *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = res
	s.phase = PhaseSucceeded
	s.inFlight = false
	s.lastErr = ""
}

// Fail records the error message. The held result, if any, is untouched.
func (s *Session) Fail(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseFailed
	s.inFlight = false
	s.lastErr = message
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// CookieName identifies the browser session.
const CookieName = "mandala_session"

// Manager keys in-memory sessions by an opaque cookie value. Sessions are
// independent; there is no cross-session shared state beyond the map itself.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewManager creates a manager whose sessions expire after the idle TTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Get resolves the request's session, creating one (and setting the cookie)
// when absent or expired.
func (m *Manager) Get(w http.ResponseWriter, r *http.Request) *Session {
	now := time.Now()
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		m.mu.Lock()
		sess, ok := m.sessions[cookie.Value]
		m.mu.Unlock()
		if ok {
			sess.touch(now)
			return sess
		}
	}
	sess := &Session{
		id:       uuid.NewString(),
		phase:    PhaseIdle,
		lastSeen: now,
	}
	m.mu.Lock()
	m.sessions[sess.id] = sess
	m.mu.Unlock()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Purge drops sessions idle longer than the TTL and returns how many were
// removed. Expiry is the only way held results are cleared.
func (m *Manager) Purge(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, sess := range m.sessions {
		if sess.idleSince(now) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Sweep purges expired sessions on the given interval until the context ends.
func (m *Manager) Sweep(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Purge(now)
		}
	}
}
