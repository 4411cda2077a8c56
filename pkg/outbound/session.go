package outbound

import "sync"

// SessionContext holds the session token attached to every request. The token
// is injected at construction (or after a login elsewhere) rather than read
// from ambient storage, so tests and embedders control it explicitly.
//
// When the backend rejects the session, the expired callback fires exactly
// once; setting a fresh token re-arms it.
type SessionContext struct {
	mu           sync.Mutex
	token        string
	onExpired    func()
	expiredFired bool
}

func NewSessionContext(token string, onExpired func()) *SessionContext {
	return &SessionContext{token: token, onExpired: onExpired}
}

// Token returns the current session token, empty when logged out.
func (s *SessionContext) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken installs a new session token and re-arms the expired callback.
func (s *SessionContext) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.expiredFired = false
}

// Clear drops the token, as on logout.
func (s *SessionContext) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// notifyExpired clears the token and fires the callback once per session.
func (s *SessionContext) notifyExpired() {
	s.mu.Lock()
	fired := s.expiredFired
	s.expiredFired = true
	s.token = ""
	cb := s.onExpired
	s.mu.Unlock()

	if !fired && cb != nil {
		cb()
	}
}
