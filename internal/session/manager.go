package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smallretail/tillpoint/internal/clock"
)

var ErrInvalidSession = errors.New("invalid_session")

// Cashier is the identity attached to an authenticated till session.
type Cashier struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type entry struct {
	cashier   Cashier
	expiresAt time.Time
}

// Manager holds bearer-token sessions in memory. A POS terminal logs
// in once per shift; tokens expire after the configured TTL.
type Manager struct {
	mu       sync.Mutex
	clock    clock.Clock
	ttl      time.Duration
	sessions map[string]entry
}

func NewManager(clk clock.Clock, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Manager{
		clock:    clk,
		ttl:      ttl,
		sessions: make(map[string]entry),
	}
}

// Issue creates a session for the cashier and returns its token.
func (m *Manager) Issue(cashier Cashier) (string, time.Time) {
	token := uuid.NewString()
	expiresAt := m.clock.Now().Add(m.ttl)

	m.mu.Lock()
	m.sessions[token] = entry{cashier: cashier, expiresAt: expiresAt}
	m.mu.Unlock()

	return token, expiresAt
}

// Resolve returns the cashier identity for a live token.
func (m *Manager) Resolve(token string) (Cashier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[token]
	if !ok {
		return Cashier{}, ErrInvalidSession
	}
	if m.clock.Now().After(e.expiresAt) {
		delete(m.sessions, token)
		return Cashier{}, ErrInvalidSession
	}
	return e.cashier, nil
}

func (m *Manager) Revoke(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}
