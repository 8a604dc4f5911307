package cart

import "sync"

// DefaultTerminal is the terminal key used when a client does not
// identify itself. Single-register deployments only ever see this one.
const DefaultTerminal = "main"

// SessionStore owns the active cart of each terminal. A cart is
// created on first use and lives until the process exits; committed or
// abandoned sales clear it rather than destroy it.
type SessionStore struct {
	mu         sync.Mutex
	carts      map[string]*Cart
	stocks     StockReader
	defaultTax float64
}

func NewSessionStore(stocks StockReader, defaultTaxPercent float64) *SessionStore {
	return &SessionStore{
		carts:      make(map[string]*Cart),
		stocks:     stocks,
		defaultTax: defaultTaxPercent,
	}
}

// Cart returns the terminal's cart, creating it on first use.
func (s *SessionStore) Cart(terminal string) *Cart {
	if terminal == "" {
		terminal = DefaultTerminal
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[terminal]; ok {
		return c
	}
	c := New(s.stocks, s.defaultTax)
	s.carts[terminal] = c
	return c
}

// Abandon clears the terminal's cart without committing a sale.
func (s *SessionStore) Abandon(terminal string) {
	s.Cart(terminal).Clear()
}
