package billing

import (
	"errors"
	"sync"
)

var ErrGenerationInProgress = errors.New("billing generation already in progress")

// Guard keeps at most one generation per order in flight. Different orders
// run independently.
type Guard struct {
	mu     sync.Mutex
	orders map[int64]struct{}
}

func NewGuard() *Guard {
	return &Guard{orders: make(map[int64]struct{})}
}

// Acquire marks the order busy until release is called.
func (g *Guard) Acquire(orderID int64) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.orders[orderID]; busy {
		return nil, ErrGenerationInProgress
	}
	g.orders[orderID] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.orders, orderID)
		g.mu.Unlock()
	}, nil
}

func (g *Guard) Busy(orderID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.orders[orderID]
	return busy
}
