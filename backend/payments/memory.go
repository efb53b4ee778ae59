package payments

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Provider used in tests and when no Stripe key
// is configured. Intents are kept so tests can look them up by id.
type Memory struct {
	mu      sync.Mutex
	intents map[string]*Intent
}

func NewMemory() *Memory {
	return &Memory{intents: make(map[string]*Intent)}
}

func (m *Memory) CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	id := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	intent := &Intent{
		ID:           id,
		ClientSecret: id + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Amount:       amount,
		Currency:     currency,
	}

	m.mu.Lock()
	m.intents[id] = intent
	m.mu.Unlock()

	return intent, nil
}

// Intent returns a previously created intent by id.
func (m *Memory) Intent(id string) (*Intent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	intent, ok := m.intents[id]
	return intent, ok
}
