package interview

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"interviewmaster/server/internal/llm"
	"interviewmaster/server/internal/storage"
)

// Manager owns the live flows. Flows that go untouched for the TTL are
// dropped by a background sweep; completed ones survive in storage.
type Manager struct {
	gateway      llm.Gateway
	store        *storage.Gateway
	logger       *zap.Logger
	advanceDelay time.Duration
	ttl          time.Duration

	mu    sync.RWMutex
	flows map[string]*flowEntry
}

type flowEntry struct {
	flow     *Flow
	lastSeen time.Time
}

func NewManager(gateway llm.Gateway, store *storage.Gateway, logger *zap.Logger, advanceDelay, ttl time.Duration) *Manager {
	m := &Manager{
		gateway:      gateway,
		store:        store,
		logger:       logger,
		advanceDelay: advanceDelay,
		ttl:          ttl,
		flows:        make(map[string]*flowEntry),
	}

	go m.cleanupLoop()

	return m
}

// Create starts a new flow in the topic state.
func (m *Manager) Create() *Flow {
	flow := NewFlow(ulid.Make().String(), m.gateway, m.store, m.logger, m.advanceDelay)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.flows[flow.ID()] = &flowEntry{flow: flow, lastSeen: time.Now()}
	return flow
}

// Get returns the flow and refreshes its TTL.
func (m *Manager) Get(id string) (*Flow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.flows[id]
	if !exists {
		return nil, false
	}
	entry.lastSeen = time.Now()
	return entry.flow, true
}

// Delete removes a flow immediately.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, id)
}

// Size returns the number of live flows.
func (m *Manager) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.flows)
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.cleanup()
	}
}

func (m *Manager) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.ttl)
	for id, entry := range m.flows {
		if entry.lastSeen.Before(cutoff) {
			delete(m.flows, id)
			m.logger.Info("expired idle interview flow", zap.String("flow", id))
		}
	}
}
