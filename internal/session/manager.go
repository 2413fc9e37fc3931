package session

import (
	"sync"
	"time"
)

type slot struct {
	mu       sync.Mutex
	reg      *Registry
	lastUsed time.Time
}

// Manager keeps one Registry per session key.
type Manager struct {
	mu    sync.Mutex
	slots map[string]*slot
	now   func() time.Time
}

func NewManager() *Manager {
	return &Manager{slots: make(map[string]*slot), now: time.Now}
}

func (m *Manager) slot(key string, create bool) *slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[key]
	if !ok {
		if !create {
			return nil
		}
		s = &slot{reg: NewRegistry()}
		m.slots[key] = s
	}
	s.lastUsed = m.now()
	return s
}

// Do runs fn with exclusive access to the registry of key, creating an
// empty one on first use. The registry must not be retained after fn returns.
func (m *Manager) Do(key string, fn func(r *Registry) error) error {
	s := m.slot(key, true)
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.reg)
}

// Peek is Do for keys that already exist. It reports false without calling
// fn when key has no registry.
func (m *Manager) Peek(key string, fn func(r *Registry) error) (bool, error) {
	s := m.slot(key, false)
	if s == nil {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return true, fn(s.reg)
}

// Drop forgets the registry of key.
func (m *Manager) Drop(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
}

// EvictIdle drops registries not used for longer than ttl and returns how
// many were dropped.
func (m *Manager) EvictIdle(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-ttl)
	dropped := 0
	for key, s := range m.slots {
		if s.lastUsed.Before(cutoff) {
			delete(m.slots, key)
			dropped++
		}
	}
	return dropped
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}
