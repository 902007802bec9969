package memory

import (
	"context"
	"sync"
)

type CounterStore struct {
	mu      sync.Mutex
	serials map[string]int64
}

func NewCounterStore() *CounterStore {
	return &CounterStore{serials: make(map[string]int64)}
}

func (s *CounterStore) GetSerial(_ context.Context, locationCode string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	serial, ok := s.serials[locationCode]
	return serial, ok, nil
}

func (s *CounterStore) CompareAndSwapSerial(_ context.Context, locationCode string, old, new int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.serials[locationCode]
	if !ok || current != old {
		return false, nil
	}
	s.serials[locationCode] = new
	return true, nil
}

func (s *CounterStore) InitSerial(_ context.Context, locationCode string, serial int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.serials[locationCode]; ok {
		return false, nil
	}
	s.serials[locationCode] = serial
	return true, nil
}
