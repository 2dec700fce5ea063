package chat

import "sync"

// lockStore hands out one mutex per user ID so chat turns for the same
// user are serialized while different users proceed concurrently.
type lockStore struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockStore() *lockStore {
	return &lockStore{locks: make(map[string]*sync.Mutex)}
}

func (s *lockStore) get(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}
