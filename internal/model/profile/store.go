package profile

// Store exposes fixture profile retrieval for the roster builder.
type Store interface {
	List() []Profile
}

// MemoryStore implements Store with an in-memory slice, suitable for the
// demo fixtures.
type MemoryStore struct {
	items []Profile
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied profiles.
func NewMemoryStore(items []Profile) *MemoryStore {
	return &MemoryStore{items: append([]Profile(nil), items...)}
}

// List returns the fixture profiles.
func (s *MemoryStore) List() []Profile {
	return append([]Profile(nil), s.items...)
}
