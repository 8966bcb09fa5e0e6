package readingtime

import (
	"encoding/json"
	"os"
	"sync"
)

// Store persists the single shared session record. Implementations follow
// "last write wins": no locking across writers, occasional lost ticks are
// accepted rather than coordinated away.
type Store interface {
	// Load returns the persisted session, or (nil, nil) when absent.
	// A corrupt record is treated as absent, never as an error.
	Load() (*Session, error)
	Save(*Session) error
}

// FileStore keeps the session as a small JSON file under a single key path,
// the durable-store analogue of the browser's localStorage entry.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		// Malformed record: same as no session.
		return nil, nil
	}
	return &s, nil
}

func (f *FileStore) Save(s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0644)
}

// MemoryStore is an in-process store used by tests and as the degraded mode
// when durable persistence is unavailable.
type MemoryStore struct {
	mu      sync.Mutex
	session *Session
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	copied := *m.session
	return &copied, nil
}

func (m *MemoryStore) Save(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *s
	m.session = &copied
	return nil
}
