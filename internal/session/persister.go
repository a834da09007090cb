package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/prohmpiriya/canteen-storefront/internal/domain"
)

// DefaultKey is the storage key the session document lives under
const DefaultKey = "canteen-session"

// documentVersion is the version of the persisted document layout
const documentVersion = 0

// State is the persisted part of the session. Login status is always
// derived from the token, never stored.
type State struct {
	AccessToken string      `json:"accessToken"`
	Role        domain.Role `json:"role"`
}

type document struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

// Persister is durable storage for the session state
type Persister interface {
	// Load returns the stored state, or a zero State when nothing is stored
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

func encodeDocument(state State) ([]byte, error) {
	return json.Marshal(document{State: state, Version: documentVersion})
}

func decodeDocument(data []byte) (State, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return State{}, fmt.Errorf("invalid session document: %w", err)
	}
	if doc.Version != documentVersion {
		return State{}, nil
	}
	return doc.State, nil
}

// FilePersister keeps the session in a JSON file of storage keys, the
// same layout a browser's local storage would have
type FilePersister struct {
	path string
	key  string
	mu   sync.Mutex
}

// NewFilePersister creates a file persister. An empty key uses DefaultKey.
func NewFilePersister(path, key string) *FilePersister {
	if key == "" {
		key = DefaultKey
	}
	return &FilePersister{path: path, key: key}
}

// Path returns the session file location
func (p *FilePersister) Path() string {
	return p.path
}

func (p *FilePersister) Load(ctx context.Context) (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries, err := p.readEntries()
	if err != nil {
		return State{}, err
	}
	raw, ok := entries[p.key]
	if !ok {
		return State{}, nil
	}
	return decodeDocument(raw)
}

func (p *FilePersister) Save(ctx context.Context, state State) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Other keys are kept; an unreadable file is replaced.
	entries, err := p.readEntries()
	if err != nil {
		entries = map[string]json.RawMessage{}
	}

	doc, err := encodeDocument(state)
	if err != nil {
		return err
	}
	entries[p.key] = doc

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(p.path, data)
}

func (p *FilePersister) readEntries() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	entries := map[string]json.RawMessage{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid session file %s: %w", p.path, err)
	}
	return entries, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// MemoryPersister keeps the session in memory only
type MemoryPersister struct {
	mu    sync.Mutex
	state State
	saves int
}

// NewMemoryPersister creates an empty in-memory persister
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

// NewMemoryPersisterWith creates an in-memory persister holding state
func NewMemoryPersisterWith(state State) *MemoryPersister {
	return &MemoryPersister{state: state}
}

func (p *MemoryPersister) Load(ctx context.Context) (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, nil
}

func (p *MemoryPersister) Save(ctx context.Context, state State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = state
	p.saves++
	return nil
}

// Saves returns how many times Save was called
func (p *MemoryPersister) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}
