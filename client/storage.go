package client

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// Storage keys used by the admin guard.
const (
	StorageKeyAdminToken    = "admin_token"
	StorageKeyAdminLoggedIn = "isAdminLoggedIn"
)

// Storage is durable local key-value storage backed by a JSON file.
// Values are stored as raw JSON. Deleting an absent key is a no-op so
// purges stay idempotent.
type Storage struct {
	mu   sync.Mutex
	path string
}

func NewStorage(path string) *Storage {
	return &Storage{path: path}
}

func (st *Storage) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, errors.Wrap(err, "reading storage file")
	}

	kv := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &kv); err != nil {
		// a corrupt file behaves as empty; writes replace it
		return map[string]json.RawMessage{}, nil
	}
	return kv, nil
}

func (st *Storage) save(kv map[string]json.RawMessage) error {
	data, err := json.Marshal(kv)
	if err != nil {
		return errors.Wrap(err, "marshalling storage")
	}
	if err := os.WriteFile(st.path, data, 0o600); err != nil {
		return errors.Wrap(err, "writing storage file")
	}
	return nil
}

// Get unmarshals the value under key into out; found reports whether
// the key exists.
func (st *Storage) Get(key string, out interface{}) (found bool, err error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	kv, err := st.load()
	if err != nil {
		return false, err
	}
	raw, ok := kv[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, errors.Wrap(err, "unmarshalling "+key)
	}
	return true, nil
}

func (st *Storage) Set(key string, value interface{}) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	kv, err := st.load()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "marshalling "+key)
	}
	kv[key] = raw
	return st.save(kv)
}

func (st *Storage) Delete(keys ...string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	kv, err := st.load()
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(kv, key)
	}
	return st.save(kv)
}
