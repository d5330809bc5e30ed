package memdb

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tokenledger/go-tokenledger/db"
)

type memdb struct {
	buckets map[string]map[string][]byte
	sync.RWMutex
}

// New creates a memory-based key-value store which keeps the
// same bucket and transaction semantics as the persistent
// backends. It is mainly used for testing.
func New() db.Database {
	return &memdb{buckets: make(map[string]map[string][]byte)}
}

func (m *memdb) NewBucket(name string) error {
	m.Lock()
	defer m.Unlock()

	if m.buckets == nil {
		return fmt.Errorf("memdb is closed")
	}
	if name == "" {
		return fmt.Errorf("bucket name is empty")
	}
	if _, ok := m.buckets[name]; !ok {
		m.buckets[name] = make(map[string][]byte)
	}
	return nil
}

// Put writes the key/value pair to the bucket.
func (m *memdb) Put(bucket string, key, value []byte) error {
	m.Lock()
	defer m.Unlock()
	return m.put(bucket, key, value)
}

func (m *memdb) put(bucket string, key, value []byte) error {
	b, err := m.bucket(bucket)
	if err != nil {
		return err
	}
	b[string(key)] = append([]byte(nil), value...)
	return nil
}

// Delete deletes the key from the bucket.
func (m *memdb) Delete(bucket string, key []byte) error {
	m.Lock()
	defer m.Unlock()
	return m.del(bucket, key)
}

func (m *memdb) del(bucket string, key []byte) error {
	b, err := m.bucket(bucket)
	if err != nil {
		return err
	}
	delete(b, string(key))
	return nil
}

// Get retrieves the value of the key from the bucket, a nil value
// is returned when the key does not exist.
func (m *memdb) Get(bucket string, key []byte) ([]byte, error) {
	m.RLock()
	defer m.RUnlock()

	b, err := m.bucket(bucket)
	if err != nil {
		return nil, err
	}
	if val, ok := b[string(key)]; ok {
		return append([]byte(nil), val...), nil
	}
	return nil, nil
}

// GetAll retrieves the values of the keys with prefix from the bucket.
func (m *memdb) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	m.RLock()
	defer m.RUnlock()

	b, err := m.bucket(bucket)
	if err != nil {
		return nil, err
	}
	var keys []string
	for k := range b {
		if strings.HasPrefix(k, string(keyPrefix)) {
			keys = append(keys, k)
		}
	}
	// Iterate in key order as the persistent backends do.
	sort.Strings(keys)
	var vals [][]byte
	for _, k := range keys {
		vals = append(vals, append([]byte(nil), b[k]...))
	}
	return vals, nil
}

// Close closes the underlying database.
func (m *memdb) Close() error {
	m.Lock()
	defer m.Unlock()

	m.buckets = nil
	return nil
}

// Begin returns a transaction which buffers writes in memory until
// Commit applies them to the store in order.
func (m *memdb) Begin() (db.Tx, error) {
	m.RLock()
	defer m.RUnlock()

	if m.buckets == nil {
		return nil, fmt.Errorf("memdb is closed")
	}
	return &memdbTx{m: m, overlay: make(map[string]map[string]*write)}, nil
}

func (m *memdb) bucket(name string) (map[string][]byte, error) {
	if m.buckets == nil {
		return nil, fmt.Errorf("memdb is closed")
	}
	b, ok := m.buckets[name]
	if !ok {
		return nil, fmt.Errorf("bucket %s not exist", name)
	}
	return b, nil
}

// write is one buffered mutation of the overlay.
type write struct {
	value  []byte
	delete bool
}

// memdbTx overlays pending writes on top of the store so that reads
// inside the transaction observe its own uncommitted mutations.
type memdbTx struct {
	m       *memdb
	overlay map[string]map[string]*write
	done    bool
}

func (mtx *memdbTx) Get(bucket string, key []byte) ([]byte, error) {
	if mtx.done {
		return nil, fmt.Errorf("transaction is closed")
	}
	if b, ok := mtx.overlay[bucket]; ok {
		if w, ok := b[string(key)]; ok {
			if w.delete {
				return nil, nil
			}
			return append([]byte(nil), w.value...), nil
		}
	}
	return mtx.m.Get(bucket, key)
}

func (mtx *memdbTx) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	if mtx.done {
		return nil, fmt.Errorf("transaction is closed")
	}
	vals := make(map[string][]byte)

	mtx.m.RLock()
	b, err := mtx.m.bucket(bucket)
	if err != nil {
		mtx.m.RUnlock()
		return nil, err
	}
	for k, v := range b {
		if strings.HasPrefix(k, string(keyPrefix)) {
			vals[k] = v
		}
	}
	mtx.m.RUnlock()

	if ob, ok := mtx.overlay[bucket]; ok {
		for k, w := range ob {
			if !strings.HasPrefix(k, string(keyPrefix)) {
				continue
			}
			if w.delete {
				delete(vals, k)
			} else {
				vals[k] = w.value
			}
		}
	}

	var keys []string
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out [][]byte
	for _, k := range keys {
		out = append(out, append([]byte(nil), vals[k]...))
	}
	return out, nil
}

func (mtx *memdbTx) Put(bucket string, key, value []byte) error {
	if mtx.done {
		return fmt.Errorf("transaction is closed")
	}
	if _, ok := mtx.overlay[bucket]; !ok {
		mtx.overlay[bucket] = make(map[string]*write)
	}
	mtx.overlay[bucket][string(key)] = &write{value: append([]byte(nil), value...)}
	return nil
}

func (mtx *memdbTx) Delete(bucket string, key []byte) error {
	if mtx.done {
		return fmt.Errorf("transaction is closed")
	}
	if _, ok := mtx.overlay[bucket]; !ok {
		mtx.overlay[bucket] = make(map[string]*write)
	}
	mtx.overlay[bucket][string(key)] = &write{delete: true}
	return nil
}

func (mtx *memdbTx) Commit() error {
	if mtx.done {
		return fmt.Errorf("transaction is closed")
	}
	mtx.done = true

	mtx.m.Lock()
	defer mtx.m.Unlock()

	for bucket, writes := range mtx.overlay {
		for k, w := range writes {
			var err error
			if w.delete {
				err = mtx.m.del(bucket, []byte(k))
			} else {
				err = mtx.m.put(bucket, []byte(k), w.value)
			}
			if err != nil {
				return fmt.Errorf("commit write to bucket %s failed: %v", bucket, err)
			}
		}
	}
	return nil
}

func (mtx *memdbTx) Rollback() error {
	if mtx.done {
		return fmt.Errorf("transaction is closed")
	}
	mtx.done = true
	mtx.overlay = nil
	return nil
}
