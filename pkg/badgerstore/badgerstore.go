// Package badgerstore is a disk-backed storage.Storage implementation
// over BadgerDB — the idiomatic Go analogue of the spec's out-of-scope
// MapDB-based backend. It is a C9 adapter: it depends only on
// pkg/storage's exported contract, never the other way around.
package badgerstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/orneryd/graphkit/pkg/storage"
)

// Key prefixes, single byte each for compactness, mirroring the
// teacher's pkg/storage/badger.go scheme (node/edge/adjacency/meta).
const (
	prefixNode = byte(0x01) // node:name -> json(map[string]Value)
	prefixEdge = byte(0x02) // edge:src\x00relation\x00dst -> json(map[string]Value)
	prefixOut  = byte(0x03) // out:srcName\x00edgeKeyBody -> empty
	prefixIn   = byte(0x04) // in:dstName\x00edgeKeyBody -> empty
	prefixMeta = byte(0x05) // meta:name -> json(Value)
)

var allPrefixes = []byte{prefixNode, prefixEdge, prefixOut, prefixIn, prefixMeta}

// Options configures the BadgerDB-backed storage.
type Options struct {
	// DataDir is the directory for data files. Required unless InMemory.
	DataDir string
	// InMemory runs Badger in memory-only mode, useful for tests.
	InMemory bool
	// SyncWrites forces fsync after every write.
	SyncWrites bool
}

// BadgerStorage implements storage.Storage over a BadgerDB instance.
type BadgerStorage struct {
	db     *badger.DB
	mu     sync.RWMutex
	closed bool
}

var _ storage.Storage = (*BadgerStorage)(nil)
var _ storage.Snapshotter = (*BadgerStorage)(nil)

// New opens a BadgerStorage rooted at dataDir with default options.
func New(dataDir string) (*BadgerStorage, error) {
	return NewWithOptions(Options{DataDir: dataDir})
}

// NewInMemory opens a BadgerStorage with no on-disk footprint, for tests.
func NewInMemory() (*BadgerStorage, error) {
	return NewWithOptions(Options{InMemory: true})
}

// NewWithOptions opens a BadgerStorage with full control over Badger's
// durability/memory trade-offs.
func NewWithOptions(opts Options) (*BadgerStorage, error) {
	badgerOpts := badger.DefaultOptions(opts.DataDir).
		WithLogger(nil).
		WithSyncWrites(opts.SyncWrites)
	if opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open: %w", err)
	}
	return &BadgerStorage{db: db}, nil
}

func nodeKey(id storage.NodeID) []byte {
	return append([]byte{prefixNode}, []byte(id.Name)...)
}

func edgeKeyBody(id storage.EdgeID) []byte {
	var buf bytes.Buffer
	buf.WriteString(id.Src.Name)
	buf.WriteByte(0x00)
	buf.WriteString(id.Relation)
	buf.WriteByte(0x00)
	buf.WriteString(id.Dst.Name)
	return buf.Bytes()
}

func edgeKey(id storage.EdgeID) []byte {
	return append([]byte{prefixEdge}, edgeKeyBody(id)...)
}

func decodeEdgeKeyBody(body []byte) (storage.EdgeID, error) {
	parts := bytes.SplitN(body, []byte{0x00}, 3)
	if len(parts) != 3 {
		return storage.EdgeID{}, fmt.Errorf("badgerstore: malformed edge key")
	}
	return storage.NewEdgeID(
		storage.NewNodeID(string(parts[0])),
		storage.NewNodeID(string(parts[2])),
		string(parts[1]),
	), nil
}

func outKey(node storage.NodeID, edge storage.EdgeID) []byte {
	key := append([]byte{prefixOut}, []byte(node.Name)...)
	key = append(key, 0x00)
	return append(key, edgeKeyBody(edge)...)
}

func outPrefix(node storage.NodeID) []byte {
	key := append([]byte{prefixOut}, []byte(node.Name)...)
	return append(key, 0x00)
}

func inKey(node storage.NodeID, edge storage.EdgeID) []byte {
	key := append([]byte{prefixIn}, []byte(node.Name)...)
	key = append(key, 0x00)
	return append(key, edgeKeyBody(edge)...)
}

func inPrefix(node storage.NodeID) []byte {
	key := append([]byte{prefixIn}, []byte(node.Name)...)
	return append(key, 0x00)
}

func metaKey(name string) []byte {
	return append([]byte{prefixMeta}, []byte(name)...)
}

func encodeProps(props map[string]storage.Value) ([]byte, error) {
	return json.Marshal(props)
}

func decodeProps(data []byte) (map[string]storage.Value, error) {
	var props map[string]storage.Value
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, err
	}
	return props, nil
}

func (b *BadgerStorage) getNodeProps(txn *badger.Txn, id storage.NodeID) (map[string]storage.Value, error) {
	item, err := txn.Get(nodeKey(id))
	if err != nil {
		return nil, err
	}
	var props map[string]storage.Value
	err = item.Value(func(val []byte) error {
		p, err := decodeProps(val)
		if err != nil {
			return err
		}
		props = p
		return nil
	})
	return props, err
}

func (b *BadgerStorage) getEdgeProps(txn *badger.Txn, id storage.EdgeID) (map[string]storage.Value, error) {
	item, err := txn.Get(edgeKey(id))
	if err != nil {
		return nil, err
	}
	var props map[string]storage.Value
	err = item.Value(func(val []byte) error {
		p, err := decodeProps(val)
		if err != nil {
			return err
		}
		props = p
		return nil
	})
	return props, err
}

func (b *BadgerStorage) ContainsNode(id storage.NodeID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return false
	}
	found := false
	_ = b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(nodeKey(id))
		found = err == nil
		return nil
	})
	return found
}

func (b *BadgerStorage) ContainsEdge(id storage.EdgeID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return false
	}
	found := false
	_ = b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(edgeKey(id))
		found = err == nil
		return nil
	})
	return found
}

func (b *BadgerStorage) scanPrefix(txn *badger.Txn, prefix []byte, fn func(key []byte) error) error {
	it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := fn(it.Item().KeyCopy(nil)); err != nil {
			return err
		}
	}
	return nil
}

func (b *BadgerStorage) NodeIDs() ([]storage.NodeID, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, &storage.ClosedError{}
	}
	var ids []storage.NodeID
	err := b.db.View(func(txn *badger.Txn) error {
		return b.scanPrefix(txn, []byte{prefixNode}, func(key []byte) error {
			ids = append(ids, storage.NewNodeID(string(key[1:])))
			return nil
		})
	})
	return ids, err
}

func (b *BadgerStorage) EdgeIDs() ([]storage.EdgeID, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, &storage.ClosedError{}
	}
	var ids []storage.EdgeID
	err := b.db.View(func(txn *badger.Txn) error {
		return b.scanPrefix(txn, []byte{prefixEdge}, func(key []byte) error {
			id, err := decodeEdgeKeyBody(key[1:])
			if err != nil {
				return err
			}
			ids = append(ids, id)
			return nil
		})
	})
	return ids, err
}

func (b *BadgerStorage) AddNode(id storage.NodeID, props map[string]storage.Value) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &storage.ClosedError{}
	}
	return b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(nodeKey(id)); err == nil {
			return &storage.AlreadyExistError{ID: id}
		}
		data, err := encodeProps(props)
		if err != nil {
			return err
		}
		return txn.Set(nodeKey(id), data)
	})
}

func (b *BadgerStorage) GetNodeProperties(id storage.NodeID) (map[string]storage.Value, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, &storage.ClosedError{}
	}
	var props map[string]storage.Value
	err := b.db.View(func(txn *badger.Txn) error {
		p, err := b.getNodeProps(txn, id)
		if err == badger.ErrKeyNotFound {
			return &storage.NotExistError{ID: id}
		}
		if err != nil {
			return err
		}
		props = p
		return nil
	})
	return props, err
}

func applyPatch(props map[string]storage.Value, patch map[string]storage.Value) map[string]storage.Value {
	if props == nil {
		props = make(map[string]storage.Value)
	}
	for k, v := range patch {
		if v.IsNull() {
			delete(props, k)
		} else {
			props[k] = v
		}
	}
	return props
}

func (b *BadgerStorage) SetNodeProperties(id storage.NodeID, patch map[string]storage.Value) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &storage.ClosedError{}
	}
	return b.db.Update(func(txn *badger.Txn) error {
		props, err := b.getNodeProps(txn, id)
		if err == badger.ErrKeyNotFound {
			return &storage.NotExistError{ID: id}
		}
		if err != nil {
			return err
		}
		merged := applyPatch(props, patch)
		data, err := encodeProps(merged)
		if err != nil {
			return err
		}
		return txn.Set(nodeKey(id), data)
	})
}

func (b *BadgerStorage) deleteEdgeInTxn(txn *badger.Txn, id storage.EdgeID) error {
	if err := txn.Delete(edgeKey(id)); err != nil {
		return err
	}
	if err := txn.Delete(outKey(id.Src, id)); err != nil {
		return err
	}
	return txn.Delete(inKey(id.Dst, id))
}

func (b *BadgerStorage) DeleteNode(id storage.NodeID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &storage.ClosedError{}
	}
	return b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(nodeKey(id)); err != nil {
			return &storage.NotExistError{ID: id}
		}

		touching := make(map[string]storage.EdgeID)
		_ = b.scanPrefix(txn, outPrefix(id), func(key []byte) error {
			e, err := decodeEdgeKeyBody(key[1+len(id.Name)+1:])
			if err == nil {
				touching[e.String()] = e
			}
			return nil
		})
		_ = b.scanPrefix(txn, inPrefix(id), func(key []byte) error {
			e, err := decodeEdgeKeyBody(key[1+len(id.Name)+1:])
			if err == nil {
				touching[e.String()] = e
			}
			return nil
		})
		for _, e := range touching {
			if err := b.deleteEdgeInTxn(txn, e); err != nil {
				return err
			}
		}
		return txn.Delete(nodeKey(id))
	})
}

func (b *BadgerStorage) AddEdge(id storage.EdgeID, props map[string]storage.Value) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &storage.ClosedError{}
	}
	return b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(edgeKey(id)); err == nil {
			return &storage.AlreadyExistError{ID: id}
		}
		if _, err := txn.Get(nodeKey(id.Src)); err != nil {
			return &storage.NotExistError{ID: id.Src}
		}
		if _, err := txn.Get(nodeKey(id.Dst)); err != nil {
			return &storage.NotExistError{ID: id.Dst}
		}
		data, err := encodeProps(props)
		if err != nil {
			return err
		}
		if err := txn.Set(edgeKey(id), data); err != nil {
			return err
		}
		if err := txn.Set(outKey(id.Src, id), []byte{}); err != nil {
			return err
		}
		return txn.Set(inKey(id.Dst, id), []byte{})
	})
}

func (b *BadgerStorage) GetEdgeProperties(id storage.EdgeID) (map[string]storage.Value, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, &storage.ClosedError{}
	}
	var props map[string]storage.Value
	err := b.db.View(func(txn *badger.Txn) error {
		p, err := b.getEdgeProps(txn, id)
		if err == badger.ErrKeyNotFound {
			return &storage.NotExistError{ID: id}
		}
		if err != nil {
			return err
		}
		props = p
		return nil
	})
	return props, err
}

func (b *BadgerStorage) SetEdgeProperties(id storage.EdgeID, patch map[string]storage.Value) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &storage.ClosedError{}
	}
	return b.db.Update(func(txn *badger.Txn) error {
		props, err := b.getEdgeProps(txn, id)
		if err == badger.ErrKeyNotFound {
			return &storage.NotExistError{ID: id}
		}
		if err != nil {
			return err
		}
		merged := applyPatch(props, patch)
		data, err := encodeProps(merged)
		if err != nil {
			return err
		}
		return txn.Set(edgeKey(id), data)
	})
}

func (b *BadgerStorage) DeleteEdge(id storage.EdgeID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &storage.ClosedError{}
	}
	return b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(edgeKey(id)); err != nil {
			return &storage.NotExistError{ID: id}
		}
		return b.deleteEdgeInTxn(txn, id)
	})
}

func (b *BadgerStorage) GetIncomingEdges(id storage.NodeID) ([]storage.EdgeID, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, &storage.ClosedError{}
	}
	var ids []storage.EdgeID
	err := b.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(nodeKey(id)); err != nil {
			return &storage.NotExistError{ID: id}
		}
		prefix := inPrefix(id)
		return b.scanPrefix(txn, prefix, func(key []byte) error {
			e, err := decodeEdgeKeyBody(key[len(prefix):])
			if err != nil {
				return err
			}
			ids = append(ids, e)
			return nil
		})
	})
	return ids, err
}

func (b *BadgerStorage) GetOutgoingEdges(id storage.NodeID) ([]storage.EdgeID, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, &storage.ClosedError{}
	}
	var ids []storage.EdgeID
	err := b.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(nodeKey(id)); err != nil {
			return &storage.NotExistError{ID: id}
		}
		prefix := outPrefix(id)
		return b.scanPrefix(txn, prefix, func(key []byte) error {
			e, err := decodeEdgeKeyBody(key[len(prefix):])
			if err != nil {
				return err
			}
			ids = append(ids, e)
			return nil
		})
	})
	return ids, err
}

func (b *BadgerStorage) GetEdgesBetween(from, to storage.NodeID) ([]storage.EdgeID, error) {
	out, err := b.GetOutgoingEdges(from)
	if errors.Is(err, storage.ErrAccessClosedStorage) {
		return nil, err
	}
	if err != nil {
		return []storage.EdgeID{}, nil
	}
	result := make([]storage.EdgeID, 0)
	for _, e := range out {
		if e.Dst == to {
			result = append(result, e)
		}
	}
	return result, nil
}

func (b *BadgerStorage) DeleteNodes(pred func(storage.NodeID) bool) (int, error) {
	ids, err := b.NodeIDs()
	if err != nil {
		return 0, err
	}
	targets := make([]storage.NodeID, 0)
	for _, id := range ids {
		if pred(id) {
			targets = append(targets, id)
		}
	}
	count := 0
	for _, id := range targets {
		if b.DeleteNode(id) == nil {
			count++
		}
	}
	return count, nil
}

func (b *BadgerStorage) DeleteEdges(pred func(storage.EdgeID) bool) (int, error) {
	ids, err := b.EdgeIDs()
	if err != nil {
		return 0, err
	}
	targets := make([]storage.EdgeID, 0)
	for _, id := range ids {
		if pred(id) {
			targets = append(targets, id)
		}
	}
	count := 0
	for _, id := range targets {
		if b.DeleteEdge(id) == nil {
			count++
		}
	}
	return count, nil
}

func (b *BadgerStorage) GetMeta(name string) (storage.Value, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return storage.Value{}, false, &storage.ClosedError{}
	}
	var v storage.Value
	found := false
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(name))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if jerr := json.Unmarshal(val, &v); jerr != nil {
				return jerr
			}
			found = true
			return nil
		})
	})
	return v, found, err
}

func (b *BadgerStorage) SetMeta(name string, value storage.Value) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &storage.ClosedError{}
	}
	return b.db.Update(func(txn *badger.Txn) error {
		if value.IsNull() {
			err := txn.Delete(metaKey(name))
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return txn.Set(metaKey(name), data)
	})
}

// Clear drops every key under this storage's prefixes, leaving the
// database open.
func (b *BadgerStorage) Clear() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false, &storage.ClosedError{}
	}
	for _, p := range allPrefixes {
		if err := b.db.DropPrefix([]byte{p}); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Close is idempotent; never fails on a repeated call.
func (b *BadgerStorage) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.db.Close()
}

// Snapshot lists every node/edge id in one read transaction, giving a
// consistent point-in-time view courtesy of Badger's MVCC.
func (b *BadgerStorage) Snapshot() ([]storage.NodeID, []storage.EdgeID, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, nil, &storage.ClosedError{}
	}
	var nodeIDs []storage.NodeID
	var edgeIDs []storage.EdgeID
	err := b.db.View(func(txn *badger.Txn) error {
		if err := b.scanPrefix(txn, []byte{prefixNode}, func(key []byte) error {
			nodeIDs = append(nodeIDs, storage.NewNodeID(string(key[1:])))
			return nil
		}); err != nil {
			return err
		}
		return b.scanPrefix(txn, []byte{prefixEdge}, func(key []byte) error {
			e, err := decodeEdgeKeyBody(key[1:])
			if err != nil {
				return err
			}
			edgeIDs = append(edgeIDs, e)
			return nil
		})
	})
	return nodeIDs, edgeIDs, err
}
