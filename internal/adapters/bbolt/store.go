// Package bbolt implements the ports.TMStorage interface using bbolt
// (embedded B+ tree). The TM log lives in one bucket keyed by a big-endian
// sequence number, so cursor order is append order. Writes are
// transactional — a crash mid-append cannot corrupt committed entries.
package bbolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/localcat/internal/ports"
)

var (
	bucketLog  = []byte("tm_log")
	bucketMeta = []byte("meta")
	keySchema  = []byte("schema_version")
)

// schemaVersion guards the on-disk format. Bump on incompatible changes.
const schemaVersion = "1"

// iterBatchSize is how many entries one iterator refill pulls per
// transaction. The iterator holds at most one batch in memory, keeping the
// load path bounded regardless of log size.
const iterBatchSize = 256

// Store implements ports.TMStorage backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketLog); err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}
		if v := meta.Get(keySchema); v != nil && string(v) != schemaVersion {
			return fmt.Errorf("unsupported schema version %q", v)
		}
		return meta.Put(keySchema, []byte(schemaVersion))
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt init: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AppendEntry durably appends one TM entry to the log.
func (s *Store) AppendEntry(entry ports.TMEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal tm entry: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLog)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), data)
	})
}

// Len reports the number of committed entries.
func (s *Store) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketLog).Stats().KeyN
		return nil
	})
	return n, err
}

// Entries returns a pull-based iterator over the log in append order.
func (s *Store) Entries() ports.TMIterator {
	return &logIterator{store: s}
}

// logIterator walks the log in batches. Each refill opens a short read
// transaction, copies at most iterBatchSize entries out, and closes it, so
// no transaction stays open across Next calls and memory stays bounded.
type logIterator struct {
	store  *Store
	mu     sync.Mutex
	batch  []ports.TMEntry
	pos    int
	after  uint64 // last sequence consumed; 0 = start
	seqs   []uint64
	bad    map[int]string // batch positions that failed to decode
	done   bool
	closed bool
}

func (it *logIterator) Next() (ports.TMEntry, error) {
	it.mu.Lock()
	defer it.mu.Unlock()

	if it.closed {
		return ports.TMEntry{}, io.EOF
	}
	for it.pos >= len(it.batch) {
		if it.done {
			return ports.TMEntry{}, io.EOF
		}
		if err := it.refill(); err != nil {
			return ports.TMEntry{}, err
		}
	}

	entry := it.batch[it.pos]
	seq := it.seqs[it.pos]
	reason, corrupt := it.bad[it.pos]
	it.after = seq
	it.pos++
	if corrupt {
		return ports.TMEntry{}, &ports.MalformedEntryError{
			Source: "tm_log", Line: int(seq), Reason: reason,
		}
	}
	return entry, nil
}

func (it *logIterator) refill() error {
	it.batch = it.batch[:0]
	it.seqs = it.seqs[:0]
	it.bad = make(map[int]string)
	it.pos = 0

	err := it.store.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketLog).Cursor()

		var k, v []byte
		if it.after == 0 {
			k, v = c.First()
		} else {
			c.Seek(seqKey(it.after))
			k, v = c.Next()
		}

		for ; k != nil && len(it.batch) < iterBatchSize; k, v = c.Next() {
			seq := binary.BigEndian.Uint64(k)
			var entry ports.TMEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				// A corrupt record costs one entry, not the whole log.
				it.batch = append(it.batch, ports.TMEntry{})
				it.seqs = append(it.seqs, seq)
				it.bad[len(it.batch)-1] = err.Error()
				continue
			}
			it.batch = append(it.batch, entry)
			it.seqs = append(it.seqs, seq)
		}
		if k == nil {
			it.done = true
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(it.batch) == 0 {
		it.done = true
	}
	return nil
}

func (it *logIterator) Close() error {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.closed = true
	return nil
}

// seqKey encodes a sequence number as a big-endian key so that cursor
// order equals append order.
func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

var _ ports.TMStorage = (*Store)(nil)
