package syncq

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const opKeyPrefix = "op/"

func opKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", opKeyPrefix, seq))
}

// Queue is the durable FIFO of not-yet-confirmed remote mutations. Keys
// are zero-padded sequence numbers so badger iteration order is enqueue
// order, across process restarts.
type Queue struct {
	db *badger.DB

	mu   sync.Mutex
	next uint64
}

func OpenQueue(db *badger.DB) (*Queue, error) {
	q := &Queue{db: db, next: 1}
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(opKeyPrefix), Reverse: true})
		defer it.Close()
		// seek past the last op key to find the highest sequence
		it.Seek([]byte(opKeyPrefix + "~"))
		if !it.ValidForPrefix([]byte(opKeyPrefix)) {
			return nil
		}
		var last Op
		if err := it.Item().Value(func(v []byte) error {
			return json.Unmarshal(v, &last)
		}); err != nil {
			return err
		}
		q.next = last.Seq + 1
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("open queue: %w", err)
	}
	return q, nil
}

func (q *Queue) Enqueue(kind Kind, payload json.RawMessage) (Op, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	op := Op{
		Seq:        q.next,
		ID:         uuid.NewString(),
		Kind:       kind,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := q.put(op); err != nil {
		return Op{}, fmt.Errorf("enqueue %s: %w", kind, err)
	}
	q.next++
	return op, nil
}

func (q *Queue) put(op Op) error {
	b, err := json.Marshal(op)
	if err != nil {
		return err
	}
	return q.db.Update(func(txn *badger.Txn) error {
		return txn.Set(opKey(op.Seq), b)
	})
}

// Pending returns every queued op in enqueue order.
func (q *Queue) Pending() ([]Op, error) {
	var out []Op
	err := q.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(opKeyPrefix), PrefetchValues: true, PrefetchSize: 64})
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix([]byte(opKeyPrefix)); it.Next() {
			var op Op
			if err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &op)
			}); err != nil {
				return err
			}
			out = append(out, op)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pending ops: %w", err)
	}
	return out, nil
}

// Ack removes a confirmed op.
func (q *Queue) Ack(op Op) error {
	return q.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(opKey(op.Seq))
	})
}

// Bump persists an incremented attempt counter for a failed op. The op
// stays queued; nothing is ever dropped on failure.
func (q *Queue) Bump(op Op) (Op, error) {
	op.Attempts++
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.put(op); err != nil {
		return op, fmt.Errorf("bump op %s: %w", op.ID, err)
	}
	return op, nil
}

func (q *Queue) Len() (int, error) {
	n := 0
	err := q.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(opKeyPrefix)})
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix([]byte(opKeyPrefix)); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
