// Package badger stores items in an embedded BadgerDB so they survive restarts.
//
// Keys are laid out so that iteration order equals id order, which is also
// insertion order because ids only grow:
//
//	item/00000000000000000001 -> JSON item
//	meta/next-id              -> big-endian uint64 of the next id to issue
package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/novacaap/java-sample-docker/internal/domain"
	"github.com/novacaap/java-sample-docker/internal/repository"
)

const (
	itemPrefix = "item/"
	nextIDKey  = "meta/next-id"

	// maxTxnRetries bounds the optimistic retry loop for conflicting writers.
	maxTxnRetries = 10
)

// ItemStore implements repository.ItemRepository on top of BadgerDB.
type ItemStore struct {
	// writeMu serializes writers sharing this handle.
	writeMu sync.Mutex
	db      *badger.DB
	logger  *zap.Logger
}

var _ repository.ItemRepository = (*ItemStore)(nil)

// NewItemStore wraps an open database. When seed is true and the database has
// never issued an id, the seed items are written.
func NewItemStore(db *badger.DB, seed bool, logger *zap.Logger) (*ItemStore, error) {
	s := &ItemStore{db: db, logger: logger}
	if err := s.bootstrap(seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Open opens (or creates) a database directory. An empty dir opens an
// in-memory database.
func Open(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	return db, nil
}

func (s *ItemStore) bootstrap(seed bool) error {
	return s.update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(nextIDKey))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		next := domain.ItemID(1)
		if seed {
			for _, item := range domain.SeedItems() {
				if err := putItem(txn, item); err != nil {
					return err
				}
				if item.ID >= next {
					next = item.ID + 1
				}
			}
			s.logger.Info("Seeded badger item store", zap.Int64("next_id", int64(next)))
		}
		return setNextID(txn, next)
	})
}

// List iterates the item prefix in key order.
func (s *ItemStore) List(ctx context.Context) ([]domain.Item, error) {
	items := make([]domain.Item, 0)
	prefix := []byte(itemPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var item domain.Item
			if err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &item)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Get reads a single item by key.
func (s *ItemStore) Get(ctx context.Context, id domain.ItemID) (domain.Item, bool, error) {
	var (
		item  domain.Item
		found bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		entry, err := txn.Get(itemKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return entry.Value(func(v []byte) error {
			return json.Unmarshal(v, &item)
		})
	})
	if err != nil {
		return domain.Item{}, false, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, found, nil
}

// Create reads and advances the counter in the same transaction as the write.
func (s *ItemStore) Create(ctx context.Context, name, description string) (domain.Item, error) {
	var item domain.Item
	err := s.update(func(txn *badger.Txn) error {
		next, err := getNextID(txn)
		if err != nil {
			return err
		}
		item = domain.Item{ID: next, Name: name, Description: description}
		if err := putItem(txn, item); err != nil {
			return err
		}
		return setNextID(txn, next+1)
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

// Delete removes the item key if present.
func (s *ItemStore) Delete(ctx context.Context, id domain.ItemID) (bool, error) {
	var removed bool
	err := s.update(func(txn *badger.Txn) error {
		removed = false
		key := itemKey(id)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		removed = true
		return txn.Delete(key)
	})
	if err != nil {
		return false, fmt.Errorf("delete item %d: %w", id, err)
	}
	return removed, nil
}

// update runs fn in a read-write transaction, retrying on write conflicts.
func (s *ItemStore) update(fn func(txn *badger.Txn) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var err error
	for attempt := 0; attempt < maxTxnRetries; attempt++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.logger.Debug("Retrying conflicting badger transaction", zap.Int("attempt", attempt+1))
	}
	return err
}

func itemKey(id domain.ItemID) []byte {
	return []byte(fmt.Sprintf("%s%020d", itemPrefix, id))
}

func putItem(txn *badger.Txn, item domain.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return txn.Set(itemKey(item.ID), data)
}

func getNextID(txn *badger.Txn) (domain.ItemID, error) {
	entry, err := txn.Get([]byte(nextIDKey))
	if err != nil {
		return 0, fmt.Errorf("read id counter: %w", err)
	}
	var next uint64
	err = entry.Value(func(v []byte) error {
		if len(v) != 8 {
			return fmt.Errorf("corrupt id counter of %d bytes", len(v))
		}
		next = binary.BigEndian.Uint64(v)
		return nil
	})
	return domain.ItemID(next), err
}

func setNextID(txn *badger.Txn, next domain.ItemID) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(next))
	return txn.Set([]byte(nextIDKey), buf)
}
