// Package store caches serialised simulation results in BadgerDB.
//
// Keys are a short namespace followed by the big-endian xxhash of the
// canonical request payload, so identical requests hit the same entry.
package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// ErrNotFound is returned by Get when the key has no live entry.
var ErrNotFound = errors.New("cache entry not found")

// Options configures a Cache.
type Options struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps all data in RAM; used by tests and ephemeral servers.
	InMemory bool
	// TTL expires entries after the given duration. Zero keeps them forever.
	TTL time.Duration
	// Logger receives open/close events. Nil discards them.
	Logger *slog.Logger
}

// Cache is a key/value store for simulation records.
// It is safe for concurrent use.
type Cache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// Open opens or creates a cache.
func Open(opts Options) (*Cache, error) {
	if !opts.InMemory && opts.Path == "" {
		return nil, errors.New("store: path is required unless in-memory")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	path := opts.Path
	if opts.InMemory {
		path = ""
	}
	bopts := badger.DefaultOptions(path).
		WithInMemory(opts.InMemory).
		WithCompression(options.ZSTD).
		WithNumVersionsToKeep(1).
		WithLogger(nil)

	db, err := badger.Open(bopts)
	if err != nil {
		logger.Error("cache failed to open database", slog.Any("error", err))
		return nil, fmt.Errorf("database error: %w", err)
	}
	logger.Info("cache opened",
		slog.String("path", path),
		slog.Bool("inMemory", opts.InMemory),
		slog.Duration("ttl", opts.TTL))

	return &Cache{db: db, ttl: opts.TTL, logger: logger}, nil
}

// Key builds a cache key from a namespace and a payload.
func Key(namespace string, payload []byte) []byte {
	key := make([]byte, len(namespace)+1+8)
	n := copy(key, namespace)
	key[n] = ':'
	binary.BigEndian.PutUint64(key[n+1:], xxhash.Sum64(payload))
	return key
}

// Get returns a copy of the value stored under key.
func (c *Cache) Get(key []byte) ([]byte, error) {
	var out []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache read error: %w", err)
	}
	return out, nil
}

// Put stores value under key, replacing any existing entry.
func (c *Cache) Put(key, value []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(key, value)
		if c.ttl > 0 {
			e = e.WithTTL(c.ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("cache write error: %w", err)
	}
	return nil
}

// GetJSON decodes the value under key into v.
func (c *Cache) GetJSON(key []byte, v any) error {
	data, err := c.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cache decode error: %w", err)
	}
	return nil
}

// PutJSON encodes v and stores it under key.
func (c *Cache) PutJSON(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode error: %w", err)
	}
	return c.Put(key, data)
}

// Len counts the live entries.
func (c *Cache) Len() (int, error) {
	n := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Close flushes and closes the database.
func (c *Cache) Close() error {
	if err := c.db.Close(); err != nil {
		c.logger.Error("cache failed to close database", slog.Any("error", err))
		return fmt.Errorf("close failed: %w", err)
	}
	c.logger.Info("cache closed")
	return nil
}
