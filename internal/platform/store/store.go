package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Collection names. Every record lives under "<collection>/<id>".
const (
	Medicines  = "medicines"
	Patients   = "patients"
	Treatments = "treatments"
	Reactions  = "adverse_reactions"

	metaPrefix = "meta/"
)

// ErrNotFound is returned when a record id is absent from a collection.
var ErrNotFound = errors.New("record not found")

// Record pairs an id with its JSON-marshalable value for bulk writes.
type Record struct {
	ID    string
	Value interface{}
}

// Store is an embedded key-value store holding the application's
// collections. Writes are synced to disk before returning, so a read
// following a completed write always observes it.
type Store struct {
	db *leveldb.DB
	wo *opt.WriteOptions
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", path, err)
	}
	return &Store{db: db, wo: &opt.WriteOptions{Sync: true}}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func key(collection, id string) []byte {
	return []byte(collection + "/" + id)
}

// Put marshals v and stores it under the record's id.
func (s *Store) Put(collection, id string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}
	if err := s.db.Put(key(collection, id), data, s.wo); err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

// Get unmarshals the record with the given id into out. Returns
// ErrNotFound when the id is absent.
func (s *Store) Get(collection, id string, out interface{}) error {
	data, err := s.db.Get(key(collection, id), nil)
	if err != nil {
		if errors.Is(err, lerrors.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %s/%s: %w", collection, id, err)
	}
	return nil
}

// Has reports whether the record id exists in the collection.
func (s *Store) Has(collection, id string) (bool, error) {
	ok, err := s.db.Has(key(collection, id), nil)
	if err != nil {
		return false, fmt.Errorf("has %s/%s: %w", collection, id, err)
	}
	return ok, nil
}

// Delete removes the record. Deleting an absent id is a no-op.
func (s *Store) Delete(collection, id string) error {
	if err := s.db.Delete(key(collection, id), s.wo); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// List calls fn with the raw JSON of every record in the collection.
func (s *Store) List(collection string, fn func(raw []byte) error) error {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(collection+"/")), nil)
	defer iter.Release()
	for iter.Next() {
		raw := make([]byte, len(iter.Value()))
		copy(raw, iter.Value())
		if err := fn(raw); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("iterate %s: %w", collection, err)
	}
	return nil
}

// Count returns the number of records in the collection.
func (s *Store) Count(collection string) (int, error) {
	n := 0
	err := s.List(collection, func([]byte) error {
		n++
		return nil
	})
	return n, err
}

// BulkPut writes all records in one batch.
func (s *Store) BulkPut(collection string, records []Record) error {
	batch := new(leveldb.Batch)
	if err := addPuts(batch, collection, records); err != nil {
		return err
	}
	if err := s.db.Write(batch, s.wo); err != nil {
		return fmt.Errorf("bulk put %s: %w", collection, err)
	}
	return nil
}

// ReplaceAll atomically clears every listed collection and writes the
// given records, all in a single batch. Either everything lands or
// nothing does.
func (s *Store) ReplaceAll(data map[string][]Record) error {
	batch := new(leveldb.Batch)
	for collection := range data {
		if err := s.addDeletes(batch, collection); err != nil {
			return err
		}
	}
	for collection, records := range data {
		if err := addPuts(batch, collection, records); err != nil {
			return err
		}
	}
	if err := s.db.Write(batch, s.wo); err != nil {
		return fmt.Errorf("replace collections: %w", err)
	}
	return nil
}

// ClearAll atomically empties every listed collection.
func (s *Store) ClearAll(collections ...string) error {
	batch := new(leveldb.Batch)
	for _, collection := range collections {
		if err := s.addDeletes(batch, collection); err != nil {
			return err
		}
	}
	if err := s.db.Write(batch, s.wo); err != nil {
		return fmt.Errorf("clear collections: %w", err)
	}
	return nil
}

func (s *Store) addDeletes(batch *leveldb.Batch, collection string) error {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(collection+"/")), nil)
	defer iter.Release()
	for iter.Next() {
		k := make([]byte, len(iter.Key()))
		copy(k, iter.Key())
		batch.Delete(k)
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("iterate %s: %w", collection, err)
	}
	return nil
}

func addPuts(batch *leveldb.Batch, collection string, records []Record) error {
	for _, rec := range records {
		data, err := json.Marshal(rec.Value)
		if err != nil {
			return fmt.Errorf("marshal %s/%s: %w", collection, rec.ID, err)
		}
		batch.Put(key(collection, rec.ID), data)
	}
	return nil
}

// GetMeta reads a metadata value (migration flags, schema markers).
func (s *Store) GetMeta(k string) (string, bool, error) {
	data, err := s.db.Get([]byte(metaPrefix+k), nil)
	if err != nil {
		if errors.Is(err, lerrors.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get meta %s: %w", k, err)
	}
	return string(data), true, nil
}

// SetMeta writes a metadata value.
func (s *Store) SetMeta(k, v string) error {
	if err := s.db.Put([]byte(metaPrefix+k), []byte(v), s.wo); err != nil {
		return fmt.Errorf("set meta %s: %w", k, err)
	}
	return nil
}
