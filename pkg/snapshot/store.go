package snapshot

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/log"
)

var rootBucket = []byte("snapshots")

// Store is a bbolt-backed collection of named, versioned map snapshots.
// Each name gets its own nested bucket keyed by a big-endian version
// number, so History and Load-latest are both cheap cursor operations.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the snapshot database at dataDir/snapshots.db.
func Open(dataDir string) (*Store, error) {
	dbPath := filepath.Join(dataDir, "snapshots.db")
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(rootBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Save appends a new version under name and returns the version number
// assigned (1-based, monotonically increasing per name).
func (s *Store) Save(name string, dimension int, data []byte) (uint32, error) {
	var version uint32
	err := s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(rootBucket)
		names, err := root.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
		version = uint32(names.Stats().KeyN) + 1
		rec := Record{Name: name, Version: version, Dimension: dimension, CreatedAt: time.Now(), Data: data}
		encoded, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return names.Put(versionKey(version), encoded)
	})
	if err != nil {
		return 0, err
	}
	log.WithComponent("snapshot").Info().Str("name", name).Uint32("version", version).Msg("saved snapshot")
	return version, nil
}

// Load reads a specific version's payload. version == 0 means the latest.
func (s *Store) Load(name string, version uint32) (Record, error) {
	var rec Record
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(rootBucket)
		names := root.Bucket([]byte(name))
		if names == nil {
			return &NotFoundError{Name: name}
		}
		c := names.Cursor()
		var key, data []byte
		if version == 0 {
			key, data = c.Last()
		} else {
			key, data = c.Seek(versionKey(version))
			if key != nil && binary.BigEndian.Uint32(key) != version {
				key, data = nil, nil
			}
		}
		if key == nil {
			return &NotFoundError{Name: name, Version: version}
		}
		return json.Unmarshal(data, &rec)
	})
	return rec, err
}

// History lists every version's metadata for name, oldest first.
func (s *Store) History(name string) ([]Meta, error) {
	var metas []Meta
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(rootBucket)
		names := root.Bucket([]byte(name))
		if names == nil {
			return &NotFoundError{Name: name}
		}
		return names.ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			metas = append(metas, Meta{
				Name: rec.Name, Version: rec.Version, Dimension: rec.Dimension,
				CreatedAt: rec.CreatedAt, Size: len(rec.Data),
			})
			return nil
		})
	})
	return metas, err
}

// Names lists every snapshot name with at least one saved version.
func (s *Store) Names() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(rootBucket)
		return root.ForEach(func(k, v []byte) error {
			if v == nil { // nil value means k names a nested bucket
				names = append(names, string(k))
			}
			return nil
		})
	})
	return names, err
}

// Delete removes every version stored under name.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(rootBucket)
		if root.Bucket([]byte(name)) == nil {
			return &NotFoundError{Name: name}
		}
		return root.DeleteBucket([]byte(name))
	})
}

func versionKey(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}
