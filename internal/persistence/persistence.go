package persistence

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketLastDuties = "lastDuties"
	BucketProfiles   = "profiles"
)

var ErrNotFound = errors.New("not found")

type Persistence interface {
	Init() error

	SaveLastDuty(channelId string, duty int) error
	LoadLastDuty(channelId string) (int, error)
	LoadAllLastDuties() (map[string]int, error)

	SaveProfile(name string, profile configuration.ProfileConfig) error
	LoadProfile(name string) (configuration.ProfileConfig, error)
	LoadAllProfiles() (map[string]configuration.ProfileConfig, error)
	DeleteProfile(name string) error
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	return &persistence{
		dbPath: dbPath,
	}
}

func (p persistence) Init() (err error) {
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		ui.Info("Creating directory for db: %s", parentDir)
		return os.MkdirAll(parentDir, 0755)
	}
	return nil
}

func (p persistence) openPersistence() (*bolt.DB, error) {
	return bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
}

func (p persistence) SaveLastDuty(channelId string, duty int) error {
	return p.put(BucketLastDuties, channelId, duty)
}

func (p persistence) LoadLastDuty(channelId string) (int, error) {
	var duty int
	err := p.get(BucketLastDuties, channelId, &duty)
	return duty, err
}

func (p persistence) LoadAllLastDuties() (map[string]int, error) {
	result := map[string]int{}
	var corrupt []string
	err := p.forEach(BucketLastDuties, func(key string, data []byte) {
		var duty int
		if err := json.Unmarshal(data, &duty); err != nil {
			corrupt = append(corrupt, key)
			return
		}
		result[key] = duty
	})
	p.dropCorrupt(BucketLastDuties, corrupt)
	return result, err
}

func (p persistence) SaveProfile(name string, profile configuration.ProfileConfig) error {
	return p.put(BucketProfiles, name, profile)
}

func (p persistence) LoadProfile(name string) (configuration.ProfileConfig, error) {
	var profile configuration.ProfileConfig
	err := p.get(BucketProfiles, name, &profile)
	return profile, err
}

func (p persistence) LoadAllProfiles() (map[string]configuration.ProfileConfig, error) {
	result := map[string]configuration.ProfileConfig{}
	var corrupt []string
	err := p.forEach(BucketProfiles, func(key string, data []byte) {
		var profile configuration.ProfileConfig
		if err := json.Unmarshal(data, &profile); err != nil {
			corrupt = append(corrupt, key)
			return
		}
		result[key] = profile
	})
	p.dropCorrupt(BucketProfiles, corrupt)
	return result, err
}

// dropCorrupt removes entries that can no longer be unmarshaled. Runs after
// the reading transaction has closed, the db file lock is not re-entrant.
func (p persistence) dropCorrupt(bucket string, keys []string) {
	for _, key := range keys {
		ui.Warning("Dropping corrupt db entry: %s/%s", bucket, key)
		_ = p.delete(bucket, key)
	}
}

func (p persistence) DeleteProfile(name string) error {
	return p.delete(BucketProfiles, name)
}

func (p persistence) put(bucket string, key string, value interface{}) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

// get unmarshals the stored value into target. A value that cannot be
// unmarshaled anymore is deleted and reported as absent.
func (p persistence) get(bucket string, key string, target interface{}) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}

	corrupt := false
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrNotFound
		}
		data := b.Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(data, target); err != nil {
			corrupt = true
			return ErrNotFound
		}
		return nil
	})
	_ = db.Close()

	if corrupt {
		p.dropCorrupt(bucket, []string{key})
	}
	return err
}

func (p persistence) delete(bucket string, key string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

func (p persistence) forEach(bucket string, visit func(key string, data []byte)) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			visit(string(k), append([]byte(nil), v...))
			return nil
		})
	})
}
