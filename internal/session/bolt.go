package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/MonkeyKingDev/git-peek/internal/models"
)

const sessionBucket = "sessions"

// BoltStore persists sessions in a bbolt file so logins survive server
// restarts.
type BoltStore struct {
	db  *bolt.DB
	ttl time.Duration
}

// NewBoltStore opens (or creates) the session database at path.
func NewBoltStore(path string, ttl time.Duration) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("session db dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create session bucket: %w", err)
	}

	return &BoltStore{db: db, ttl: ttl}, nil
}

func (s *BoltStore) Create(accessToken string, user models.GitHubUser) (Session, error) {
	now := time.Now()
	sess := Session{
		ID:          newID(),
		AccessToken: accessToken,
		User:        user,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(sess)
		if err != nil {
			return err
		}
		return tx.Bucket([]byte(sessionBucket)).Put([]byte(sess.ID), data)
	})
	if err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

func (s *BoltStore) Get(id string) (Session, error) {
	var sess Session
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(sessionBucket)).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &sess)
	})
	if err != nil {
		return Session{}, ErrNotFound
	}

	if sess.Expired(time.Now()) {
		_ = s.Delete(id)
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *BoltStore) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Delete([]byte(id))
	})
}

// Close evicts expired sessions and closes the database.
func (s *BoltStore) Close() error {
	now := time.Now()
	_ = s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(sessionBucket)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var sess Session
			if err := json.Unmarshal(v, &sess); err != nil || sess.Expired(now) {
				// Deleting through the cursor keeps its position valid.
				_ = c.Delete()
			}
		}
		return nil
	})
	return s.db.Close()
}
