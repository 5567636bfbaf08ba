package pgkv

import (
	"database/sql"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/meshwar/roster/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS roster_kv (
    key   text PRIMARY KEY,
    value text NOT NULL
)`

// Store is a Postgres-backed core.KeyValueStore: a single two-column table.
// The schema is tiny and fixed, so it is created in place instead of running
// a migration chain.
type Store struct {
	db *sqlx.DB
}

var _ core.KeyValueStore = (*Store)(nil)

func Open(conf *core.Config) (*Store, error) {
	sslMode := "require"
	if conf.Storage.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Storage.Database.Engine,
		User:     url.UserPassword(conf.Storage.Database.User, conf.Storage.Database.Password),
		Host:     conf.DatabaseAddress(),
		Path:     conf.Storage.Database.Name,
		RawQuery: q.Encode(),
	}

	db, err := sqlx.Open(conf.Storage.Database.Engine, u.String())
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err := ping(db); err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "creating kv table")
	}
	return &Store{db: db}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func (s *Store) Get(key string) (string, error) {
	var value string
	if err := s.db.Get(&value, "SELECT value FROM roster_kv WHERE key = $1", key); err != nil {
		if err == sql.ErrNoRows {
			return "", core.ErrKeyNotFound
		}
		return "", errors.Wrap(err, "reading key")
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO roster_kv (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
		key, value,
	)
	return errors.Wrap(err, "writing key")
}

func (s *Store) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM roster_kv WHERE key = $1", key)
	return errors.Wrap(err, "deleting key")
}

func (s *Store) Close() error {
	return s.db.Close()
}
