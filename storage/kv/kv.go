package kv

import (
	"github.com/pkg/errors"

	"github.com/meshwar/roster/core"
	filekv "github.com/meshwar/roster/storage/kv/file"
	inmemkv "github.com/meshwar/roster/storage/kv/inmem"
	pgkv "github.com/meshwar/roster/storage/kv/postgres"
)

// Open returns the roster store selected by the configuration, along with a
// close function for backends holding external resources.
func Open(conf *core.Config) (core.KeyValueStore, func() error, error) {
	noop := func() error { return nil }

	switch conf.Storage.Backend {
	case "memory":
		return inmemkv.NewStore(), noop, nil
	case "postgres":
		store, err := pgkv.Open(conf)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "file":
		store, err := filekv.NewStore(conf.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	default:
		return nil, nil, errors.Errorf("unknown storage backend %q", conf.Storage.Backend)
	}
}
