package core

import "errors"

// ErrKeyNotFound is returned by KeyValueStore.Get for an unset key.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is the persistence port: a string-valued key-value collaborator.
// The core never assumes a specific backing store.
type KeyValueStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
