/*
Package project provides durable persistence for named scene projects.

A project is a saved scene snapshot keyed by name. The store is used only by
the explicit save/load REST endpoints; the room-synchronization path never
touches it, and room state is never persisted.
*/
package project

import (
	"context"
	"errors"
	"fmt"

	"scenesync/pkg/wire"
)

// ErrNotFound is returned when the requested project name does not exist.
var ErrNotFound = errors.New("project not found")

// Scene is the persisted form of a project: the ordered shape list of a room
// at the moment of saving.
type Scene struct {
	Shapes []wire.Shape `json:"shapes"`
}

// StoreConfig holds the configuration required to connect to a store backend.
type StoreConfig struct {
	// Backend selects the implementation: "s3" or "postgres".
	Backend string

	// S3 settings, used when Backend is "s3".
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string

	// DatabaseDSN, used when Backend is "postgres".
	DatabaseDSN string
}

// Store is the durable key-value project store.
type Store interface {
	// Get loads the scene snapshot saved under name. Returns ErrNotFound if absent.
	Get(ctx context.Context, name string) (*Scene, error)

	// Put saves the scene snapshot under name, replacing any previous version.
	Put(ctx context.Context, name string, sc *Scene) error

	// List returns the names of all saved projects.
	List(ctx context.Context) ([]string, error)
}

// NewStore is the factory function for Store. It initializes and returns a
// concrete implementation based on the configured backend.
func NewStore(ctx context.Context, cfg StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "s3":
		return newS3Store(ctx, cfg)
	case "postgres":
		return newPostgresStore(ctx, cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported project store backend %q", cfg.Backend)
	}
}
