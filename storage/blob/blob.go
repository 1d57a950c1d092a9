// Package blobstore holds the assignment.BlobStore implementations.
// A blob ref is the key it was stored under.
package blobstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/assignment"
)

// Store is an assignment.BlobStore that must be closed after use.
type Store interface {
	assignment.BlobStore
	Close() error
}

// Open returns the blob store selected by conf.Blob.Backend.
func Open(ctx context.Context, conf *core.Config) (Store, error) {
	switch conf.Blob.Backend {
	case "bolt", "":
		return OpenBolt(conf.Blob.BoltPath)
	case "b2":
		return OpenB2(ctx, conf.Blob.B2AccountID, conf.Blob.B2AppKey, conf.Blob.B2Bucket)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, errors.Errorf("unknown blob backend %q", conf.Blob.Backend)
	}
}
