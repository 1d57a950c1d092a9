package blobstore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/trezcool/academia/core/assignment"
)

var boltBucket = []byte("blobs")

// Bolt stores blobs in a single-file bbolt database.
type Bolt struct {
	db *bbolt.DB
}

var _ assignment.BlobStore = (*Bolt)(nil) // interface compliance check

func OpenBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating blob directory")
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrap(err, "opening bolt blob store")
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating blob bucket")
	}
	return &Bolt{db: db}, nil
}

// Put commits the blob before returning; bbolt fsyncs on commit.
func (s *Bolt) Put(_ context.Context, key string, data []byte) (string, error) {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), data)
	})
	if err != nil {
		return "", errors.Wrap(err, "writing blob")
	}
	return key, nil
}

func (s *Bolt) Get(_ context.Context, ref string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(boltBucket).Get([]byte(ref))
		if v == nil {
			return assignment.ErrBlobNotFound
		}
		// v is only valid during the transaction
		data = append([]byte{}, v...)
		return nil
	})
	if err != nil {
		if err == assignment.ErrBlobNotFound {
			return nil, err
		}
		return nil, errors.Wrap(err, "reading blob")
	}
	return data, nil
}

func (s *Bolt) Delete(_ context.Context, ref string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(ref))
	})
	return errors.Wrap(err, "deleting blob")
}

func (s *Bolt) Close() error {
	return s.db.Close()
}
