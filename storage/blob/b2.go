package blobstore

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"

	"github.com/kurin/blazer/b2"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/assignment"
)

// B2 stores blobs in a Backblaze B2 bucket.
type B2 struct {
	client *b2.Client
	bucket *b2.Bucket
}

var _ assignment.BlobStore = (*B2)(nil) // interface compliance check

func OpenB2(ctx context.Context, accountID, appKey, bucketName string) (*B2, error) {
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, errors.Wrap(err, "creating b2 client")
	}
	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, errors.Wrap(err, "getting b2 bucket")
	}
	return &B2{client: client, bucket: bucket}, nil
}

// Put returns once the upload is complete: the writer's Close waits for B2 to acknowledge it.
func (s *B2) Put(ctx context.Context, key string, data []byte) (string, error) {
	w := s.bucket.Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", errors.Wrap(err, "writing b2 object")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "closing b2 object writer")
	}
	return key, nil
}

func (s *B2) Get(ctx context.Context, ref string) ([]byte, error) {
	r := s.bucket.Object(ref).NewReader(ctx)
	defer func() { _ = r.Close() }()

	data, err := ioutil.ReadAll(r)
	if err != nil {
		if b2.IsNotExist(err) {
			return nil, assignment.ErrBlobNotFound
		}
		return nil, errors.Wrap(err, "reading b2 object")
	}
	return data, nil
}

func (s *B2) Delete(ctx context.Context, ref string) error {
	if err := s.bucket.Object(ref).Delete(ctx); err != nil && !b2.IsNotExist(err) {
		return errors.Wrap(err, "deleting b2 object")
	}
	return nil
}

// Close is a no-op; the b2 client holds no resources to release.
func (s *B2) Close() error { return nil }
