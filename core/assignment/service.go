package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/policy"
)

var (
	// errors
	ErrNotFound     = errors.New("assignment not found")
	ErrBlobNotFound = errors.New("blob not found")
	errBadFilename  = errors.New("invalid filename")

	nowFunc = time.Now // mockable
)

type Repository interface {
	CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
	GetAssignment(ctx context.Context, id int) (Assignment, error)
	// QueryAssignments returns all assignments in insertion order.
	QueryAssignments(ctx context.Context) ([]Assignment, error)
}

// BlobStore stores assignment file contents.
// Put must only return once the content is durably written.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) (ref string, err error)
	Get(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
}

type Service struct {
	repo   Repository
	blobs  BlobStore
	logger core.Logger
}

func NewService(repo Repository, blobs BlobStore, logger core.Logger) *Service {
	return &Service{repo: repo, blobs: blobs, logger: logger}
}

// Submit stores an assignment file for the acting student.
// The blob is written first; no Assignment is created if that fails.
func (svc *Service) Submit(ctx context.Context, actor policy.Actor, rawFilename string, data []byte) (Assignment, error) {
	if err := policy.Check(actor, actor.ID, policy.UploadOwnAssignment); err != nil {
		return Assignment{}, err
	}

	name := SanitizeFilename(rawFilename)
	if name == "" {
		return Assignment{}, core.NewValidationError(
			errBadFilename,
			core.FieldError{Field: "filename", Error: "filename is empty once sanitized"},
		)
	}

	// blob keys are unique; identical display names never collide
	key := fmt.Sprintf("assignments/%d/%s/%s", actor.ID, uuid.New().String(), name)
	ref, err := svc.blobs.Put(ctx, key, data)
	if err != nil {
		return Assignment{}, core.NewStorageError(err, "writing assignment blob")
	}

	a, err := svc.repo.CreateAssignment(ctx, Assignment{
		StudentID: actor.ID,
		Filename:  name,
		BlobRef:   ref,
		CreatedAt: nowFunc().UTC(),
	})
	if err != nil {
		if dErr := svc.blobs.Delete(ctx, ref); dErr != nil {
			svc.logger.Warn(fmt.Sprintf("orphan assignment blob %q", ref), dErr)
		}
		return Assignment{}, core.NewStorageError(err, "creating assignment")
	}
	return a, nil
}

func (svc *Service) List(ctx context.Context, actor policy.Actor) ([]Assignment, error) {
	if err := policy.Check(actor, actor.ID, policy.ListAllAssignments); err != nil {
		return nil, err
	}
	as, err := svc.repo.QueryAssignments(ctx)
	if err != nil {
		return nil, core.NewStorageError(err, "querying assignments")
	}
	return as, nil
}

// FetchBlob returns an assignment along with its file content.
func (svc *Service) FetchBlob(ctx context.Context, actor policy.Actor, id int) (Assignment, []byte, error) {
	a, err := svc.repo.GetAssignment(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Assignment{}, nil, ErrNotFound
		}
		return Assignment{}, nil, core.NewStorageError(err, "finding assignment")
	}
	if err = policy.Check(actor, a.StudentID, policy.DownloadAnyAssignment); err != nil {
		return Assignment{}, nil, err
	}

	data, err := svc.blobs.Get(ctx, a.BlobRef)
	if err != nil {
		if errors.Cause(err) == ErrBlobNotFound {
			// metadata without content: report as missing rather than a server error
			svc.logger.Error(fmt.Sprintf("assignment %d: blob %q is missing", a.ID, a.BlobRef), err)
			return Assignment{}, nil, ErrNotFound
		}
		return Assignment{}, nil, core.NewStorageError(err, "reading assignment blob")
	}
	return a, data, nil
}
