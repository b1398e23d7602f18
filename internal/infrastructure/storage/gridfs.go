// Package storage implements the photo object store on MongoDB GridFS.
// Photo binaries live in a dedicated bucket next to the metadata collections,
// keyed by the generated file name and addressed by the GridFS file id.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
)

const (
	bucketName     = "vehicle_photos"
	defaultTimeout = 30 * time.Second
)

// PhotoStore implements ports.ObjectStore backed by a GridFS bucket.
type PhotoStore struct {
	db     *mongo.Database
	bucket *gridfs.Bucket
}

func NewPhotoStore(db *mongo.Database) (*PhotoStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return &PhotoStore{db: db, bucket: bucket}, nil
}

// Upload stores one photo binary under key and returns the file id as a hex
// string. The content type is kept in the file metadata for delivery.
func (s *PhotoStore) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if err := s.setWriteDeadline(ctx); err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	opts := options.GridFSUpload().SetMetadata(bson.M{"content_type": contentType})
	fileID, err := s.bucket.UploadFromStream(key, r, opts)
	if err != nil {
		return "", fmt.Errorf("upload photo %s: %w", key, err)
	}
	return fileID.Hex(), nil
}

// Download opens a read stream for the stored binary and reports the content
// type recorded at upload time.
func (s *PhotoStore) Download(ctx context.Context, id string) (io.ReadCloser, string, error) {
	fileID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, "", domain.ErrPhotoNotFound
	}

	if err := s.setReadDeadline(ctx); err != nil {
		return nil, "", fmt.Errorf("download photo: %w", err)
	}

	stream, err := s.bucket.OpenDownloadStream(fileID)
	if err != nil {
		if err == gridfs.ErrFileNotFound {
			return nil, "", domain.ErrPhotoNotFound
		}
		return nil, "", fmt.Errorf("download photo %s: %w", id, err)
	}

	return stream, fileContentType(stream.GetFile()), nil
}

func fileContentType(file *gridfs.File) string {
	if file != nil && file.Metadata != nil {
		var meta struct {
			ContentType string `bson:"content_type"`
		}
		if err := bson.Unmarshal(file.Metadata, &meta); err == nil && meta.ContentType != "" {
			return meta.ContentType
		}
	}
	return "application/octet-stream"
}

// Remove deletes a stored binary; used when a staged submission is discarded.
func (s *PhotoStore) Remove(ctx context.Context, id string) error {
	fileID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("remove photo: invalid id %q", id)
	}

	if err := s.setWriteDeadline(ctx); err != nil {
		return fmt.Errorf("remove photo: %w", err)
	}

	if err := s.bucket.Delete(fileID); err != nil && err != gridfs.ErrFileNotFound {
		return fmt.Errorf("remove photo %s: %w", id, err)
	}
	return nil
}

// Ping verifies the underlying database is reachable before a submission
// starts writing.
func (s *PhotoStore) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.db.Client().Ping(pingCtx, nil)
}

// GridFS streams carry deadlines rather than contexts; derive one from the
// caller's context when present.
func (s *PhotoStore) setWriteDeadline(ctx context.Context) error {
	return s.bucket.SetWriteDeadline(deadlineFrom(ctx))
}

func (s *PhotoStore) setReadDeadline(ctx context.Context) error {
	return s.bucket.SetReadDeadline(deadlineFrom(ctx))
}

func deadlineFrom(ctx context.Context) time.Time {
	if dl, ok := ctx.Deadline(); ok {
		return dl
	}
	return time.Now().Add(defaultTimeout)
}
