package ports

import (
	"context"
	"io"
)

// ObjectStore abstracts the binary store holding photo files. Upload returns
// the store-assigned object id; the transport layer turns ids into publicly
// resolvable content URLs. Download also returns the content type recorded at
// upload time.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Download(ctx context.Context, id string) (io.ReadCloser, string, error)
	Remove(ctx context.Context, id string) error
	// Ping verifies the store is reachable; submissions probe it before
	// performing any write.
	Ping(ctx context.Context) error
}
