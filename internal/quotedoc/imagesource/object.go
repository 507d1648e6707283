package imagesource

import (
	"context"
	"io"

	"github.com/sangkips/rajtiles-api/internal/infrastructure/storage"
)

// ObjectReader downloads stored objects
type ObjectReader interface {
	DownloadFile(ctx context.Context, bucket, fileKey string) (io.ReadCloser, error)
}

// ObjectSource resolves s3://bucket/key references through object storage
type ObjectSource struct {
	store ObjectReader
}

func NewObjectSource(store ObjectReader) *ObjectSource {
	return &ObjectSource{store: store}
}

func (s *ObjectSource) Accepts(ref string) bool {
	_, _, ok := storage.ParseReference(ref)
	return ok && s.store != nil
}

func (s *ObjectSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	bucket, key, _ := storage.ParseReference(ref)

	obj, err := s.store.DownloadFile(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	return io.ReadAll(io.LimitReader(obj, maxImageBytes))
}
