// Package imagesource resolves image references (URLs, object keys, local
// paths) to raw bytes. Resolution never fails loudly: an unresolvable
// reference yields nil and the caller substitutes a placeholder.
package imagesource

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
)

// Source is one resolution strategy
type Source interface {
	Accepts(ref string) bool
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Acquired is a resolved image reference
type Acquired struct {
	Ref         string
	Data        []byte
	ContentType string
}

// Acquirer tries its sources in order and short-circuits on the first success
type Acquirer struct {
	sources []Source
}

// NewAcquirer creates an acquirer over an ordered strategy list
func NewAcquirer(sources ...Source) *Acquirer {
	return &Acquirer{sources: sources}
}

var errEmpty = errors.New("empty image data")

// Acquire resolves ref to bytes, or nil when no source can
func (a *Acquirer) Acquire(ctx context.Context, ref string) *Acquired {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}

	for _, src := range a.sources {
		if !src.Accepts(ref) {
			continue
		}
		data, err := src.Fetch(ctx, ref)
		if err == nil && len(data) == 0 {
			err = errEmpty
		}
		if err != nil {
			log.Printf("image %q: %v", ref, err)
			continue
		}
		return &Acquired{
			Ref:         ref,
			Data:        data,
			ContentType: http.DetectContentType(data),
		}
	}

	return nil
}

// AcquireFirst returns the first reference in refs that resolves
func (a *Acquirer) AcquireFirst(ctx context.Context, refs ...string) *Acquired {
	for _, ref := range refs {
		if acquired := a.Acquire(ctx, ref); acquired != nil {
			return acquired
		}
	}
	return nil
}

// IsRemote reports whether ref is an absolute network locator
func IsRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
