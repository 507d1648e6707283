package imagesource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	// BrowserUserAgent is sent with every remote fetch; some CDNs refuse bare clients.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	maxImageBytes = 10 << 20
)

var errTooManyRedirects = errors.New("too many redirects")

// StatusError is a non-2xx response; it is never retried
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// RemoteOptions tunes RemoteSource
type RemoteOptions struct {
	Timeout        time.Duration
	Attempts       int
	InitialBackoff time.Duration
	MaxRedirects   int
}

// DefaultRemoteOptions matches the fetch policy of the quotation generator
func DefaultRemoteOptions() RemoteOptions {
	return RemoteOptions{
		Timeout:        25 * time.Second,
		Attempts:       3,
		InitialBackoff: 500 * time.Millisecond,
		MaxRedirects:   5,
	}
}

// RemoteSource fetches http(s) references
type RemoteSource struct {
	client *http.Client
	opts   RemoteOptions
}

// NewRemoteSource creates a remote source; a nil client gets a fresh one
func NewRemoteSource(client *http.Client, opts RemoteOptions) *RemoteSource {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = 500 * time.Millisecond
	}

	c := &http.Client{}
	if client != nil {
		*c = *client
	}
	c.Timeout = opts.Timeout
	maxRedirects := opts.MaxRedirects
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) > maxRedirects {
			return errTooManyRedirects
		}
		return nil
	}

	return &RemoteSource{client: c, opts: opts}
}

func (s *RemoteSource) Accepts(ref string) bool {
	return IsRemote(ref)
}

// Fetch downloads ref, retrying transport failures with exponential backoff.
// Status errors and redirect loops fail immediately.
func (s *RemoteSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	var data []byte

	backoff := retry.WithMaxRetries(uint64(s.opts.Attempts-1), retry.NewExponential(s.opts.InitialBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		body, err := s.get(ctx, ref)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) || errors.Is(err, errTooManyRedirects) {
				return err
			}
			return retry.RetryableError(err)
		}
		data = body
		return nil
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (s *RemoteSource) get(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", BrowserUserAgent)
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxImageBytes {
		return nil, &StatusError{StatusCode: http.StatusRequestEntityTooLarge}
	}

	return body, nil
}
