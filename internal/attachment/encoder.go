package attachment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stmarys-jajpur/admitform/internal/logging"
)

// DefaultMaxBytes is the largest attachment the encoder accepts (10 MiB)
const DefaultMaxBytes int64 = 10 << 20

// ErrTooLarge is wrapped by a ReadError when a blob exceeds MaxBytes
var ErrTooLarge = errors.New("attachment exceeds size limit")

// Encoded is the wire shape of one attachment
type Encoded struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Decode returns the original bytes of an encoded attachment
func (e *Encoded) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(StripDataURIPrefix(e.Data))
}

// ReadError reports that a selected file could not be read
type ReadError struct {
	Slot     string // Record field holding the attachment
	FileName string // Original filename
	Err      error  // Underlying cause
}

// Error implements the error interface
func (e *ReadError) Error() string {
	return fmt.Sprintf("cannot read attachment %s (%s): %v", e.Slot, e.FileName, e.Err)
}

// Unwrap returns the underlying error
func (e *ReadError) Unwrap() error {
	return e.Err
}

// Encoder converts blobs to their base64 wire form
type Encoder struct {
	// MaxBytes caps the size of a single attachment (0 = no limit)
	MaxBytes int64
}

// NewEncoder creates an encoder with the default size limit
func NewEncoder() *Encoder {
	return &Encoder{MaxBytes: DefaultMaxBytes}
}

// Encode reads one blob and returns its encoded form.
// Any read failure is returned as a *ReadError naming the slot.
func (e *Encoder) Encode(ctx context.Context, slot string, blob Blob) (*Encoded, error) {
	if blob == nil {
		return nil, nil
	}

	fail := func(err error) (*Encoded, error) {
		return nil, &ReadError{Slot: slot, FileName: blob.Name(), Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	rc, err := blob.Open()
	if err != nil {
		return fail(err)
	}
	defer func() { _ = rc.Close() }()

	var src io.Reader = &contextReader{ctx: ctx, r: rc}
	if e.MaxBytes > 0 {
		src = io.LimitReader(src, e.MaxBytes+1)
	}

	var out strings.Builder
	w := base64.NewEncoder(base64.StdEncoding, &out)
	n, err := io.Copy(w, src)
	if err != nil {
		return fail(err)
	}
	if e.MaxBytes > 0 && n > e.MaxBytes {
		return fail(fmt.Errorf("%w (%d bytes)", ErrTooLarge, e.MaxBytes))
	}
	if err := w.Close(); err != nil {
		return fail(err)
	}

	logging.LogAttachment(slot, blob.Name(), blob.MIMEType(), n)

	return &Encoded{
		Name:     blob.Name(),
		MIMEType: blob.MIMEType(),
		Data:     out.String(),
	}, nil
}

// EncodeAll encodes every non-nil blob concurrently and waits for all of
// them. The first failure cancels the other reads and is returned.
func (e *Encoder) EncodeAll(ctx context.Context, blobs map[string]Blob) (map[string]*Encoded, error) {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make(map[string]*Encoded, len(blobs))

	for slot, blob := range blobs {
		if blob == nil {
			continue
		}
		g.Go(func() error {
			encoded, err := e.Encode(gctx, slot, blob)
			if err != nil {
				return err
			}
			mu.Lock()
			results[slot] = encoded
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logging.Warn("Attachment encoding failed", zap.Error(err))
		return nil, err
	}
	return results, nil
}

// contextReader stops reading once ctx is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
