package submission

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/stmarys-jajpur/admitform/internal/attachment"
	"github.com/stmarys-jajpur/admitform/internal/form"
	"github.com/stmarys-jajpur/admitform/internal/logging"
)

// Submitter performs one submission of a record
type Submitter interface {
	Submit(ctx context.Context, rec *form.Record) (*Response, error)
}

// Pipeline turns a record into a single POST: it checks the submission
// gate, encodes attachments, serializes the payload and interprets the
// answer.
type Pipeline struct {
	client  *Client
	encoder *attachment.Encoder

	// Timeout bounds encoding plus the network call (0 = no extra bound)
	Timeout time.Duration
}

// NewPipeline creates a pipeline posting through client
func NewPipeline(client *Client, encoder *attachment.Encoder) *Pipeline {
	if encoder == nil {
		encoder = attachment.NewEncoder()
	}
	return &Pipeline{
		client:  client,
		encoder: encoder,
		Timeout: DefaultTimeout,
	}
}

// Endpoint returns the configured endpoint URL
func (p *Pipeline) Endpoint() string {
	return p.client.EndpointURL
}

// BuildPayload serializes rec. Present attachments are replaced by their
// encoded form and absent ones are null. rec is only read.
func (p *Pipeline) BuildPayload(ctx context.Context, rec *form.Record) ([]byte, error) {
	encoded, err := p.encoder.EncodeAll(ctx, rec.Blobs())
	if err != nil {
		return nil, err
	}

	values := rec.Values()
	for slot, enc := range encoded {
		values[slot] = enc
	}

	return json.Marshal(values)
}

// Submit checks that rec is submittable, then builds and posts the payload
// exactly once. The record is never modified, so a failed attempt can be
// repeated without re-entering data.
func (p *Pipeline) Submit(ctx context.Context, rec *form.Record) (*Response, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	body, err := p.Prepare(ctx, rec)
	if err != nil {
		return nil, err
	}
	return p.Send(ctx, rec.Schema().Name, body)
}

// Prepare checks that rec is submittable and builds its payload without
// posting it. Encoding is bounded by Timeout.
func (p *Pipeline) Prepare(ctx context.Context, rec *form.Record) ([]byte, error) {
	schema := rec.Schema()
	if !schema.Submittable(rec) {
		return nil, NewValidationError(schema.SubmitBlocker(rec))
	}
	if err := ValidateEndpoint(p.client.EndpointURL); err != nil {
		return nil, err
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	start := time.Now()
	body, err := p.BuildPayload(ctx, rec)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = NewNetworkError("timed out while reading attachments", err)
		} else {
			err = NewAttachmentError(err)
		}
		logging.LogSubmission(p.client.EndpointURL, schema.Name, 0, time.Since(start), err)
		return nil, err
	}
	return body, nil
}

// Send posts a payload built by Prepare exactly once, bounded by Timeout.
// formName is only used for logging.
func (p *Pipeline) Send(ctx context.Context, formName string, body []byte) (*Response, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := p.client.Post(ctx, body)
	logging.LogSubmission(p.client.EndpointURL, formName, len(body), time.Since(start), err)
	return resp, err
}
