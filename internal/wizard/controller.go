// Package wizard holds the section-by-section state machine behind the
// admission form. It knows nothing about rendering; the terminal UI in
// wizard/tui drives it.
package wizard

import (
	"time"

	"github.com/stmarys-jajpur/admitform/internal/attachment"
	"github.com/stmarys-jajpur/admitform/internal/form"
)

// Controller owns the record being edited and the active section index.
// It is the only mutation surface for both. Not safe for concurrent use;
// edits come from a single UI loop.
type Controller struct {
	schema *form.Schema
	record *form.Record
	active int
	now    func() time.Time
}

// Option configures a Controller
type Option func(*Controller)

// WithClock sets the clock used for record defaults (the declaration date)
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New creates a controller at section 0 with a fresh default record
func New(schema *form.Schema, opts ...Option) *Controller {
	c := &Controller{
		schema: schema,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()
	return c
}

// Reset discards the record and returns to the first section
func (c *Controller) Reset() {
	c.record = form.NewRecord(c.schema, c.now())
	c.active = 0
}

// UpdateField sets a text-like field. Flags must use SetChecked.
func (c *Controller) UpdateField(name, value string) error {
	return c.record.Set(name, value)
}

// SetChecked sets a flag field from a checked-state
func (c *Controller) SetChecked(name string, checked bool) error {
	return c.record.SetChecked(name, checked)
}

// Apply merges a single change, coercing flags from Checked
func (c *Controller) Apply(change form.Change) error {
	return c.record.Apply(change)
}

// UpdateNestedField sets one subfield of a nested record
func (c *Controller) UpdateNestedField(container, subfield, value string) error {
	return c.record.SetNested(container, subfield, value)
}

// SetAttachment fills slot with blob. A nil blob is ignored.
func (c *Controller) SetAttachment(slot string, blob attachment.Blob) error {
	return c.record.SetAttachment(slot, blob)
}

// ClearAttachment empties slot
func (c *Controller) ClearAttachment(slot string) error {
	return c.record.ClearAttachment(slot)
}

// Blocked reports whether the active section's gate refuses advancing,
// and the reason to show next to the disabled control.
func (c *Controller) Blocked() (string, bool) {
	gate, ok := c.schema.Gate(c.active)
	if !ok || gate.Allow(c.record) {
		return "", false
	}
	return gate.Reason, true
}

// CanAdvance reports whether GoNext would move
func (c *Controller) CanAdvance() bool {
	if c.IsLast() {
		return false
	}
	_, blocked := c.Blocked()
	return !blocked
}

// GoNext advances one section. It is refused when the active section is
// gated and its condition does not hold, and clamps at the last section.
// Returns whether the index changed.
func (c *Controller) GoNext() bool {
	if !c.CanAdvance() {
		return false
	}
	c.active++
	return true
}

// GoPrevious moves back one section, clamped at zero. Never gated.
func (c *Controller) GoPrevious() bool {
	if c.active == 0 {
		return false
	}
	c.active--
	return true
}

// IsSubmittable reports whether the record may be submitted
func (c *Controller) IsSubmittable() bool {
	return c.schema.Submittable(c.record)
}

// SubmitBlocker explains why the record is not submittable ("" if it is)
func (c *Controller) SubmitBlocker() string {
	return c.schema.SubmitBlocker(c.record)
}

// Active returns the active section index
func (c *Controller) Active() int {
	return c.active
}

// Section returns the active section
func (c *Controller) Section() *form.Section {
	sec, _ := c.schema.Section(c.active)
	return sec
}

// IsFirst reports whether the first section is active
func (c *Controller) IsFirst() bool {
	return c.active == 0
}

// IsLast reports whether the last section is active
func (c *Controller) IsLast() bool {
	return c.active >= len(c.schema.Sections)-1
}

// Record returns the live record. Callers that hand it to background work
// should Clone it first.
func (c *Controller) Record() *form.Record {
	return c.record
}

// Schema returns the form schema
func (c *Controller) Schema() *form.Schema {
	return c.schema
}
