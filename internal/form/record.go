package form

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/stmarys-jajpur/admitform/internal/attachment"
)

// Sentinel errors returned by record updates
var (
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidOption = errors.New("value is not a valid option")
	ErrKindMismatch  = errors.New("operation does not match field kind")
	ErrTooLong       = errors.New("value is longer than the field allows")
)

// DateLayout is the ISO date format used by date fields
const DateLayout = "2006-01-02"

// Change is a single field edit as issued by a section view.
// Flag fields read Checked; every other kind reads Value.
type Change struct {
	Name    string
	Value   string
	Checked bool
}

// Record is one in-memory form submission.
//
// A record always holds a value for every field of its schema: there is no
// way to add or remove keys, only to change their values.
type Record struct {
	schema *Schema
	text   map[string]string
	flags  map[string]bool
	groups map[string]map[string]string
	blobs  map[string]attachment.Blob
}

// NewRecord creates a record populated with defaults. The schema's date
// field, if any, defaults to now in YYYY-MM-DD form (UTC).
func NewRecord(schema *Schema, now time.Time) *Record {
	r := &Record{
		schema: schema,
		text:   make(map[string]string),
		flags:  make(map[string]bool),
		groups: make(map[string]map[string]string),
		blobs:  make(map[string]attachment.Blob),
	}

	for _, f := range schema.Fields {
		switch f.Kind {
		case KindFlag:
			r.flags[f.Name] = false
		case KindAttachment:
			r.blobs[f.Name] = nil
		case KindGroup:
			group := make(map[string]string, len(f.Subfields))
			for _, sub := range f.Subfields {
				group[sub.Name] = ""
			}
			r.groups[f.Name] = group
		default:
			r.text[f.Name] = ""
		}
	}

	if schema.DateField != "" {
		r.text[schema.DateField] = now.UTC().Format(DateLayout)
	}

	return r
}

// Schema returns the schema this record was created from
func (r *Record) Schema() *Schema {
	return r.schema
}

func (r *Record) field(name string) (*Field, error) {
	f, ok := r.schema.Field(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// Apply merges one change into the record. For flag fields the checked-state
// is used and Value is ignored. No required-field validation happens here.
func (r *Record) Apply(c Change) error {
	f, err := r.field(c.Name)
	if err != nil {
		return err
	}
	if f.Kind == KindFlag {
		r.flags[f.Name] = c.Checked
		return nil
	}
	return r.Set(c.Name, c.Value)
}

// Set updates a text, long text, date or choice field.
// Choice values outside the enumeration are refused and leave the record
// unchanged, as are values longer than the field's MaxLength.
func (r *Record) Set(name, value string) error {
	f, err := r.field(name)
	if err != nil {
		return err
	}
	if !f.Kind.IsText() {
		return fmt.Errorf("%w: %q is a %s field", ErrKindMismatch, name, f.Kind)
	}
	if f.Kind == KindChoice && !f.HasOption(value) {
		return fmt.Errorf("%w: %q for %q", ErrInvalidOption, value, name)
	}
	if n := utf8.RuneCountInString(value); f.MaxLength > 0 && n > f.MaxLength {
		return fmt.Errorf("%w: %q has %d characters, at most %d", ErrTooLong, name, n, f.MaxLength)
	}
	r.text[name] = value
	return nil
}

// SetChecked updates a flag field
func (r *Record) SetChecked(name string, checked bool) error {
	f, err := r.field(name)
	if err != nil {
		return err
	}
	if f.Kind != KindFlag {
		return fmt.Errorf("%w: %q is a %s field", ErrKindMismatch, name, f.Kind)
	}
	r.flags[name] = checked
	return nil
}

// SetNested updates one subfield of a group, leaving every other group and
// field untouched.
func (r *Record) SetNested(group, sub, value string) error {
	f, err := r.field(group)
	if err != nil {
		return err
	}
	if f.Kind != KindGroup {
		return fmt.Errorf("%w: %q is a %s field", ErrKindMismatch, group, f.Kind)
	}
	if _, ok := f.Subfield(sub); !ok {
		return fmt.Errorf("%w: %q in group %q", ErrUnknownField, sub, group)
	}
	r.groups[group][sub] = value
	return nil
}

// SetAttachment places blob in slot, replacing any previous blob.
// A nil blob is a no-op, as when the file picker is cancelled.
func (r *Record) SetAttachment(slot string, blob attachment.Blob) error {
	f, err := r.field(slot)
	if err != nil {
		return err
	}
	if f.Kind != KindAttachment {
		return fmt.Errorf("%w: %q is a %s field", ErrKindMismatch, slot, f.Kind)
	}
	if blob == nil {
		return nil
	}
	r.blobs[slot] = blob
	return nil
}

// ClearAttachment returns slot to the absent state
func (r *Record) ClearAttachment(slot string) error {
	f, err := r.field(slot)
	if err != nil {
		return err
	}
	if f.Kind != KindAttachment {
		return fmt.Errorf("%w: %q is a %s field", ErrKindMismatch, slot, f.Kind)
	}
	r.blobs[slot] = nil
	return nil
}

// Text returns the value of a text-like field ("" for other kinds)
func (r *Record) Text(name string) string {
	return r.text[name]
}

// Checked returns the value of a flag field
func (r *Record) Checked(name string) bool {
	return r.flags[name]
}

// Nested returns one subfield of a group
func (r *Record) Nested(group, sub string) string {
	return r.groups[group][sub]
}

// Attachment returns the blob in slot, or nil when absent
func (r *Record) Attachment(slot string) attachment.Blob {
	return r.blobs[slot]
}

// HasAttachment reports whether slot holds a blob
func (r *Record) HasAttachment(slot string) bool {
	return r.blobs[slot] != nil
}

// Keys returns every key of the record in schema order
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.schema.Fields))
	for _, f := range r.schema.Fields {
		keys = append(keys, f.Name)
	}
	return keys
}

// Clone returns a deep copy. Blobs are shared since they are never mutated.
func (r *Record) Clone() *Record {
	c := &Record{
		schema: r.schema,
		text:   make(map[string]string, len(r.text)),
		flags:  make(map[string]bool, len(r.flags)),
		groups: make(map[string]map[string]string, len(r.groups)),
		blobs:  make(map[string]attachment.Blob, len(r.blobs)),
	}
	for k, v := range r.text {
		c.text[k] = v
	}
	for k, v := range r.flags {
		c.flags[k] = v
	}
	for k, g := range r.groups {
		cg := make(map[string]string, len(g))
		for sk, sv := range g {
			cg[sk] = sv
		}
		c.groups[k] = cg
	}
	for k, v := range r.blobs {
		c.blobs[k] = v
	}
	return c
}

// Values returns the record as a JSON-ready map. Attachment slots are nil;
// the submission pipeline replaces present ones with their encoded form.
func (r *Record) Values() map[string]any {
	out := make(map[string]any, len(r.schema.Fields))
	for _, f := range r.schema.Fields {
		switch f.Kind {
		case KindFlag:
			out[f.Name] = r.flags[f.Name]
		case KindAttachment:
			out[f.Name] = nil
		case KindGroup:
			group := make(map[string]string, len(f.Subfields))
			for _, sub := range f.Subfields {
				group[sub.Name] = r.groups[f.Name][sub.Name]
			}
			out[f.Name] = group
		default:
			out[f.Name] = r.text[f.Name]
		}
	}
	return out
}

// Blobs returns the present attachments keyed by slot
func (r *Record) Blobs() map[string]attachment.Blob {
	out := make(map[string]attachment.Blob)
	for slot, blob := range r.blobs {
		if blob != nil {
			out[slot] = blob
		}
	}
	return out
}

// MissingRequired lists required fields that are still empty, in schema
// order. It is advisory and never blocks navigation.
func (r *Record) MissingRequired() []Field {
	var missing []Field
	for _, f := range r.schema.Fields {
		if !f.Required {
			continue
		}
		var empty bool
		switch f.Kind {
		case KindFlag:
			empty = !r.flags[f.Name]
		case KindAttachment:
			empty = r.blobs[f.Name] == nil
		case KindGroup:
			empty = true
			for _, v := range r.groups[f.Name] {
				if v != "" {
					empty = false
					break
				}
			}
		default:
			empty = r.text[f.Name] == ""
		}
		if empty {
			missing = append(missing, f)
		}
	}
	return missing
}
