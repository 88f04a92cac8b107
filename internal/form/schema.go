package form

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies how a field is edited and how it appears in the payload
type Kind int

const (
	KindText       Kind = iota // Single-line string
	KindLongText               // Multi-line string (addresses)
	KindDate                   // ISO date string, YYYY-MM-DD
	KindChoice                 // Closed enumeration; "" is always a member
	KindFlag                   // Boolean set from a checked-state
	KindAttachment             // Absent or exactly one blob
	KindGroup                  // Nested record of string subfields
)

var kindNames = map[Kind]string{
	KindText:       "text",
	KindLongText:   "longtext",
	KindDate:       "date",
	KindChoice:     "choice",
	KindFlag:       "flag",
	KindAttachment: "attachment",
	KindGroup:      "group",
}

// String returns the lower-case kind name
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsText reports whether values of this kind are plain strings
func (k Kind) IsText() bool {
	return k == KindText || k == KindLongText || k == KindDate || k == KindChoice
}

// Subfield is one string member of a group field
type Subfield struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Field describes one key of the record
type Field struct {
	Name        string     `json:"name"`
	Label       string     `json:"label"`
	Kind        Kind       `json:"kind"`
	Required    bool       `json:"required,omitempty"` // Display hint only, never enforced on edit
	Placeholder string     `json:"placeholder,omitempty"`
	MaxLength   int        `json:"maxLength,omitempty"` // Longest accepted value in runes (0 = unlimited)
	Options     []string   `json:"options,omitempty"`   // KindChoice members besides ""
	Subfields   []Subfield `json:"subfields,omitempty"` // KindGroup members
	Accept      string     `json:"accept,omitempty"`    // KindAttachment MIME pattern, e.g. "image/*"
}

// HasOption reports whether value is a member of a choice field.
// The empty string is always a member.
func (f *Field) HasOption(value string) bool {
	if value == "" {
		return true
	}
	for _, opt := range f.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// Accepts reports whether an attachment of mimeType matches the field's
// Accept pattern. An empty pattern accepts everything.
func (f *Field) Accepts(mimeType string) bool {
	if f.Accept == "" {
		return true
	}
	mimeType = strings.ToLower(mimeType)
	for _, pattern := range strings.Split(f.Accept, ",") {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if strings.HasPrefix(mimeType, prefix+"/") {
				return true
			}
		} else if pattern == mimeType {
			return true
		}
	}
	return false
}

// Subfield returns the named subfield of a group field
func (f *Field) Subfield(name string) (*Subfield, bool) {
	for i := range f.Subfields {
		if f.Subfields[i].Name == name {
			return &f.Subfields[i], true
		}
	}
	return nil, false
}

// Section is a named, ordered subset of the record's fields
type Section struct {
	ID      int      `json:"id"`      // Ordinal position
	Title   string   `json:"title"`   // Short navigation label
	Icon    string   `json:"icon"`    // Icon reference, e.g. "credit-card"
	Heading string   `json:"heading"` // Page heading
	Fields  []string `json:"fields"`
	Notes   []string `json:"notes,omitempty"` // Static guidance shown above the fields
}

// Gate is a predicate that must hold before the wizard advances past a section
type Gate struct {
	Reason string
	Allow  func(*Record) bool
}

// Schema declares one form variant: its fields, their partition into
// sections, and the rules for advancing and submitting.
type Schema struct {
	Name      string `json:"name"`  // Variant key, e.g. "admission"
	Title     string `json:"title"` // Form heading
	Noun      string `json:"noun"`  // "application" or "registration"
	RefPrefix string `json:"refPrefix,omitempty"`
	RefLabel  string `json:"refLabel"` // Label for the receipt reference

	SuccessTitle string `json:"successTitle"`
	SuccessNote  string `json:"successNote"` // "{email}" is replaced with the applicant's email

	Fields   []Field      `json:"fields"`
	Sections []Section    `json:"sections"`
	Gates    map[int]Gate `json:"-"`

	RequiredAttachments []string `json:"requiredAttachments,omitempty"`
	DeclarationField    string   `json:"declarationField"`
	DateField           string   `json:"dateField,omitempty"` // Defaults to the creation date
}

// Field returns the field definition for name
func (s *Schema) Field(name string) (*Field, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// Section returns the section at index i
func (s *Schema) Section(i int) (*Section, bool) {
	if i < 0 || i >= len(s.Sections) {
		return nil, false
	}
	return &s.Sections[i], true
}

// SectionOf returns the index of the section owning field, or -1
func (s *Schema) SectionOf(field string) int {
	for _, sec := range s.Sections {
		for _, name := range sec.Fields {
			if name == field {
				return sec.ID
			}
		}
	}
	return -1
}

// Gate returns the gate of section i, if any
func (s *Schema) Gate(i int) (Gate, bool) {
	g, ok := s.Gates[i]
	return g, ok && g.Allow != nil
}

// Attachments returns the names of all attachment fields in record order
func (s *Schema) Attachments() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Kind == KindAttachment {
			names = append(names, f.Name)
		}
	}
	return names
}

// Submittable reports whether rec may be handed to the submission pipeline:
// the declaration is accepted and every required attachment is present.
func (s *Schema) Submittable(rec *Record) bool {
	if rec == nil || !rec.Checked(s.DeclarationField) {
		return false
	}
	for _, slot := range s.RequiredAttachments {
		if !rec.HasAttachment(slot) {
			return false
		}
	}
	return true
}

// SubmitBlocker explains why rec is not submittable.
// Returns "" when it is.
func (s *Schema) SubmitBlocker(rec *Record) string {
	if rec == nil || !rec.Checked(s.DeclarationField) {
		return "You must accept the declaration to submit the form."
	}
	for _, slot := range s.RequiredAttachments {
		if !rec.HasAttachment(slot) {
			label := slot
			if f, ok := s.Field(slot); ok {
				label = f.Label
			}
			return fmt.Sprintf("%s is required.", label)
		}
	}
	return ""
}

// Validate checks that the schema is internally consistent
func (s *Schema) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			errs = append(errs, errors.New("field with empty name"))
			continue
		}
		if seen[f.Name] {
			errs = append(errs, fmt.Errorf("duplicate field %q", f.Name))
		}
		seen[f.Name] = true

		switch f.Kind {
		case KindChoice:
			if len(f.Options) == 0 {
				errs = append(errs, fmt.Errorf("choice field %q has no options", f.Name))
			}
		case KindGroup:
			if len(f.Subfields) == 0 {
				errs = append(errs, fmt.Errorf("group field %q has no subfields", f.Name))
			}
		}
	}

	owner := make(map[string]int, len(s.Fields))
	for i, sec := range s.Sections {
		if sec.ID != i {
			errs = append(errs, fmt.Errorf("section %q has id %d at position %d", sec.Title, sec.ID, i))
		}
		for _, name := range sec.Fields {
			if !seen[name] {
				errs = append(errs, fmt.Errorf("section %q references unknown field %q", sec.Title, name))
				continue
			}
			if prev, dup := owner[name]; dup {
				errs = append(errs, fmt.Errorf("field %q appears in sections %d and %d", name, prev, i))
			}
			owner[name] = i
		}
	}
	for _, f := range s.Fields {
		if _, ok := owner[f.Name]; !ok {
			errs = append(errs, fmt.Errorf("field %q belongs to no section", f.Name))
		}
	}

	for id := range s.Gates {
		if id < 0 || id >= len(s.Sections) {
			errs = append(errs, fmt.Errorf("gate references missing section %d", id))
		}
	}

	if f, ok := s.Field(s.DeclarationField); !ok || f.Kind != KindFlag {
		errs = append(errs, fmt.Errorf("declaration field %q must be a flag", s.DeclarationField))
	}
	if s.DateField != "" {
		if f, ok := s.Field(s.DateField); !ok || f.Kind != KindDate {
			errs = append(errs, fmt.Errorf("date field %q must be a date", s.DateField))
		}
	}
	for _, slot := range s.RequiredAttachments {
		if f, ok := s.Field(slot); !ok || f.Kind != KindAttachment {
			errs = append(errs, fmt.Errorf("required attachment %q is not an attachment field", slot))
		}
	}

	return errors.Join(errs...)
}
