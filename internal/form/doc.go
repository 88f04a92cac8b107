// Package form defines the shape of an admission record and its partition
// into wizard sections.
//
// A Schema is declarative: an ordered list of fields, an ordered list of
// sections each owning a disjoint subset of those fields, a gate table keyed
// by section index, and the rule deciding when a record may be submitted.
// Two variants ship with the package:
//
//   - Admission: the full admission form with photo, signatures and the
//     fee payment screenshot. Section 3 (Payment) is gated on the screenshot.
//   - SAT: the admission test registration, a reduced subset with no
//     attachments and no gates.
//
// # Records
//
// A Record is created fully populated from its schema and is only ever
// changed through field-level updates:
//
//	rec := form.NewRecord(form.Admission(), time.Now())
//	_ = rec.Set("studentName", "A B")
//	_ = rec.Apply(form.Change{Name: "declarationAccepted", Checked: true})
//	_ = rec.SetNested("sibling1", "admNo", "4471")
//
// Choice fields are closed enumerations; the empty string is always a valid
// member. Attachment slots hold nil or exactly one attachment.Blob.
package form
