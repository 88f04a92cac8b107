package form

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stmarys-jajpur/admitform/internal/attachment"
)

var testNow = time.Date(2026, 3, 14, 22, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

func payment() attachment.Blob {
	return &attachment.MemoryBlob{FileName: "upi.png", Type: "image/png", Data: []byte("paid")}
}

func TestNewRecord_Defaults(t *testing.T) {
	rec := NewRecord(Admission(), testNow)

	if got := rec.Text("studentName"); got != "" {
		t.Errorf("studentName = %q, want empty", got)
	}
	if rec.Checked(FieldDeclaration) {
		t.Error("declarationAccepted should default to false")
	}
	for _, slot := range []string{"studentPhoto", "fatherSignature", "motherSignature", FieldPayment} {
		if rec.HasAttachment(slot) {
			t.Errorf("%s should default to absent", slot)
		}
	}
	for _, sub := range []string{"name", "admNo", "class"} {
		if got := rec.Nested("sibling2", sub); got != "" {
			t.Errorf("sibling2.%s = %q, want empty", sub, got)
		}
	}

	// 22:30 IST is 17:00 UTC on the same day
	if got := rec.Text(FieldDeclaredDate); got != "2026-03-14" {
		t.Errorf("declarationDate = %q, want 2026-03-14", got)
	}
}

func TestNewRecord_DateUsesUTC(t *testing.T) {
	// 02:00 IST on the 15th is still the 14th in UTC
	early := time.Date(2026, 3, 15, 2, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	rec := NewRecord(SAT(), early)
	if got := rec.Text(FieldDeclaredDate); got != "2026-03-14" {
		t.Errorf("declarationDate = %q, want 2026-03-14", got)
	}
}

func TestRecord_KeysMatchSchema(t *testing.T) {
	for _, schema := range []*Schema{Admission(), SAT()} {
		rec := NewRecord(schema, testNow)
		values := rec.Values()

		if len(values) != len(schema.Fields) {
			t.Errorf("%s: %d values, want %d", schema.Name, len(values), len(schema.Fields))
		}
		for _, key := range rec.Keys() {
			if _, ok := values[key]; !ok {
				t.Errorf("%s: Values() missing key %q", schema.Name, key)
			}
		}
	}
}

func TestRecord_UpdatesPreserveKeySet(t *testing.T) {
	rec := NewRecord(Admission(), testNow)
	before := rec.Keys()

	changes := []Change{
		{Name: "studentName", Value: "A B"},
		{Name: "gender", Value: "Female"},
		{Name: "category", Value: "OBC"},
		{Name: "presentAddress", Value: "Station Road\nJajpur Road"},
		{Name: FieldDeclaration, Checked: true},
		{Name: "notAField", Value: "x"},
		{Name: "gender", Value: "Other"},
	}
	for _, c := range changes {
		_ = rec.Apply(c)
	}
	_ = rec.SetNested("sibling1", "name", "C B")
	_ = rec.SetNested("sibling1", "nickname", "CB")
	_ = rec.SetAttachment(FieldPayment, payment())

	if !reflect.DeepEqual(rec.Keys(), before) {
		t.Errorf("Keys() changed: %v", rec.Keys())
	}
	if len(rec.Values()) != len(before) {
		t.Errorf("Values() has %d keys, want %d", len(rec.Values()), len(before))
	}
	if _, ok := rec.Values()["notAField"]; ok {
		t.Error("unknown field should not be added")
	}
	if rec.Text("gender") != "Female" {
		t.Errorf("gender = %q, rejected option should not overwrite", rec.Text("gender"))
	}
}

func TestRecord_SetOnlyTouchesTarget(t *testing.T) {
	rec := NewRecord(Admission(), testNow)
	_ = rec.Set("fatherName", "F")
	snapshot := rec.Values()

	if err := rec.Set("motherName", "M"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	after := rec.Values()
	for key, want := range snapshot {
		if key == "motherName" {
			continue
		}
		if !reflect.DeepEqual(after[key], want) {
			t.Errorf("%s changed from %v to %v", key, want, after[key])
		}
	}
	if after["motherName"] != "M" {
		t.Errorf("motherName = %v, want M", after["motherName"])
	}
}

func TestRecord_ApplyFlagUsesChecked(t *testing.T) {
	rec := NewRecord(Admission(), testNow)

	if err := rec.Apply(Change{Name: FieldDeclaration, Value: "false", Checked: true}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !rec.Checked(FieldDeclaration) {
		t.Error("declarationAccepted should follow Checked, not Value")
	}

	if err := rec.Apply(Change{Name: FieldDeclaration, Value: "on"}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if rec.Checked(FieldDeclaration) {
		t.Error("declarationAccepted should be false when Checked is false")
	}
}

func TestRecord_Errors(t *testing.T) {
	rec := NewRecord(Admission(), testNow)

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unknown field", rec.Set("favouriteColour", "red"), ErrUnknownField},
		{"invalid choice", rec.Set("category", "Unknown"), ErrInvalidOption},
		{"set on flag", rec.Set(FieldDeclaration, "true"), ErrKindMismatch},
		{"set on attachment", rec.Set(FieldPayment, "x.png"), ErrKindMismatch},
		{"set on group", rec.Apply(Change{Name: "sibling1", Value: "x"}), ErrKindMismatch},
		{"checked on text", rec.SetChecked("studentName", true), ErrKindMismatch},
		{"nested on text", rec.SetNested("studentName", "name", "x"), ErrKindMismatch},
		{"unknown subfield", rec.SetNested("sibling1", "age", "9"), ErrUnknownField},
		{"attachment on text", rec.SetAttachment("studentName", payment()), ErrKindMismatch},
		{"clear on text", rec.ClearAttachment("studentName"), ErrKindMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("error = %v, want %v", tt.err, tt.want)
			}
		})
	}
}

func TestRecord_EmptyChoiceAlwaysValid(t *testing.T) {
	rec := NewRecord(SAT(), testNow)
	_ = rec.Set("gender", "Male")
	if err := rec.Set("gender", ""); err != nil {
		t.Errorf("Set(gender, \"\") error = %v", err)
	}
	if rec.Text("gender") != "" {
		t.Errorf("gender = %q, want empty", rec.Text("gender"))
	}
}

func TestRecord_MaxLengthRefused(t *testing.T) {
	rec := NewRecord(Admission(), testNow)
	if err := rec.Set("aadharNo", "123456789012"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	err := rec.Set("aadharNo", "1234 5678 9012")
	if !errors.Is(err, ErrTooLong) {
		t.Errorf("Set() error = %v, want ErrTooLong", err)
	}
	if got := rec.Text("aadharNo"); got != "123456789012" {
		t.Errorf("aadharNo = %q, want previous value kept", got)
	}
}

func TestRecord_SetNestedIsolated(t *testing.T) {
	rec := NewRecord(Admission(), testNow)
	_ = rec.SetNested("sibling2", "name", "Older")

	if err := rec.SetNested("sibling1", "admNo", "4471"); err != nil {
		t.Fatalf("SetNested() error = %v", err)
	}

	if rec.Nested("sibling1", "admNo") != "4471" {
		t.Errorf("sibling1.admNo = %q, want 4471", rec.Nested("sibling1", "admNo"))
	}
	if rec.Nested("sibling1", "name") != "" {
		t.Error("sibling1.name should be untouched")
	}
	if rec.Nested("sibling2", "name") != "Older" {
		t.Error("sibling2 should be untouched")
	}
	if rec.Nested("sibling2", "admNo") != "" {
		t.Error("sibling2.admNo should be untouched")
	}
}

func TestRecord_Attachments(t *testing.T) {
	rec := NewRecord(Admission(), testNow)

	// nil blob is a no-op
	if err := rec.SetAttachment(FieldPayment, nil); err != nil {
		t.Fatalf("SetAttachment(nil) error = %v", err)
	}
	if rec.HasAttachment(FieldPayment) {
		t.Error("nil blob should not fill the slot")
	}

	first := payment()
	_ = rec.SetAttachment(FieldPayment, first)
	second := &attachment.MemoryBlob{FileName: "retry.png", Type: "image/png"}
	_ = rec.SetAttachment(FieldPayment, second)
	if rec.Attachment(FieldPayment) != attachment.Blob(second) {
		t.Error("SetAttachment should replace the previous blob")
	}

	// Cancelling a picker after a file was chosen keeps the file
	_ = rec.SetAttachment(FieldPayment, nil)
	if rec.Attachment(FieldPayment) != attachment.Blob(second) {
		t.Error("nil blob should leave the existing blob in place")
	}

	blobs := rec.Blobs()
	if len(blobs) != 1 || blobs[FieldPayment] == nil {
		t.Errorf("Blobs() = %v, want only paymentScreenshot", blobs)
	}

	_ = rec.ClearAttachment(FieldPayment)
	if rec.HasAttachment(FieldPayment) {
		t.Error("ClearAttachment should empty the slot")
	}
	if len(rec.Blobs()) != 0 {
		t.Error("Blobs() should be empty after clearing")
	}
}

func TestRecord_Values(t *testing.T) {
	rec := NewRecord(Admission(), testNow)
	_ = rec.Set("studentName", "A B")
	_ = rec.SetChecked(FieldDeclaration, true)
	_ = rec.SetNested("sibling1", "class", "Class 4")
	_ = rec.SetAttachment(FieldPayment, payment())

	v := rec.Values()
	if v["studentName"] != "A B" {
		t.Errorf("studentName = %v", v["studentName"])
	}
	if v[FieldDeclaration] != true {
		t.Errorf("declarationAccepted = %v, want true", v[FieldDeclaration])
	}
	sib, ok := v["sibling1"].(map[string]string)
	if !ok {
		t.Fatalf("sibling1 = %T, want map[string]string", v["sibling1"])
	}
	if sib["class"] != "Class 4" || sib["name"] != "" || len(sib) != 3 {
		t.Errorf("sibling1 = %v", sib)
	}
	if v[FieldPayment] != nil {
		t.Error("attachment slots should be nil placeholders in Values()")
	}
}

func TestRecord_CloneIsDeep(t *testing.T) {
	rec := NewRecord(Admission(), testNow)
	_ = rec.Set("studentName", "A B")
	_ = rec.SetNested("sibling1", "name", "C")

	clone := rec.Clone()
	_ = clone.Set("studentName", "Z")
	_ = clone.SetNested("sibling1", "name", "Y")
	_ = clone.SetAttachment(FieldPayment, payment())

	if rec.Text("studentName") != "A B" {
		t.Error("clone edit leaked into original text")
	}
	if rec.Nested("sibling1", "name") != "C" {
		t.Error("clone edit leaked into original group")
	}
	if rec.HasAttachment(FieldPayment) {
		t.Error("clone edit leaked into original attachments")
	}
}

func TestRecord_MissingRequired(t *testing.T) {
	rec := NewRecord(SAT(), testNow)

	missing := rec.MissingRequired()
	names := make(map[string]bool)
	for _, f := range missing {
		names[f.Name] = true
	}
	for _, want := range []string{FieldClass, FieldStudentName, "dob", "fatherName", FieldEmail, FieldDeclaration} {
		if !names[want] {
			t.Errorf("MissingRequired() should include %s", want)
		}
	}
	if names["religion"] {
		t.Error("optional field should not be reported")
	}

	_ = rec.Set(FieldStudentName, "A B")
	for _, f := range rec.MissingRequired() {
		if f.Name == FieldStudentName {
			t.Error("filled field should no longer be reported")
		}
	}
}
