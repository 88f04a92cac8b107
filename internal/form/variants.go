package form

import (
	"fmt"
	"sort"
)

// Option sets shared by both variants
var (
	GenderOptions   = []string{"Male", "Female"}
	CategoryOptions = []string{"General", "SC", "ST", "OBC", "Others"}
	ClassOptions    = []string{
		"Nursery", "LKG", "UKG",
		"Class 1", "Class 2", "Class 3", "Class 4", "Class 5",
		"Class 6", "Class 7", "Class 8", "Class 9",
		"Class 11",
	}
)

// DeclarationText is the statement the applicant accepts
const DeclarationText = "I, declare the above said information is true to the best of my knowledge " +
	"and I shall abide by the rules & regulations of the school."

// Field names referenced outside the schema definitions
const (
	FieldClass        = "classApplyingFor"
	FieldStudentName  = "studentName"
	FieldEmail        = "email"
	FieldPayment      = "paymentScreenshot"
	FieldDeclaration  = "declarationAccepted"
	FieldDeclaredDate = "declarationDate"
)

var variants = map[string]func() *Schema{
	"admission": Admission,
	"sat":       SAT,
}

// Variants returns the known variant names, sorted
func Variants() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a fresh schema for the named variant
func Lookup(name string) (*Schema, error) {
	build, ok := variants[name]
	if !ok {
		return nil, fmt.Errorf("unknown form variant %q (valid: %v)", name, Variants())
	}
	return build(), nil
}

// studentFields are common to both variants
func studentFields() []Field {
	return []Field{
		{Name: FieldClass, Label: "Class Applying For", Kind: KindChoice, Required: true, Placeholder: "Select Class", Options: ClassOptions},
		{Name: FieldStudentName, Label: "Name of the Child", Kind: KindText, Required: true, Placeholder: "IN CAPITAL LETTERS"},
		{Name: "aadharNo", Label: "Aadhar No", Kind: KindText, Placeholder: "12-digit number", MaxLength: 12},
		{Name: "gender", Label: "Gender", Kind: KindChoice, Options: GenderOptions},
		{Name: "dob", Label: "Date of Birth", Kind: KindDate, Required: true, Placeholder: "YYYY-MM-DD"},
		{Name: "age", Label: "Age (as on 1st April)", Kind: KindText},
		{Name: "motherTongue", Label: "Mother Tongue", Kind: KindText},
		{Name: "religion", Label: "Religion", Kind: KindText},
		{Name: "category", Label: "Category", Kind: KindChoice, Placeholder: "Select Category", Options: CategoryOptions},
	}
}

func declarationFields() []Field {
	return []Field{
		{Name: FieldDeclaredDate, Label: "Date", Kind: KindDate, Placeholder: "YYYY-MM-DD"},
		{Name: FieldDeclaration, Label: "I hereby accept the declaration above and confirm that all information provided is accurate.", Kind: KindFlag, Required: true},
	}
}

func siblingSubfields(n int) []Subfield {
	return []Subfield{
		{Name: "name", Label: "Name", Placeholder: fmt.Sprintf("Sibling %d Name", n)},
		{Name: "admNo", Label: "Adm No.", Placeholder: "Adm No."},
		{Name: "class", Label: "Class", Placeholder: "Class"},
	}
}

// Admission returns the full admission form: student, parents, contact and
// address, fee payment with proof, then siblings and the declaration.
func Admission() *Schema {
	var fields []Field
	fields = append(fields, studentFields()[:1]...)
	fields = append(fields, Field{Name: "studentPhoto", Label: "Child's Photograph", Kind: KindAttachment, Accept: "image/*"})
	fields = append(fields, studentFields()[1:]...)
	fields = append(fields,
		Field{Name: "fatherName", Label: "Father's Name", Kind: KindText, Required: true},
		Field{Name: "motherName", Label: "Mother's Name", Kind: KindText, Required: true},
		Field{Name: "fatherAadhar", Label: "Father's Aadhar No", Kind: KindText, MaxLength: 12},
		Field{Name: "motherAadhar", Label: "Mother's Aadhar No", Kind: KindText, MaxLength: 12},
		Field{Name: "fatherMobile", Label: "Father's Mobile", Kind: KindText, Required: true},
		Field{Name: "motherMobile", Label: "Mother's Mobile", Kind: KindText},
		Field{Name: FieldEmail, Label: "E-Mail ID", Kind: KindText, Required: true},
		Field{Name: "fatherQualification", Label: "Father's Qualification", Kind: KindText},
		Field{Name: "motherQualification", Label: "Mother's Qualification", Kind: KindText},
		Field{Name: "fatherOccupation", Label: "Father's Occupation", Kind: KindText},
		Field{Name: "motherOccupation", Label: "Mother's Occupation", Kind: KindText},
		Field{Name: "presentAddress", Label: "Present Address", Kind: KindLongText, Required: true, Placeholder: "Full address for correspondence"},
		Field{Name: "permanentAddress", Label: "Permanent Address", Kind: KindLongText, Required: true, Placeholder: "Permanent residence address"},
		Field{Name: "sibling1", Label: "Sibling 1", Kind: KindGroup, Subfields: siblingSubfields(1)},
		Field{Name: "sibling2", Label: "Sibling 2", Kind: KindGroup, Subfields: siblingSubfields(2)},
		Field{Name: FieldPayment, Label: "Payment Screenshot", Kind: KindAttachment, Required: true, Accept: "image/*"},
		Field{Name: "fatherSignature", Label: "Father's Signature", Kind: KindAttachment},
		Field{Name: "motherSignature", Label: "Mother's Signature", Kind: KindAttachment},
	)
	fields = append(fields, declarationFields()...)

	return &Schema{
		Name:         "admission",
		Title:        "Admission Form 2026-27",
		Noun:         "application",
		RefLabel:     "Ref ID",
		SuccessTitle: "Application Submitted!",
		SuccessNote:  "A confirmation email will be sent shortly.",
		Fields:       fields,
		Sections: []Section{
			{
				ID: 0, Title: "Student", Icon: "user", Heading: "Student Profile",
				Fields: []string{FieldStudentName, FieldClass, "aadharNo", "dob", "age", "gender", "motherTongue", "religion", "category", "studentPhoto"},
			},
			{
				ID: 1, Title: "Parents", Icon: "users", Heading: "Parental Information",
				Fields: []string{
					"fatherName", "fatherAadhar", "fatherQualification", "fatherOccupation",
					"motherName", "motherAadhar", "motherQualification", "motherOccupation",
				},
			},
			{
				ID: 2, Title: "Address", Icon: "map-pin", Heading: "Contact & Address",
				Fields: []string{"fatherMobile", "motherMobile", FieldEmail, "presentAddress", "permanentAddress"},
			},
			{
				ID: 3, Title: "Payment", Icon: "credit-card", Heading: "Application Fee Payment",
				Fields: []string{FieldPayment},
				Notes: []string{
					"Scan the QR code to pay the application fee of ₹500.",
					"Complete the payment using any UPI app.",
					"Take a screenshot of the Payment Success screen.",
					"Upload the screenshot below as proof of payment.",
				},
			},
			{
				ID: 4, Title: "Submit", Icon: "file-text", Heading: "Other Details & Declaration",
				Fields: []string{"sibling1", "sibling2", FieldDeclaration, "fatherSignature", "motherSignature", FieldDeclaredDate},
				Notes:  []string{DeclarationText},
			},
		},
		Gates: map[int]Gate{
			3: {
				Reason: "Payment proof is required to proceed.",
				Allow:  func(r *Record) bool { return r.HasAttachment(FieldPayment) },
			},
		},
		RequiredAttachments: []string{FieldPayment},
		DeclarationField:    FieldDeclaration,
		DateField:           FieldDeclaredDate,
	}
}

// SAT returns the admission test registration form: the student profile,
// one guardian contact block and the declaration. It carries no attachments.
func SAT() *Schema {
	var fields []Field
	fields = append(fields, studentFields()...)
	fields = append(fields,
		Field{Name: "fatherName", Label: "Father's Name", Kind: KindText, Required: true},
		Field{Name: "motherName", Label: "Mother's Name", Kind: KindText, Required: true},
		Field{Name: "fatherMobile", Label: "Father's Mobile", Kind: KindText, Required: true},
		Field{Name: FieldEmail, Label: "E-Mail ID", Kind: KindText, Required: true},
	)
	fields = append(fields, declarationFields()...)

	return &Schema{
		Name:         "sat",
		Title:        "SAT Registration 2026-27",
		Noun:         "registration",
		RefPrefix:    "SAT-",
		RefLabel:     "Registration ID",
		SuccessTitle: "SAT Registration Complete!",
		SuccessNote:  "Your SAT admit card will be sent to {email} before the exam date.",
		Fields:       fields,
		Sections: []Section{
			{
				ID: 0, Title: "Student", Icon: "user", Heading: "Student Profile",
				Fields: []string{FieldStudentName, FieldClass, "aadharNo", "dob", "age", "gender", "motherTongue", "religion", "category"},
			},
			{
				ID: 1, Title: "Contact", Icon: "phone", Heading: "Parent Contact",
				Fields: []string{"fatherName", "motherName", "fatherMobile", FieldEmail},
			},
			{
				ID: 2, Title: "Submit", Icon: "file-text", Heading: "Declaration",
				Fields: []string{FieldDeclaration, FieldDeclaredDate},
				Notes:  []string{DeclarationText},
			},
		},
		DeclarationField: FieldDeclaration,
		DateField:        FieldDeclaredDate,
	}
}
