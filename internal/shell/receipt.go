package shell

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stmarys-jajpur/admitform/internal/form"
)

// refLength is the number of characters in a generated reference
const refLength = 9

// Receipt is what the applicant sees after an accepted submission
type Receipt struct {
	RefID       string `json:"refId"`
	Date        string `json:"date"`
	StudentName string `json:"studentName"`
	Class       string `json:"class"`
	Email       string `json:"email"`
	Noun        string `json:"noun"`
}

// NewReceipt builds the receipt for rec, stamped at now
func NewReceipt(rec *form.Record, now time.Time) Receipt {
	schema := rec.Schema()
	return Receipt{
		RefID:       schema.RefPrefix + NewRefID(),
		Date:        now.Format("02 Jan 2006"),
		StudentName: rec.Text(form.FieldStudentName),
		Class:       rec.Text(form.FieldClass),
		Email:       rec.Text(form.FieldEmail),
		Noun:        schema.Noun,
	}
}

// NewRefID returns nine upper-case alphanumerics taken from a random UUID
func NewRefID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(id[:refLength])
}

// Note renders the schema's success note for this receipt
func (r Receipt) Note(schema *form.Schema) string {
	email := r.Email
	if email == "" {
		email = "your email"
	}
	return strings.ReplaceAll(schema.SuccessNote, "{email}", email)
}
