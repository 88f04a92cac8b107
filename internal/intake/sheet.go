package intake

import (
	"errors"
	"sync"
	"time"
)

// SheetFullMessage is the rejection text sent once capacity is reached
const SheetFullMessage = "Sheet full"

// ErrSheetFull is returned by Append when the sheet has no room left
var ErrSheetFull = errors.New("sheet full")

// StoredFile is an attachment received with a row
type StoredFile struct {
	Field    string `json:"field"`
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Size     int    `json:"size"`
	Path     string `json:"path,omitempty"` // Set when uploads are written to disk
}

// Row is one accepted submission
type Row struct {
	Number      int            `json:"row"`
	ID          string         `json:"id"`
	Form        string         `json:"form"`
	Received    time.Time      `json:"received"`
	StudentName string         `json:"studentName"`
	Class       string         `json:"class"`
	Email       string         `json:"email"`
	Fields      map[string]any `json:"-"`
	Files       []StoredFile   `json:"files,omitempty"`
}

// Sheet is an in-memory, append-only row store
type Sheet struct {
	mu       sync.RWMutex
	capacity int
	rows     []*Row
}

// NewSheet creates a sheet holding at most capacity rows (0 = unbounded)
func NewSheet(capacity int) *Sheet {
	return &Sheet{capacity: capacity}
}

// Append stores row and assigns its 1-based row number
func (s *Sheet) Append(row *Row) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capacity > 0 && len(s.rows) >= s.capacity {
		return 0, ErrSheetFull
	}
	row.Number = len(s.rows) + 1
	s.rows = append(s.rows, row)
	return row.Number, nil
}

// Rows returns a copy of the stored rows in arrival order
func (s *Sheet) Rows() []*Row {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Len returns the number of stored rows
func (s *Sheet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Capacity returns the row limit (0 = unbounded)
func (s *Sheet) Capacity() int {
	return s.capacity
}
