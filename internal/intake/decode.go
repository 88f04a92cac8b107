package intake

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stmarys-jajpur/admitform/internal/attachment"
	"github.com/stmarys-jajpur/admitform/internal/form"
)

// decodeSubmission parses a submission body into a row. Attachment objects
// must carry valid base64 data; their bytes are returned keyed by field.
func decodeSubmission(body []byte) (*Row, map[string][]byte, error) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, nil, fmt.Errorf("body is not a JSON object: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil, fmt.Errorf("empty submission")
	}

	files := make(map[string][]byte)
	row := &Row{Fields: fields}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		obj, ok := fields[name].(map[string]any)
		if !ok || !isAttachment(obj) {
			continue
		}

		enc := attachment.Encoded{
			Name:     stringValue(obj["name"]),
			MIMEType: stringValue(obj["mimeType"]),
			Data:     stringValue(obj["data"]),
		}
		if strings.HasPrefix(enc.Data, "data:") {
			return nil, nil, fmt.Errorf("field %q: data must not carry a data: URI prefix", name)
		}
		data, err := enc.Decode()
		if err != nil {
			return nil, nil, fmt.Errorf("field %q: invalid base64 data", name)
		}

		files[name] = data
		row.Files = append(row.Files, StoredFile{
			Field:    name,
			Name:     enc.Name,
			MIMEType: enc.MIMEType,
			Size:     len(data),
		})
	}

	row.StudentName = stringValue(fields[form.FieldStudentName])
	row.Class = stringValue(fields[form.FieldClass])
	row.Email = stringValue(fields[form.FieldEmail])
	row.Form = detectForm(fields)

	return row, files, nil
}

// isAttachment reports whether obj has the {name, mimeType, data} shape
func isAttachment(obj map[string]any) bool {
	_, hasData := obj["data"].(string)
	_, hasType := obj["mimeType"].(string)
	return hasData && hasType
}

// detectForm infers the variant from the keys present. Only the admission
// form carries a payment slot.
func detectForm(fields map[string]any) string {
	if _, ok := fields[form.FieldPayment]; ok {
		return "admission"
	}
	return "sat"
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// writeUploads stores the files of row under dir, named after the row id
// and field, and records their paths.
func writeUploads(dir string, row *Row, files map[string][]byte) error {
	if dir == "" || len(files) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	for i := range row.Files {
		f := &row.Files[i]
		name := fmt.Sprintf("%s-%s%s", row.ID, f.Field, extensionFor(f))
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, files[f.Field], 0640); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		f.Path = path
	}
	return nil
}

// removeUploads deletes files written for a row that was not stored
func removeUploads(row *Row) {
	for _, f := range row.Files {
		if f.Path != "" {
			_ = os.Remove(f.Path)
		}
	}
}

func extensionFor(f *StoredFile) string {
	if ext := filepath.Ext(filepath.Base(f.Name)); ext != "" {
		return strings.ToLower(ext)
	}
	if exts, _ := mime.ExtensionsByType(f.MIMEType); len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
