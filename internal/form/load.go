package form

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stmarys-jajpur/admitform/internal/attachment"
)

// LoadRecordFile builds a record from a YAML file of field values:
//
//	studentName: "A B"
//	classApplyingFor: Class 5
//	sibling1:
//	  name: C B
//	  admNo: "4471"
//	paymentScreenshot: receipts/upi.png
//	declarationAccepted: true
//
// Attachment values are file paths, resolved relative to the record file.
// Scalars are taken verbatim, so "0674" stays a string with its leading zero.
// Fields not mentioned keep their defaults.
func LoadRecordFile(schema *Schema, path string, now time.Time) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse record file: %w", err)
	}

	rec := NewRecord(schema, now)
	baseDir := filepath.Dir(path)

	// Walk in schema order so errors are reported deterministically
	for _, name := range append(rec.Keys(), unknownKeys(schema, doc)...) {
		node, ok := doc[name]
		if !ok {
			continue
		}
		if err := applyNode(rec, baseDir, name, &node); err != nil {
			return nil, fmt.Errorf("%s: field %q: %w", path, name, err)
		}
	}

	return rec, nil
}

func unknownKeys(schema *Schema, doc map[string]yaml.Node) []string {
	var names []string
	for name := range doc {
		if _, ok := schema.Field(name); !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func applyNode(rec *Record, baseDir, name string, node *yaml.Node) error {
	f, err := rec.field(name)
	if err != nil {
		return err
	}

	switch f.Kind {
	case KindFlag:
		var checked bool
		if err := node.Decode(&checked); err != nil {
			return fmt.Errorf("expected true or false: %w", err)
		}
		return rec.SetChecked(name, checked)

	case KindGroup:
		var sub map[string]yaml.Node
		if err := node.Decode(&sub); err != nil {
			return fmt.Errorf("expected a mapping: %w", err)
		}
		for key, v := range sub {
			if v.Kind != yaml.ScalarNode {
				return fmt.Errorf("subfield %q must be a scalar", key)
			}
			if err := rec.SetNested(name, key, v.Value); err != nil {
				return err
			}
		}
		return nil

	case KindAttachment:
		if node.Kind != yaml.ScalarNode {
			return fmt.Errorf("expected a file path")
		}
		if node.Value == "" || node.Tag == "!!null" {
			return nil
		}
		p := node.Value
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		blob, err := attachment.NewFileBlob(p)
		if err != nil {
			return err
		}
		return rec.SetAttachment(name, blob)

	default:
		if node.Kind != yaml.ScalarNode {
			return fmt.Errorf("expected a scalar value")
		}
		value := node.Value
		if node.Tag == "!!null" {
			value = ""
		}
		return rec.Set(name, value)
	}
}
