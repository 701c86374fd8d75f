package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

// dateValue keeps the literal text of a date whether it was written as a string or a number.
type dateValue string

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *dateValue) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", n.Line)
	}
	*d = dateValue(n.Value)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *dateValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*d = ""
	case b[0] == '"':
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = dateValue(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		*d = dateValue(b)
	default:
		return fmt.Errorf("date must be a string or a number, got %s", b)
	}
	return nil
}

func decodeYAML(r io.Reader) ([]rawEvent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		var raws []rawEvent
		if err := root.Decode(&raws); err != nil {
			return nil, fmt.Errorf("error parsing YAML: %w", err)
		}
		return raws, nil
	}
	var file eventFile
	if err := root.Decode(&file); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	return file.Events, nil
}

func decodeJSON(r io.Reader) ([]rawEvent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var raws []rawEvent
		if err := sonic.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("error parsing JSON: %w", err)
		}
		return raws, nil
	}
	var file eventFile
	if err := sonic.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	return file.Events, nil
}

// csvColumns are matched case-insensitively against the header row.
var csvColumns = []string{"name", "date", "significance", "categories", "description"}

func decodeCSV(r io.Reader) ([]rawEvent, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}
	columnMap := make(map[string]int)
	for i, col := range header {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range csvColumns[:3] {
		if _, ok := columnMap[required]; !ok {
			return nil, fmt.Errorf("column '%s' not found in CSV. Available columns: %v", required, header)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columnMap[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var raws []rawEvent
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		raw := rawEvent{
			Name:        field(record, "name"),
			Date:        dateValue(field(record, "date")),
			Description: field(record, "description"),
		}
		if s := field(record, "significance"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid significance %q", row, s)
			}
			raw.Significance = n
		}
		if c := field(record, "categories"); c != "" {
			raw.Categories = strings.Split(c, "|")
		}
		raws = append(raws, raw)
	}
	return raws, nil
}
