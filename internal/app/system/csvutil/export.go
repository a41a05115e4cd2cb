// internal/app/system/csvutil/export.go
package csvutil

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"
)

// Columns returns the header for records: the preferred columns first,
// then every other key in first-seen order. Keys within a single record
// are visited in sorted order since maps carry none.
func Columns(records []map[string]any, preferred ...string) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, c := range preferred {
		if !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}

// Export renders records as CSV. The header is Columns(records, preferred...).
// Fields containing a comma, quote or newline are quoted with embedded
// quotes doubled; nested values are written as JSON text; nil is empty.
func Export(records []map[string]any, preferred ...string) ([]byte, error) {
	if len(records) > MaxRows {
		records = records[:MaxRows]
	}
	cols := Columns(records, preferred...)

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(cols); err != nil {
		return nil, err
	}
	row := make([]string, len(cols))
	for _, rec := range records {
		for i, c := range cols {
			v, err := Field(rec[c])
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", c, err)
			}
			row[i] = v
		}
		if err := cw.Write(row); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Field converts one value to its unquoted CSV text.
func Field(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	case time.Time:
		if t.IsZero() {
			return "", nil
		}
		return t.UTC().Format(time.RFC3339), nil
	case *time.Time:
		if t == nil {
			return "", nil
		}
		return Field(*t)
	case fmt.Stringer:
		return t.String(), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Filename returns "<name>_<YYYY-MM-DD>.csv" using the UTC date.
func Filename(name string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", name, now.UTC().Format("2006-01-02"))
}

// Write sends records as a CSV download named after name.
func Write(w http.ResponseWriter, name string, records []map[string]any, now time.Time, preferred ...string) error {
	body, err := Export(records, preferred...)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", Filename(name, now)))
	w.Header().Set("Cache-Control", "no-store")
	_, err = w.Write(body)
	return err
}

// Normalize accepts a decoded JSON response and returns its records:
// a bare array, an object carrying a "data" array, or a single object.
func Normalize(resp any) []map[string]any {
	switch t := resp.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case []map[string]any:
		return t
	case map[string]any:
		if data, ok := t["data"].([]any); ok {
			return Normalize(data)
		}
		return []map[string]any{t}
	}
	return nil
}
