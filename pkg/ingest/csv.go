package ingest

import (
	"bytes"
	"encoding/csv"
)

// serializeResultSet renders a ResultSet to CSV in memory so it can be
// pushed through the same upload path as any other stream source.
func serializeResultSet(rs ResultSet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(rs.Columns()); err != nil {
		return nil, err
	}
	for rs.Next() {
		if err := w.Write(rs.Row()); err != nil {
			return nil, err
		}
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
