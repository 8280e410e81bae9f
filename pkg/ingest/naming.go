package ingest

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BuildBlobName derives the temp-storage blob name for a local source:
// "{db}__{table}__{basename}__{uuid}[.{format}][.{compression}]".
// basename is the source file name stripped of its own extension, so the
// format and compression suffixes are never duplicated.
func BuildBlobName(db, table, sourceName, format string, compressed bool) (string, string) {
	id := uuid.New().String()
	base := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))

	name := db + "__" + table + "__" + base + "__" + id
	if format != "" {
		name += "." + format
	}
	if compressed {
		name += ".gz"
	}
	return name, id
}
