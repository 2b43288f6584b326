// Package datasource detects what kind of trace source a path points at and
// loads it into a canonical trace. Text payloads (JSON array, compact event
// object, delimited tabular) go through pkg/loader; SQLite slice databases
// are read directly.
package datasource

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceType identifies the kind of trace source behind a path.
type SourceType string

const (
	SourceTypeText   SourceType = "text"
	SourceTypeSQLite SourceType = "sqlite"
)

// sqliteMagic is the first 16 bytes of every SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// DetectSource classifies a path, by extension first and content sniff as a
// fallback, so a renamed database is still recognized.
func DetectSource(path string) (SourceType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return SourceTypeSQLite, nil
	case ".json", ".csv", ".tsv", ".txt", ".log":
		return SourceTypeText, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	header := make([]byte, len(sqliteMagic))
	n, _ := f.Read(header)
	if n == len(sqliteMagic) && bytes.Equal(header, sqliteMagic) {
		return SourceTypeSQLite, nil
	}
	return SourceTypeText, nil
}
