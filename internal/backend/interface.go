package backend

import (
	"context"

	"engagement/internal/dataset"
)

// CleanupFunc releases resources held by a source.
type CleanupFunc func() error

// SourceResult contains the source instance and optional cleanup function
type SourceResult struct {
	Source  dataset.Source
	Cleanup CleanupFunc
}

// Factory creates dataset sources based on configuration
type Factory interface {
	CreateSource(ctx context.Context, config Config) (*SourceResult, error)
}

// Config holds configuration for source creation
type Config struct {
	Type Type

	// CSV specific
	DatasetPath string
	Delimiter   rune

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// Type names a dataset source kind.
type Type string

const (
	CSVSource    Type = "csv"
	SQLiteSource Type = "sqlite"
	SheetsSource Type = "sheets"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the source type is known
func (t Type) IsValid() bool {
	switch t {
	case CSVSource, SQLiteSource, SheetsSource:
		return true
	default:
		return false
	}
}
