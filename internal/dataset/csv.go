package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"engagement/internal/core"
)

// CSVFile reads posts from a delimited file with a header row.
type CSVFile struct {
	Path  string
	Comma rune
}

var _ Source = (*CSVFile)(nil)

// NewCSVFile returns a source for path. A zero comma means ','.
func NewCSVFile(path string, comma rune) *CSVFile {
	if comma == 0 {
		comma = ','
	}
	return &CSVFile{Path: path, Comma: comma}
}

func (c *CSVFile) Name() string {
	return "csv:" + c.Path
}

// ReadPosts opens and parses the whole file.
func (c *CSVFile) ReadPosts(ctx context.Context) ([]core.Post, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &core.LoadError{Source: c.Path, Err: fmt.Errorf("%w: %v", core.ErrSourceMissing, err)}
		}
		return nil, &core.LoadError{Source: c.Path, Err: fmt.Errorf("%w: %v", core.ErrMalformed, err)}
	}
	defer f.Close()
	return ReadCSV(ctx, c.Path, f, c.Comma)
}

// ReadCSV parses delimited records from r. The first record is the header.
func ReadCSV(ctx context.Context, source string, r io.Reader, comma rune) ([]core.Post, error) {
	cr := csv.NewReader(r)
	if comma != 0 {
		cr.Comma = comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &core.LoadError{Source: source, Err: fmt.Errorf("%w: no header row", core.ErrMalformed)}
	}
	if err != nil {
		return nil, &core.LoadError{Source: source, Err: fmt.Errorf("%w: %v", core.ErrMalformed, err)}
	}

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, &core.LoadError{Source: source, Err: err}
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &core.LoadError{Source: source, Row: len(rows) + 1, Err: fmt.Errorf("%w: %v", core.ErrMalformed, err)}
		}
		if isBlank(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	return ParseTable(source, header, rows)
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}
