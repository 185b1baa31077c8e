package dataset

// CSV dataset loader
// Reads the passenger table once at startup from a file path or an http(s) URL
// Derives family_size = SibSp + Parch when both columns are present

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	logging "survival-dashboard/internal/infra/log"

	"go.uber.org/zap"
)

// Options controls how a dataset is loaded.
type Options struct {
	// DropFamilySources removes SibSp and Parch after family_size is derived.
	DropFamilySources bool
	// Fetcher downloads remote sources. A default fetcher is used when nil.
	Fetcher *Fetcher
}

// Load reads the dataset at source, which is a filesystem path or an http(s) URL.
func Load(ctx context.Context, source string, opts Options) (*Table, error) {
	start := time.Now()

	var rc io.ReadCloser
	if isRemote(source) {
		f := opts.Fetcher
		if f == nil {
			f = NewFetcher(FetcherConfig{})
		}
		body, err := f.Fetch(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch dataset: %w", err)
		}
		rc = body
	} else {
		file, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open dataset: %w", err)
		}
		rc = file
	}
	defer rc.Close()

	t, err := Read(rc, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", source, err)
	}

	logging.LogSuccess("Dataset loaded",
		zap.String("source", source),
		zap.Int("rows", t.Len()),
		zap.Strings("columns", t.Columns()),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return t, nil
}

// Read parses CSV from r and applies the derived columns.
func Read(r io.Reader, opts Options) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header", ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	// strip a UTF-8 BOM left by spreadsheet exports
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	t, err := NewTable(header, records)
	if err != nil {
		return nil, err
	}
	return Derive(t, opts), nil
}

// Derive adds family_size when SibSp and Parch both exist; otherwise t is returned unchanged.
func Derive(t *Table, opts Options) *Table {
	if !t.Has(ColSibSp) || !t.Has(ColParch) {
		logging.LogWarn("family_size not derived, source columns missing",
			zap.Bool("has_sibsp", t.Has(ColSibSp)),
			zap.Bool("has_parch", t.Has(ColParch)))
		return t
	}

	sibsp, _ := t.Floats(ColSibSp)
	parch, _ := t.Floats(ColParch)
	family := make([]string, t.Len())
	for i := range family {
		sum := sibsp[i] + parch[i]
		if math.IsNaN(sum) {
			continue
		}
		family[i] = strconv.FormatFloat(sum, 'f', -1, 64)
	}

	next := t.withColumn(ColFamilySize, family)
	if opts.DropFamilySources {
		next = next.without(ColSibSp, ColParch)
	}
	return next
}

func isRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
