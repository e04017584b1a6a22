// Package excel loads observation bundles from xlsx worksheets. The first
// row holds column headers; the reserved "group" and "replicate" columns
// (plus an optional "contrast" column) carry the design labels, and every
// remaining numeric column becomes a feature.
package excel

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"chanstat/domain/core"
	"chanstat/domain/sample"
)

// Reserved header names, matched case-insensitively.
const (
	GroupHeader     = "group"
	ReplicateHeader = "replicate"
	ContrastHeader  = "contrast"
)

// Reader implements ports.SampleSourcePort over an xlsx worksheet.
type Reader struct {
	sheet string
}

// NewReader creates a reader for the given sheet name. An empty sheet
// name selects "Sheet1".
func NewReader(sheet string) *Reader {
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &Reader{sheet: sheet}
}

// Load reads the worksheet at path into a sample bundle.
func (r *Reader) Load(ctx context.Context, path string) (*sample.Bundle, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("workbook not found: %s", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", r.sheet, err)
	}
	if len(rows) < 3 {
		return nil, fmt.Errorf("sheet %s needs a header row and at least two data rows", r.sheet)
	}

	header := rows[0]
	groupCol, replicateCol, contrastCol := -1, -1, -1
	var featureCols []int
	var keys []core.FeatureKey
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case GroupHeader:
			groupCol = i
		case ReplicateHeader:
			replicateCol = i
		case ContrastHeader:
			contrastCol = i
		default:
			featureCols = append(featureCols, i)
			keys = append(keys, core.FeatureKey(strings.TrimSpace(name)))
		}
	}
	if len(featureCols) == 0 {
		return nil, fmt.Errorf("sheet %s has no feature columns", r.sheet)
	}

	data := rows[1:]
	matrix := make([][]float64, len(data))
	var groups, replicates, contrast []float64

	for ri, row := range data {
		matrix[ri] = make([]float64, len(featureCols))
		for ci, col := range featureCols {
			v, err := cellFloat(row, col)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", ri+2, header[col], err)
			}
			matrix[ri][ci] = v
		}

		if groupCol >= 0 {
			v, err := cellFloat(row, groupCol)
			if err != nil {
				return nil, fmt.Errorf("row %d, group label: %w", ri+2, err)
			}
			groups = append(groups, v)
		}
		if replicateCol >= 0 {
			v, err := cellFloat(row, replicateCol)
			if err != nil {
				return nil, fmt.Errorf("row %d, replicate label: %w", ri+2, err)
			}
			replicates = append(replicates, v)
		}
		if contrastCol >= 0 {
			v, err := cellFloat(row, contrastCol)
			if err != nil {
				return nil, fmt.Errorf("row %d, contrast value: %w", ri+2, err)
			}
			contrast = append(contrast, v)
		}
	}

	b := sample.NewBundle(matrix, keys)
	if groups != nil {
		b.Groups = groups
	}
	if replicates != nil {
		b.Replicates = replicates
	}
	b.Contrast = contrast
	b.Metadata = map[string]any{
		"source": path,
		"sheet":  r.sheet,
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func cellFloat(row []string, col int) (float64, error) {
	if col >= len(row) || strings.TrimSpace(row[col]) == "" {
		return 0, fmt.Errorf("empty cell")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
	if err != nil {
		return 0, fmt.Errorf("not numeric: %q", row[col])
	}
	return v, nil
}
