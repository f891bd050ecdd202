// Package dataset is an offline Source: it reads uploaded sensor CSV files from disk and
// derives the statistics block client-side, so the viewers work without a running service.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/chemviz/chemviz/src/analysis"
	"github.com/chemviz/chemviz/src/logging"
	"github.com/chemviz/chemviz/src/types"
)

// ErrNotFound is returned when no CSV exists for a dataset id.
var ErrNotFound = errors.New("dataset not found")

// Header is the column layout written by the upload form.
var Header = []string{"Equipment Name", "Type", "Flowrate", "Pressure", "Temperature"}

// ParseCSV reads records from r. Columns are matched by name, case-insensitively, so extra
// or reordered columns are fine. Empty or non-numeric metric cells become missing values.
func ParseCSV(r io.Reader) ([]types.SensorReading, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	cols := map[string]int{}
	for i, h := range headers {
		cols[columnKey(h)] = i
	}
	nameCol, okName := cols["equipment_name"]
	typeCol, okType := cols["equipment_type"]
	if !okName || !okType {
		return nil, fmt.Errorf("CSV header %q lacks equipment name/type columns", strings.Join(headers, ","))
	}

	records := []types.SensorReading{}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logging.Debugf("[dataset] skip malformed row %d: %v", line, err)
			continue
		}
		rec := types.SensorReading{
			ID:            len(records) + 1,
			EquipmentName: field(row, nameCol),
			EquipmentType: field(row, typeCol),
		}
		for _, m := range types.AllMetrics {
			i, ok := cols[string(m)]
			if !ok {
				continue
			}
			// non-finite cells count as missing readings
			v, err := strconv.ParseFloat(field(row, i), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			switch m {
			case types.Flowrate:
				rec.Flowrate = &v
			case types.Pressure:
				rec.Pressure = &v
			case types.Temperature:
				rec.Temperature = &v
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func columnKey(h string) string {
	k := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	k = strings.ReplaceAll(k, " ", "_")
	switch k {
	case "name", "equipment":
		return "equipment_name"
	case "type":
		return "equipment_type"
	}
	return k
}

// CSVSource serves datasets from disk. When Path is a directory the id selects
// "<Path>/<id>.csv"; when it is a file that file is served for every id.
type CSVSource struct {
	Path string

	mu    sync.Mutex
	cache map[string][]types.SensorReading
}

// NewCSVSource builds a source rooted at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path, cache: make(map[string][]types.SensorReading)}
}

func (s *CSVSource) file(id string) (string, error) {
	fi, err := os.Stat(s.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if !fi.IsDir() {
		return s.Path, nil
	}
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	return filepath.Join(s.Path, id+".csv"), nil
}

func (s *CSVSource) load(id string) ([]types.SensorReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil {
		s.cache = make(map[string][]types.SensorReading)
	}
	if recs, ok := s.cache[id]; ok {
		return recs, nil
	}
	path, err := s.file(id)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	defer f.Close()
	recs, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	s.cache[id] = recs
	logging.Debugf("[dataset] loaded %s (%d records)", path, len(recs))
	return recs, nil
}

// Records returns a copy of the parsed rows.
func (s *CSVSource) Records(ctx context.Context, id string) ([]types.SensorReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recs, err := s.load(id)
	if err != nil {
		return nil, err
	}
	return append([]types.SensorReading(nil), recs...), nil
}

// Stats computes the statistics block from the rows.
func (s *CSVSource) Stats(ctx context.Context, id string) (types.DatasetStats, error) {
	if err := ctx.Err(); err != nil {
		return types.DatasetStats{}, err
	}
	recs, err := s.load(id)
	if err != nil {
		return types.DatasetStats{}, err
	}
	return analysis.Summarize(recs), nil
}

// WriteCSV writes records in the upload layout.
func WriteCSV(w io.Writer, records []types.SensorReading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.EquipmentName, r.EquipmentType, "", "", ""}
		for i, m := range types.AllMetrics {
			if v, ok := r.Value(m); ok {
				row[2+i] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
