package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

const (
	metadataFile = "metadata.json"
	resultFile   = "result.csv"
)

var ErrEmptyRun = errors.New("storage: run has no result rows")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string         `json:"id"`
	Simulator string         `json:"simulator"`
	Report    string         `json:"report,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Seed      int64          `json:"seed,omitempty"`
	Rows      int            `json:"rows"`
	Cols      int            `json:"cols"`
	Options   map[string]any `json:"options,omitempty"`
}

// Save writes the result matrix and its metadata into a new run directory and
// returns the run id.
func (s *Store) Save(meta RunMetadata, result *mat.Dense) (string, error) {
	if result == nil {
		return "", ErrEmptyRun
	}

	meta.ID = fmt.Sprintf("%s_%s", meta.Simulator, uuid.NewString()[:8])
	meta.Timestamp = time.Now()
	meta.Rows, meta.Cols = result.Dims()

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, resultFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	header := make([]string, meta.Cols)
	for j := range header {
		header[j] = fmt.Sprintf("c%d", j)
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	row := make([]string, meta.Cols)
	for i := 0; i < meta.Rows; i++ {
		for j := 0; j < meta.Cols; j++ {
			row[j] = strconv.FormatFloat(result.At(i, j), 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns stored runs, newest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadResult(runID string) (*mat.Dense, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, resultFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, ErrEmptyRun
	}

	rows, cols := len(records)-1, len(records[0])
	data := make([]float64, 0, rows*cols)
	for i, record := range records[1:] {
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", i, j, err)
			}
			data = append(data, v)
		}
	}

	return mat.NewDense(rows, cols, data), nil
}
