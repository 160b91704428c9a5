// Package storage persists cost evaluation runs under a data directory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

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
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	Controller   string             `json:"controller"`
	Reference    string             `json:"reference"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	TotalCost    float64            `json:"total_cost"`
	TerminalCost float64            `json:"terminal_cost"`
	Steps        int                `json:"integration_steps"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes one evaluation run: metadata plus the running-cost trace
// (time, instantaneous rate) sampled on the trajectory grid. Returns the
// run ID.
func (s *Store) Save(meta RunMetadata, times, rates []float64) (string, error) {
	if len(times) != len(rates) {
		return "", fmt.Errorf("storage: trace length mismatch: %d times, %d rates", len(times), len(rates))
	}

	runID := fmt.Sprintf("eval_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"t", "rate"}); err != nil {
		return "", err
	}
	for i := range times {
		record := []string{
			strconv.FormatFloat(times[i], 'g', -1, 64),
			strconv.FormatFloat(rates[i], 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns metadata for all stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, e.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

// LoadTrace reads the running-cost trace of a stored run.
func (s *Store) LoadTrace(runID string) (times, rates []float64, err error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}

	for i, rec := range records {
		if i == 0 {
			continue // header
		}
		if len(rec) != 2 {
			return nil, nil, fmt.Errorf("storage: malformed trace row %d in %s", i, runID)
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, nil, err
		}
		r, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, nil, err
		}
		times = append(times, t)
		rates = append(rates, r)
	}
	return times, rates, nil
}
