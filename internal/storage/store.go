// Package storage keeps finished runs on disk: a metadata file and the
// resampled trajectory of each run, one directory per run ID.
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

	"github.com/san-kum/dynout/internal/config"
	"github.com/san-kum/dynout/internal/export"
	"github.com/san-kum/dynout/internal/sim"
)

const (
	metaFile    = "metadata.json"
	samplesFile = "samples.csv"
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
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Config    config.Config      `json:"config"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes the run's metadata and grid under the run's ID.
func (s *Store) Save(cfg *config.Config, result *sim.Result, grid export.Grid) (string, error) {
	runID := result.ID.String()
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now().UTC(),
		Config:    *cfg,
		Steps:     result.Steps(),
		Metrics: map[string]float64{
			"accepted":     float64(result.Accepted),
			"rejected":     float64(result.Rejected),
			"energy_drift": result.EnergyDrift,
		},
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, metaFile), data, 0644); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := export.WriteCSV(f, grid); err != nil {
		return "", fmt.Errorf("storage: write samples: %w", err)
	}
	return runID, f.Close()
}

// List returns every readable run, oldest first. Directories without valid
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metaFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadGrid reads back the samples written by Save.
func (s *Store) LoadGrid(runID string) (export.Grid, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return export.Grid{}, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return export.Grid{}, err
	}

	var g export.Grid
	for i, record := range records {
		if i == 0 {
			continue
		}
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return export.Grid{}, fmt.Errorf("storage: %s line %d: %w", samplesFile, i+1, err)
			}
			row[j] = v
		}
		g.Times = append(g.Times, row[0])
		g.States = append(g.States, row[1:])
	}
	return g, nil
}
