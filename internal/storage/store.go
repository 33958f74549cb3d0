package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/orrery/internal/orrery"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID            string             `json:"id"`
	Timestamp     time.Time          `json:"timestamp"`
	Frames        int                `json:"frames"`
	FrameInterval float64            `json:"frame_interval"`
	Scale         string             `json:"scale"`
	Scenario      string             `json:"scenario,omitempty"`
	Seed          int64              `json:"seed"`
	Bodies        []string           `json:"bodies"`
	Elapsed       float64            `json:"elapsed"`
	Metrics       map[string]float64 `json:"metrics,omitempty"`
}

// RunInfo describes how a run was produced. Frames, Bodies and Elapsed
// come from the result.
type RunInfo struct {
	FrameInterval float64
	Scale         string
	Scenario      string
	Seed          int64
	Metrics       map[string]float64
}

// Save writes metadata.json and frames.csv under a new run directory and
// returns the run ID.
func (s *Store) Save(info RunInfo, result *orrery.Result) (string, error) {
	ts := s.now()
	name := info.Scale
	if info.Scenario != "" {
		name = info.Scenario
	}
	runID := fmt.Sprintf("%s_%d", name, ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Timestamp:     ts,
		Frames:        result.Frames,
		FrameInterval: info.FrameInterval,
		Scale:         info.Scale,
		Scenario:      info.Scenario,
		Seed:          info.Seed,
		Bodies:        result.Bodies,
		Elapsed:       result.Elapsed,
		Metrics:       info.Metrics,
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

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}
	return runID, nil
}

// Header is the frames.csv column list for the given bodies.
func Header(bodies []string) []string {
	header := []string{"frame", "time", "multiplier"}
	for _, b := range bodies {
		header = append(header, b+"_orbit", b+"_spin")
	}
	return header
}

// WriteCSV writes one row per sample.
func WriteCSV(out io.Writer, result *orrery.Result) error {
	w := csv.NewWriter(out)
	if err := w.Write(Header(result.Bodies)); err != nil {
		return err
	}

	for _, smp := range result.Samples {
		row := []string{
			strconv.Itoa(smp.Frame),
			strconv.FormatFloat(smp.Time, 'f', 3, 64),
			strconv.FormatFloat(smp.Multiplier, 'f', -1, 64),
		}
		for i := range result.Bodies {
			row = append(row,
				strconv.FormatFloat(smp.Orbit[i], 'f', 9, 64),
				strconv.FormatFloat(smp.Spin[i], 'f', 9, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// CSVPath is where a run's samples live.
func (s *Store) CSVPath(runID string) string {
	return filepath.Join(s.baseDir, runID, "frames.csv")
}

// LoadResult rebuilds the samples of a stored run.
func (s *Store) LoadResult(runID string) (*orrery.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(s.CSVPath(runID))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3 + 2*len(meta.Bodies)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	result := &orrery.Result{
		Bodies:  meta.Bodies,
		Frames:  meta.Frames,
		Elapsed: meta.Elapsed,
	}
	if len(records) < 2 {
		return result, nil
	}

	result.Samples = make([]orrery.Sample, 0, len(records)-1)
	for line, rec := range records[1:] {
		smp, err := parseSample(rec, len(meta.Bodies))
		if err != nil {
			return nil, fmt.Errorf("run %s: line %d: %w", runID, line+2, err)
		}
		result.Samples = append(result.Samples, smp)
	}
	return result, nil
}

func parseSample(rec []string, nBodies int) (orrery.Sample, error) {
	var smp orrery.Sample
	var err error

	if smp.Frame, err = strconv.Atoi(rec[0]); err != nil {
		return smp, err
	}
	if smp.Time, err = strconv.ParseFloat(rec[1], 64); err != nil {
		return smp, err
	}
	if smp.Multiplier, err = strconv.ParseFloat(rec[2], 64); err != nil {
		return smp, err
	}

	smp.Orbit = make([]float64, nBodies)
	smp.Spin = make([]float64, nBodies)
	for i := 0; i < nBodies; i++ {
		if smp.Orbit[i], err = strconv.ParseFloat(rec[3+2*i], 64); err != nil {
			return smp, err
		}
		if smp.Spin[i], err = strconv.ParseFloat(rec[4+2*i], 64); err != nil {
			return smp, err
		}
	}
	return smp, nil
}
