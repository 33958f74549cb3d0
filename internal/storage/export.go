package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/orrery/internal/orrery"
)

type ExportData struct {
	Run     RunMetadata    `json:"run"`
	Samples []ExportSample `json:"samples"`
}

type ExportSample struct {
	Frame      int               `json:"frame"`
	Time       float64           `json:"time"`
	Multiplier float64           `json:"multiplier"`
	Bodies     map[string]Angles `json:"bodies"`
}

type Angles struct {
	Orbit float64 `json:"orbit"`
	Spin  float64 `json:"spin"`
}

func exportData(meta *RunMetadata, result *orrery.Result) ExportData {
	data := ExportData{
		Run:     *meta,
		Samples: make([]ExportSample, len(result.Samples)),
	}
	for i, smp := range result.Samples {
		es := ExportSample{
			Frame:      smp.Frame,
			Time:       smp.Time,
			Multiplier: smp.Multiplier,
			Bodies:     make(map[string]Angles, len(result.Bodies)),
		}
		for j, name := range result.Bodies {
			es.Bodies[name] = Angles{Orbit: smp.Orbit[j], Spin: smp.Spin[j]}
		}
		data.Samples[i] = es
	}
	return data
}

// WriteJSON encodes a stored run with its samples keyed by body name.
func (s *Store) WriteJSON(out io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	result, err := s.LoadResult(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(meta, result))
}

func (s *Store) ExportJSON(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.WriteJSON(file, runID)
}

func (s *Store) ExportJSONStdout(runID string) error {
	return s.WriteJSON(os.Stdout, runID)
}
