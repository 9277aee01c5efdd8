package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	RunMetadata
	Times  []float64            `json:"times"`
	Series map[string][]float64 `json:"series"`
}

// ExportJSON writes a run's metadata and series as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		RunMetadata: *meta,
		Times:       series.Times,
		Series:      series.Values,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
