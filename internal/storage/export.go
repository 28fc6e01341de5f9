package storage

import (
	"encoding/json"
	"os"
)

type ExportData struct {
	RunMetadata
	Links     []int   `json:"links"`
	ElapsedUs []int64 `json:"elapsed_us"`
}

// ExportJSON writes a run and its frames as a single JSON document.
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		RunMetadata: *meta,
		Links:       make([]int, len(frames)),
		ElapsedUs:   make([]int64, len(frames)),
	}
	for i, f := range frames {
		data.Links[i] = f.Links
		data.ElapsedUs[i] = f.Elapsed.Microseconds()
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
