package batch

import (
	"encoding/json"
	"os"
	"time"
)

// ManifestEntry represents one converted pair in the output manifest.
type ManifestEntry struct {
	Name      string `json:"name"`
	OBJ       string `json:"obj"`
	HasLOD    bool   `json:"has_lod"`
	Vertices  int    `json:"vertices"`
	Triangles int    `json:"triangles"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// Manifest is the JSON summary written after a batch run.
type Manifest struct {
	Created   string          `json:"created"`
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Entries   []ManifestEntry `json:"entries"`
}

// WriteManifest writes manifest.json summarizing a batch run.
func WriteManifest(path string, results []Result) error {
	m := Manifest{
		Created: time.Now().Format(time.RFC3339),
		Total:   len(results),
		Entries: make([]ManifestEntry, len(results)),
	}
	for i, r := range results {
		if r.Success {
			m.Succeeded++
		} else {
			m.Failed++
		}
		m.Entries[i] = ManifestEntry{
			Name:      r.Display,
			OBJ:       r.OBJPath,
			HasLOD:    r.HasLOD,
			Vertices:  r.Vertices,
			Triangles: r.Triangles,
			Success:   r.Success,
			Error:     r.Error,
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
