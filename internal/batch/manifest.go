package batch

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// Manifest describes one batch run, written next to the frames.
type Manifest struct {
	JobID       string          `json:"job_id"`
	CreatedAt   time.Time       `json:"created_at"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	SampleCount int             `json:"msaa_samples"`
	Frames      []ManifestEntry `json:"frames"`
}

// ManifestEntry represents one rendered frame.
type ManifestEntry struct {
	Frame int     `json:"frame"`
	Time  float64 `json:"time"`
	Image string  `json:"image"`
	Error string  `json:"error,omitempty"`
}

// WriteManifest writes manifest.json for a completed run.
func WriteManifest(path string, cfg Config, results []Result) error {
	m := Manifest{
		JobID:       uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Width:       cfg.Pipeline.Width,
		Height:      cfg.Pipeline.Height,
		SampleCount: cfg.Pipeline.SampleCount,
		Frames:      make([]ManifestEntry, len(results)),
	}
	for i, r := range results {
		e := ManifestEntry{Frame: r.Frame, Time: r.Time}
		if r.Success {
			e.Image = FrameName(r.Frame)
		} else {
			e.Error = r.Error
		}
		m.Frames[i] = e
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
