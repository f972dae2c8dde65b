package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"oit-renderer/internal/pipeline"
	"oit-renderer/internal/scene"
)

func testConfig(dir string) Config {
	return Config{
		Pipeline: pipeline.Options{
			Width: 48, Height: 32, SampleCount: 2, FragmentCount: 16, LayerCount: 8, Workers: 2,
		},
		OutputDir: dir,
		FrameStep: 1.0 / 30.0,
		Workers:   2,
	}
}

func TestRunRendersAllFrames(t *testing.T) {
	dir := t.TempDir()
	results := Run(testConfig(dir), scene.Demo(), 4)

	if len(results) != 4 {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if !r.Success {
			t.Fatalf("frame %d failed: %s", i, r.Error)
		}
		if r.Frame != i {
			t.Fatalf("result %d holds frame %d", i, r.Frame)
		}
		if _, err := os.Stat(filepath.Join(dir, FrameName(i))); err != nil {
			t.Fatalf("frame file missing: %v", err)
		}
	}
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	results := []Result{
		{Frame: 0, Time: 0, Success: true},
		{Frame: 1, Time: 0.033, Error: "boom"},
	}

	path := filepath.Join(dir, "manifest.json")
	if err := WriteManifest(path, cfg, results); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m.JobID == "" {
		t.Fatal("manifest missing job id")
	}
	if m.Width != 48 || m.SampleCount != 2 {
		t.Fatalf("manifest config mismatch: %+v", m)
	}
	if len(m.Frames) != 2 {
		t.Fatalf("manifest has %d frames", len(m.Frames))
	}
	if m.Frames[0].Image != FrameName(0) || m.Frames[0].Error != "" {
		t.Fatalf("success entry wrong: %+v", m.Frames[0])
	}
	if m.Frames[1].Image != "" || m.Frames[1].Error != "boom" {
		t.Fatalf("failure entry wrong: %+v", m.Frames[1])
	}
}
