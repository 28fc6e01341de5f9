package storage

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/driftfield/internal/particle"
)

func sampleFrames() []particle.FrameStats {
	return []particle.FrameStats{
		{Frame: 1, Links: 12, Elapsed: 150 * time.Microsecond},
		{Frame: 2, Links: 14, Elapsed: 170 * time.Microsecond},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Seed:    42,
		Count:   50,
		Width:   640,
		Height:  384,
		Metrics: map[string]float64{"mean_links": 13},
	}
	runID, err := st.Save(meta, sampleFrames())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Seed)
	}
	if loaded.Frames != 2 {
		t.Errorf("expected 2 frames recorded, got %d", loaded.Frames)
	}
	if loaded.Metrics["mean_links"] != 13 {
		t.Errorf("expected mean_links 13, got %f", loaded.Metrics["mean_links"])
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[1].Links != 14 || frames[1].Elapsed != 170*time.Microsecond {
		t.Errorf("frame round trip lost data: %+v", frames[1])
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	older := RunMetadata{ID: "older", Timestamp: time.Now().Add(-time.Hour)}
	newer := RunMetadata{ID: "newer", Timestamp: time.Now()}
	if _, err := st.Save(older, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save(newer, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "newer" {
		t.Errorf("expected newest first, got %s", runs[0].ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{}, sampleFrames())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "frames.csv")); os.IsNotExist(err) {
		t.Error("frames.csv not created")
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadFrames("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

type failingClose struct{ *os.File }

func (f failingClose) Close() error {
	f.File.Close()
	return errors.New("disk full")
}

func TestStoreSaveReportsCloseError(t *testing.T) {
	orig := createFile
	defer func() { createFile = orig }()

	var created []string
	createFile = func(path string) (io.WriteCloser, error) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		created = append(created, filepath.Base(path))
		if filepath.Base(path) == framesFile {
			return failingClose{f}, nil
		}
		return f, nil
	}

	st := New(t.TempDir())
	_, err := st.Save(RunMetadata{Count: 2}, sampleFrames())
	if err == nil {
		t.Fatal("expected close error from frames.csv")
	}
	if len(created) != 2 {
		t.Errorf("expected metadata and frames to be created, got %v", created)
	}
}

func TestStoreSaveReportsCreateError(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := os.MkdirAll(filepath.Join(tmpDir, "fixed", framesFile), 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save(RunMetadata{ID: "fixed"}, sampleFrames()); err == nil {
		t.Error("expected error when frames.csv cannot be created")
	}
}

func TestExportJSON(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	runID, err := st.Save(RunMetadata{Count: 3}, sampleFrames())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	out := filepath.Join(tmpDir, "export.json")
	if err := st.ExportJSON(runID, out); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("bad export json: %v", err)
	}
	if data.Count != 3 || len(data.Links) != 2 || data.ElapsedUs[0] != 150 {
		t.Errorf("unexpected export: %+v", data)
	}
}
