package universe

import (
	"bufio"
	"encoding/json"
	"os"
)

// SnapshotSink receives snapshots produced by an offline simulation run.
type SnapshotSink interface {
	OnStart(totalTicks, every int) error
	OnSnapshot(snap Snapshot) error
	OnEnd(finalSimTime float64) error
	Close() error
}

// JSONLSnapshotWriter streams snapshots to disk, one JSON object per line.
type JSONLSnapshotWriter struct {
	f  *os.File
	bw *bufio.Writer
}

// NewJSONLSnapshotWriter creates (or truncates) the file at path.
func NewJSONLSnapshotWriter(path string) (*JSONLSnapshotWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &JSONLSnapshotWriter{f: f, bw: bufio.NewWriter(f)}, nil
}

func (w *JSONLSnapshotWriter) OnStart(totalTicks, every int) error { return nil }

func (w *JSONLSnapshotWriter) OnSnapshot(snap Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	return w.bw.WriteByte('\n')
}

func (w *JSONLSnapshotWriter) OnEnd(finalSimTime float64) error { return w.bw.Flush() }

func (w *JSONLSnapshotWriter) Close() error {
	if w.bw != nil {
		_ = w.bw.Flush()
	}
	if w.f != nil {
		return w.f.Close()
	}
	return nil
}
