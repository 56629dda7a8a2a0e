package metrics

import (
	"math"
	"testing"
	"time"
)

func TestWindowSnapshot(t *testing.T) {
	var w Window
	w.Record(1000, 20*time.Millisecond, 1.2)
	w.Record(1000, 30*time.Millisecond, 0.8)
	w.RecordRender(40 * time.Millisecond)

	snap := w.Snapshot()
	if math.Abs(snap.SamplesPerSec-40000) > 1 {
		t.Fatalf("unexpected throughput %.2f", snap.SamplesPerSec)
	}
	if math.Abs(snap.AvgFitMS-25) > 1e-9 {
		t.Fatalf("unexpected fit time %.3f", snap.AvgFitMS)
	}
	if math.Abs(snap.AvgRenderMS-40) > 1e-9 {
		t.Fatalf("unexpected render time %.3f", snap.AvgRenderMS)
	}
	if math.Abs(snap.MeanLoss-1.0) > 1e-12 {
		t.Fatalf("expected mean loss 1.0, got %.4f", snap.MeanLoss)
	}
	if snap.LastLoss != 0.8 {
		t.Fatalf("expected last loss 0.8, got %.2f", snap.LastLoss)
	}
	if snap.Steps != 2 {
		t.Fatalf("expected 2 steps, got %d", snap.Steps)
	}
	if w.samples != 0 || w.fits != 0 || w.renders != 0 || len(w.losses) != 0 {
		t.Fatalf("window was not reset")
	}
}

func TestEmptySnapshot(t *testing.T) {
	var w Window
	snap := w.Snapshot()
	if snap != (Snapshot{}) {
		t.Fatalf("empty window produced %+v", snap)
	}
}
