// Package metrics aggregates per-cycle training statistics.
package metrics

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Window accumulates fit and render measurements between snapshots.
type Window struct {
	samples int
	fit     time.Duration
	render  time.Duration
	fits    int
	renders int
	losses  []float64
}

// Record adds one Fit measurement to the window.
func (w *Window) Record(batchSize int, fitTime time.Duration, loss float64) {
	w.samples += batchSize
	w.fit += fitTime
	w.fits++
	w.losses = append(w.losses, loss)
}

// RecordRender adds one Render measurement to the window.
func (w *Window) RecordRender(d time.Duration) {
	w.render += d
	w.renders++
}

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{Steps: w.fits}
	if w.fit > 0 {
		snap.SamplesPerSec = float64(w.samples) / w.fit.Seconds()
	}
	if w.fits > 0 {
		snap.AvgFitMS = (w.fit.Seconds() * 1000) / float64(w.fits)
	}
	if w.renders > 0 {
		snap.AvgRenderMS = (w.render.Seconds() * 1000) / float64(w.renders)
	}
	if len(w.losses) > 0 {
		snap.MeanLoss = stat.Mean(w.losses, nil)
		snap.LastLoss = w.losses[len(w.losses)-1]
	}

	*w = Window{losses: w.losses[:0]}
	return snap
}

// Snapshot represents loggable metrics.
type Snapshot struct {
	Steps         int
	SamplesPerSec float64
	AvgFitMS      float64
	AvgRenderMS   float64
	MeanLoss      float64
	LastLoss      float64
}
