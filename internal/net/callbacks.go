package net

import (
	"log"
	"time"
)

// Record is the telemetry emitted after every training step.
type Record struct {
	Iteration int
	Loss      float64
	BatchSize int
	Duration  time.Duration
}

// Callback defines the interface for training callbacks.
// OnBatchEnd is invoked by Fit; the others by whoever drives training.
type Callback interface {
	OnTrainBegin(n *Network)
	OnTrainEnd(n *Network)
	OnCycleEnd(cycle int, loss float64, n *Network)
	OnBatchEnd(rec Record, n *Network)
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (c BaseCallback) OnTrainBegin(n *Network)                        {}
func (c BaseCallback) OnTrainEnd(n *Network)                          {}
func (c BaseCallback) OnCycleEnd(cycle int, loss float64, n *Network) {}
func (c BaseCallback) OnBatchEnd(rec Record, n *Network)              {}

// Logger logs training progress every Interval iterations.
type Logger struct {
	BaseCallback
	Interval int
}

func (c Logger) OnBatchEnd(rec Record, n *Network) {
	if c.Interval > 0 && rec.Iteration%c.Interval == 0 {
		log.Printf("iteration=%d batch=%d loss=%.6f step_ms=%.2f",
			rec.Iteration, rec.BatchSize, rec.Loss, rec.Duration.Seconds()*1000)
	}
}

// LossHistory keeps every batch loss in memory.
type LossHistory struct {
	BaseCallback
	Losses []float64
}

func (c *LossHistory) OnBatchEnd(rec Record, n *Network) {
	c.Losses = append(c.Losses, rec.Loss)
}
