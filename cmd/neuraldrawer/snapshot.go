package main

import (
	"image"

	"github.com/FlavioCFOliveira/NeuralDrawer/internal/config"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/drawer"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/imageio"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/trainer"
)

// snapshotWriter is the frame consumer standing in for a display: every
// SnapshotEvery cycles it writes the rendering, and optionally the original
// next to it.
func snapshotWriter(cfg *config.Config, original image.Image) func(trainer.Frame) error {
	return func(f trainer.Frame) error {
		if f.Cycle%cfg.SnapshotEvery != 0 {
			return nil
		}
		if cfg.Output != "" {
			if err := imageio.WritePNG(cfg.Output, f.Image); err != nil {
				return err
			}
		}
		if cfg.Composite != "" {
			if err := imageio.WritePNG(cfg.Composite, drawer.SideBySide(original, f.Image, cfg.Zoom)); err != nil {
				return err
			}
		}
		return nil
	}
}
