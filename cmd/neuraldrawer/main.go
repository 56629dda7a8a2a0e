package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FlavioCFOliveira/NeuralDrawer/internal/config"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/drawer"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/imageio"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/net"
	"github.com/FlavioCFOliveira/NeuralDrawer/internal/trainer"
	"github.com/klauspost/cpuid/v2"
	"github.com/pkg/errors"
)

// Trains a network to draw an image from pixel coordinates and writes the
// current rendering to disk as it improves.
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config")
	imagePath := flag.String("image", "", "Image to learn")
	out := flag.String("out", "", "Where to write the rendered PNG")
	composite := flag.String("composite", "", "Where to write original and rendering side by side")
	csvPath := flag.String("csv", "", "Write per-step telemetry to this CSV file")
	cycles := flag.Int("cycles", 0, "Stop after N cycles (0 runs until interrupted)")
	snapshotEvery := flag.Int("snapshot-every", 0, "Write images every N cycles")
	seed := flag.Int64("seed", 0, "Weight initialisation seed")
	sampleSeed := flag.Int64("sample-seed", 0, "Pixel sampling seed (default: clock)")
	workers := flag.Int("workers", 0, "Render goroutines (default: logical cores)")
	verbose := flag.Bool("v", false, "Log every training step")

	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	cfg.ApplyOverrides(config.Overrides{
		Image:         *imagePath,
		Output:        *out,
		Composite:     *composite,
		TelemetryCSV:  *csvPath,
		SnapshotEvery: *snapshotEvery,
		MaxCycles:     *cycles,
		Seed:          *seed,
		SampleSeed:    *sampleSeed,
		Workers:       *workers,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("cpu=%q logical_cores=%d avx2=%t", cpuid.CPU.BrandName, cpuid.CPU.LogicalCores, cpuid.CPU.Supports(cpuid.AVX2))

	img, format, err := imageio.Load(cfg.Image)
	if err != nil {
		log.Fatalf("failed to load image: %v", err)
	}
	src, err := drawer.NewSource(img)
	if err != nil {
		log.Fatalf("unusable image %s: %v", cfg.Image, err)
	}
	log.Printf("image=%s format=%s width=%d height=%d", cfg.Image, format, src.Width(), src.Height())

	network, err := net.NewMLP(cfg.Model())
	if err != nil {
		log.Fatalf("failed to build network: %v", err)
	}
	network.Summary(os.Stderr)
	if *verbose {
		network.AddCallback(net.Logger{Interval: 1})
	}
	if cfg.TelemetryCSV != "" {
		telemetry := net.NewCSVLogger(cfg.TelemetryCSV, false)
		if err := telemetry.Open(); err != nil {
			log.Fatalf("failed to open telemetry file: %v", err)
		}
		network.AddCallback(telemetry)
	}

	sampleSrc := cfg.SampleSeed
	if sampleSrc == 0 {
		sampleSrc = time.Now().UnixNano()
	}
	renderer := drawer.NewRenderer(drawer.NewGrid(src.Width(), src.Height()), cfg.Workers)
	log.Printf("render_workers=%d batch_size=%d num_batches=%d", renderer.Workers(), cfg.BatchSize, cfg.NumBatches)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCfg := trainer.RunConfig{
		Network:    network,
		Batches:    drawer.NewSampler(src, rand.New(rand.NewSource(sampleSrc))),
		Renderer:   renderer,
		NumBatches: cfg.NumBatches,
		BatchSize:  cfg.BatchSize,
		MaxCycles:  cfg.MaxCycles,
		LogEvery:   cfg.LogEvery,
		OnFrame:    snapshotWriter(cfg, img),
	}

	err = trainer.Run(ctx, runCfg)
	switch {
	case errors.Is(err, context.Canceled):
		log.Printf("interrupted after %d iterations", network.Iteration())
	case err != nil:
		log.Fatalf("training failed: %v", err)
	default:
		log.Printf("finished %d cycles, %d iterations", cfg.MaxCycles, network.Iteration())
	}
}
