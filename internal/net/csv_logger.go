package net

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// CSVLogger logs every training step to a CSV file.
type CSVLogger struct {
	BaseCallback
	Filename string
	Append   bool

	file   *os.File
	writer *csv.Writer
	start  time.Time
	cycle  int
}

// NewCSVLogger creates a new CSVLogger.
func NewCSVLogger(filename string, append bool) *CSVLogger {
	return &CSVLogger{
		Filename: filename,
		Append:   append,
	}
}

// Open creates or truncates the file and writes the header. OnTrainBegin
// calls it when the file is not open yet; call it directly to surface the error.
func (c *CSVLogger) Open() error {
	if c.file != nil {
		return nil
	}
	mode := os.O_CREATE | os.O_WRONLY
	if c.Append {
		mode |= os.O_APPEND
	} else {
		mode |= os.O_TRUNC
	}

	file, err := os.OpenFile(c.Filename, mode, 0644)
	if err != nil {
		return errors.Wrap(err, "csv logger")
	}
	c.file = file
	c.writer = csv.NewWriter(file)
	c.start = time.Now()
	c.cycle = 1

	// Write header if not appending or if file is empty
	info, err := file.Stat()
	if err == nil && (info.Size() == 0 || !c.Append) {
		c.writer.Write([]string{"iteration", "cycle", "loss", "batch_size", "time_seconds"})
		c.writer.Flush()
	}
	return c.writer.Error()
}

func (c *CSVLogger) OnTrainBegin(n *Network) {
	if err := c.Open(); err != nil {
		log.Printf("%v", err)
		return
	}
	c.start = time.Now()
}

func (c *CSVLogger) OnBatchEnd(rec Record, n *Network) {
	if c.writer == nil {
		return
	}

	elapsed := time.Since(c.start).Seconds()
	record := []string{
		strconv.Itoa(rec.Iteration),
		strconv.Itoa(c.cycle),
		fmt.Sprintf("%.6f", rec.Loss),
		strconv.Itoa(rec.BatchSize),
		fmt.Sprintf("%.3f", elapsed),
	}

	if err := c.writer.Write(record); err != nil {
		log.Printf("csv logger: write record: %v", err)
	}
	c.writer.Flush()
}

func (c *CSVLogger) OnCycleEnd(cycle int, loss float64, n *Network) {
	c.cycle = cycle + 1
}

func (c *CSVLogger) OnTrainEnd(n *Network) {
	if c.file != nil {
		c.writer.Flush()
		c.file.Close()
		c.file = nil
		c.writer = nil
	}
}
