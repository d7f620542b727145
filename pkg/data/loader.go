package data

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"
)

// Sample represents a single data point streamed from disk.
type Sample struct {
	X   []float64
	Y   float64
	Age float64
}

// StreamCSV streams rows of the diabetes CSV as Samples through a channel.
// The file must carry a header naming every column in FeatureColumns plus
// LabelColumn; column order is free. Malformed rows are skipped with a
// warning. Close the returned done chan to stop early.
func StreamCSV(path string, logger *zap.Logger, out chan<- Sample) (done chan struct{}, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bufio.NewReader(file))
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read header: %w", err)
	}
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}
	featIdx := make([]int, len(FeatureColumns))
	for i, name := range FeatureColumns {
		j, ok := colIdx[name]
		if !ok {
			file.Close()
			return nil, fmt.Errorf("column %q missing from %s", name, path)
		}
		featIdx[i] = j
	}
	labelIdx, ok := colIdx[LabelColumn]
	if !ok {
		file.Close()
		return nil, fmt.Errorf("column %q missing from %s", LabelColumn, path)
	}
	ageIdx := colIdx[AgeColumn]

	done = make(chan struct{})

	go func() {
		// Close the file when the goroutine finishes, either by EOF or early termination.
		defer file.Close()
		// Close the output channel to signal that no more samples will be sent.
		defer close(out)
		line := 1
		for {
			select {
			case <-done:
				return
			default:
				rec, err := reader.Read()
				if err == io.EOF {
					return
				}
				line++
				if err != nil {
					logger.Warn("skipping unreadable record", zap.Int("line", line), zap.Error(err))
					continue
				}

				s, perr := parseSample(rec, featIdx, labelIdx, ageIdx)
				if perr != nil {
					logger.Warn("skipping malformed record", zap.Int("line", line), zap.Error(perr))
					continue
				}
				out <- s
			}
		}
	}()
	return done, nil
}

func parseSample(rec []string, featIdx []int, labelIdx, ageIdx int) (Sample, error) {
	x := make([]float64, len(featIdx))
	for i, j := range featIdx {
		if j >= len(rec) {
			return Sample{}, fmt.Errorf("record too short: %d fields", len(rec))
		}
		v, err := strconv.ParseFloat(rec[j], 64)
		if err != nil {
			return Sample{}, fmt.Errorf("field %d: %w", j, err)
		}
		x[i] = v
	}
	if labelIdx >= len(rec) {
		return Sample{}, fmt.Errorf("record too short: %d fields", len(rec))
	}
	y, err := strconv.ParseFloat(rec[labelIdx], 64)
	if err != nil {
		return Sample{}, fmt.Errorf("label field: %w", err)
	}
	if y != 0 && y != 1 {
		return Sample{}, fmt.Errorf("label %v is not binary", y)
	}
	var age float64
	for i, j := range featIdx {
		if j == ageIdx {
			age = x[i]
		}
	}
	return Sample{X: x, Y: y, Age: age}, nil
}

// Load reads the whole file into a Dataset.
func Load(path string, logger *zap.Logger) (*Dataset, error) {
	samples := make(chan Sample, 64)
	if _, err := StreamCSV(path, logger, samples); err != nil {
		return nil, err
	}

	ds := &Dataset{Features: append([]string(nil), FeatureColumns...)}
	for s := range samples {
		ds.X = append(ds.X, s.X)
		ds.Y = append(ds.Y, s.Y)
		ds.Age = append(ds.Age, s.Age)
	}
	if ds.Len() == 0 {
		return nil, fmt.Errorf("no usable rows in %s", path)
	}
	return ds, nil
}
