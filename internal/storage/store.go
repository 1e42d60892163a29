package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/DataDog/zstd"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
)

const (
	metadataFile   = "metadata.json"
	ticksFile      = "ticks.csv"
	bodiesFile     = "bodies.csv"
	compressedExt  = ".zst"
	compressLevel  = 3
	floatPrecision = -1
)

var ErrRunNotFound = errors.New("run not found")

// Store keeps one directory of reports per run under baseDir. Reports are
// write-once summaries; nothing reads them back into a running simulation.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was started.
type RunInfo struct {
	Seed     int64
	Preset   string
	Compress bool
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Mode       string             `json:"mode"`
	Preset     string             `json:"preset,omitempty"`
	Count      int                `json:"count"`
	Ticks      int                `json:"ticks"`
	Dt         float64            `json:"dt"`
	Seed       int64              `json:"seed"`
	Workers    int                `json:"workers"`
	Elapsed    time.Duration      `json:"elapsed_ns"`
	PerTick    time.Duration      `json:"per_tick_ns"`
	Compressed bool               `json:"compressed"`
	Metrics    map[string]float64 `json:"metrics"`
}

// TickRecord is one row of ticks.csv. Energy is NaN when it was not tracked.
type TickRecord struct {
	Tick    int
	Elapsed time.Duration
	Energy  float64
}

func (s *Store) Save(info RunInfo, dt float64, result *dynamo.Result, u *physics.Universe) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d_%d", result.Mode, result.Bodies, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  now,
		Mode:       string(result.Mode),
		Preset:     info.Preset,
		Count:      result.Bodies,
		Ticks:      result.Ticks,
		Dt:         dt,
		Seed:       info.Seed,
		Workers:    result.Workers,
		Elapsed:    result.Elapsed,
		PerTick:    result.PerTick(),
		Compressed: info.Compress,
		Metrics:    result.Metrics,
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), &meta); err != nil {
		return "", err
	}
	if err := writeTicks(filepath.Join(runDir, ticksFile), result); err != nil {
		return "", err
	}
	if err := writeBodies(runDir, u, info.Compress); err != nil {
		return "", err
	}

	return runID, nil
}

func writeMetadata(path string, meta *RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeTicks(path string, result *dynamo.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"tick", "ns", "energy"}); err != nil {
		return err
	}

	// Energy[0] is the state before the first tick.
	if len(result.Energy) > 0 {
		row := []string{"0", "0", formatFloat(result.Energy[0])}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	for i, d := range result.TickTimes {
		energy := ""
		if i+1 < len(result.Energy) {
			energy = formatFloat(result.Energy[i+1])
		}
		row := []string{strconv.Itoa(i + 1), strconv.FormatInt(d.Nanoseconds(), 10), energy}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writeBodies(runDir string, u *physics.Universe, compress bool) error {
	var buf bytes.Buffer
	if err := EncodeBodies(&buf, u.Bodies); err != nil {
		return err
	}

	data := buf.Bytes()
	path := filepath.Join(runDir, bodiesFile)
	if compress {
		var err error
		data, err = zstd.CompressLevel(nil, data, compressLevel)
		if err != nil {
			return fmt.Errorf("compress bodies: %w", err)
		}
		path += compressedExt
	}

	return os.WriteFile(path, data, 0644)
}

// EncodeBodies writes bodies as CSV with full float precision, so a table
// read back with DecodeBodies is bit-identical.
func EncodeBodies(wr io.Writer, bodies []physics.Body) error {
	w := csv.NewWriter(wr)
	header := []string{"id", "mass", "x", "y", "z", "vx", "vy", "vz"}
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for _, b := range bodies {
		row[0] = strconv.Itoa(b.ID)
		row[1] = formatFloat(b.Mass)
		row[2] = formatFloat(b.Pos.X)
		row[3] = formatFloat(b.Pos.Y)
		row[4] = formatFloat(b.Pos.Z)
		row[5] = formatFloat(b.Vel.X)
		row[6] = formatFloat(b.Vel.Y)
		row[7] = formatFloat(b.Vel.Z)
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func DecodeBodies(rd io.Reader) ([]physics.Body, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = 8

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []physics.Body{}, nil
	}

	bodies := make([]physics.Body, 0, len(records)-1)
	for line, record := range records[1:] {
		id, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+2, err)
		}

		var vals [7]float64
		for j := range vals {
			vals[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line+2, err)
			}
		}

		bodies = append(bodies, physics.Body{
			ID:   id,
			Mass: vals[0],
			Pos:  r3.Vec{X: vals[1], Y: vals[2], Z: vals[3]},
			Vel:  r3.Vec{X: vals[4], Y: vals[5], Z: vals[6]},
		})
	}

	return bodies, nil
}

// List returns all readable runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadBodies reads the final body table, compressed or not.
func (s *Store) LoadBodies(runID string) ([]physics.Body, error) {
	runDir := filepath.Join(s.baseDir, runID)

	data, err := os.ReadFile(filepath.Join(runDir, bodiesFile+compressedExt))
	switch {
	case err == nil:
		data, err = zstd.Decompress(nil, data)
		if err != nil {
			return nil, fmt.Errorf("decompress bodies: %w", err)
		}
	case os.IsNotExist(err):
		data, err = os.ReadFile(filepath.Join(runDir, bodiesFile))
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return DecodeBodies(bytes.NewReader(data))
}

func (s *Store) LoadTicks(runID string) ([]TickRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, ticksFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []TickRecord{}, nil
	}

	ticks := make([]TickRecord, 0, len(records)-1)
	for _, record := range records[1:] {
		tick, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		ns, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			continue
		}

		energy := math.NaN()
		if record[2] != "" {
			if v, err := strconv.ParseFloat(record[2], 64); err == nil {
				energy = v
			}
		}

		ticks = append(ticks, TickRecord{Tick: tick, Elapsed: time.Duration(ns), Energy: energy})
	}

	return ticks, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', floatPrecision, 64)
}
