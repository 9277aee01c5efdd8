package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/glsim/internal/sim"
)

var ErrNoSeries = errors.New("storage: run has no series")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Demo      string             `json:"demo"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	FrameDt   float64            `json:"frame_dt"`
	Frames    int                `json:"frames"`
	Params    map[string]float64 `json:"params,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and series.csv into a new run directory named
// <demo>_<unix>. A second run in the same second gets a numeric suffix.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := s.now()
	base := fmt.Sprintf("%s_%d", meta.Demo, now.Unix())
	runID := base
	for n := 1; ; n++ {
		err := os.Mkdir(filepath.Join(s.baseDir, runID), 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
		runID = fmt.Sprintf("%s_%d", base, n)
	}
	runDir := filepath.Join(s.baseDir, runID)

	meta.ID = runID
	meta.Timestamp = now
	meta.Frames = result.Frames
	meta.Metrics = result.Metrics

	if err := writeRun(runDir, meta, result); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("save %s: %w", runID, err)
	}
	return runID, nil
}

// SeriesNames returns the series keys in a stable order.
func SeriesNames(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns every readable run, oldest first.
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
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// Series is the decoded content of series.csv.
type Series struct {
	Names  []string
	Times  []float64
	Values map[string][]float64
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) == 0 {
		return nil, ErrNoSeries
	}

	out := &Series{
		Names:  records[0][1:],
		Times:  make([]float64, 0, len(records)-1),
		Values: make(map[string][]float64, len(records[0])-1),
	}
	for _, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
		out.Times = append(out.Times, t)
		for j, name := range out.Names {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: %w", runID, err)
			}
			out.Values[name] = append(out.Values[name], v)
		}
	}

	return out, nil
}

// writeRun fills a fresh run directory. Save removes the directory when
// this fails so List never sees half-written runs.
func writeRun(runDir string, meta RunMetadata, result *sim.Result) error {
	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return err
	}
	if err := metaFile.Close(); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return err
	}
	if err := writeSeries(csvFile, result); err != nil {
		csvFile.Close()
		return err
	}
	return csvFile.Close()
}

func writeSeries(f *os.File, result *sim.Result) error {
	w := csv.NewWriter(f)
	names := SeriesNames(result.Series)
	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}
	for i, t := range result.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, name := range names {
			v := 0.0
			if i < len(result.Series[name]) {
				v = result.Series[name][i]
			}
			row = append(row, strconv.FormatFloat(v, 'g', 10, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
