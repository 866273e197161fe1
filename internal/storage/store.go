// Package storage persists finished runs: per-run directories holding JSON
// metadata and a CSV trajectory, enough for the plot and export commands to
// reconstruct a run later.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/phaseplot/internal/dynamo"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata captures everything needed to re-render or re-derive a run:
// the equation text and parameters allow recompiling the system.
type RunMetadata struct {
	ID        string             `json:"id"`
	System    string             `json:"system"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Variables []string           `json:"variables"`
	Equations []string           `json:"equations"`
	Params    map[string]float64 `json:"params"`
	Method    string             `json:"method"`
	Dt        float64            `json:"dt"`
	TEnd      float64            `json:"tend"`
	Success   bool               `json:"success"`
	Message   string             `json:"message"`
	Steps     int                `json:"steps"`
}

// Save writes one finished run and returns its generated id.
func (s *Store) Save(def *dynamo.EquationDefinition, p dynamo.Params, cfg dynamo.Config, result *dynamo.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", def.ID(), time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	eqs := make([]string, def.Dim())
	for i, v := range def.Variables() {
		eqs[i] = fmt.Sprintf("d%s/dt = %s", v, def.Expressions()[i])
	}

	meta := RunMetadata{
		ID:        runID,
		System:    def.ID(),
		Name:      def.Name(),
		Timestamp: time.Now(),
		Variables: def.Variables(),
		Equations: eqs,
		Params:    p,
		Method:    string(cfg.Method),
		Dt:        cfg.Dt,
		TEnd:      cfg.TEnd,
		Success:   result.Success,
		Message:   result.Message,
		Steps:     result.Steps,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := s.writeTrajectory(runDir, def.Variables(), result); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) writeTrajectory(runDir string, vars []string, result *dynamo.Result) error {
	f, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := append([]string{"time"}, vars...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.States {
		row := make([]string, 0, len(vars)+1)
		row = append(row, strconv.FormatFloat(result.Times[i], 'g', -1, 64))
		for _, v := range result.States[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

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
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory reconstructs the stored Result of a run. Success, Message
// and Steps come from the metadata.
func (s *Store) LoadTrajectory(runID string) (*dynamo.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	res := &dynamo.Result{
		Success: meta.Success,
		Message: meta.Message,
		Steps:   meta.Steps,
	}
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			continue
		}
		state := make(dynamo.State, 0, len(rec)-1)
		for _, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: bad value %q in %s", field, runID)
			}
			state = append(state, v)
		}
		res.Times = append(res.Times, t)
		res.States = append(res.States, state)
	}
	return res, nil
}
