// SPDX-License-Identifier: EPL-2.0

// Package manifest records the configuration of a run next to its output.
//
// The record is written once as processing_config.json at the root of the
// output directory. Options that were not set are stored as null.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ik5/audcorpus/job"
)

// FileName is the manifest's name inside the output directory.
const FileName = "processing_config.json"

// Manifest describes one run.
type Manifest struct {
	RunID           string
	CreatedAt       time.Time
	InputDir        string
	OutputDir       string
	InputExtensions []string
	Workers         int
	Backend         string
	Config          job.TransformConfig
}

// New stamps a manifest with a fresh run id and the current time.
func New(inputDir, outputDir string, exts []string, workers int, backend string, cfg job.TransformConfig) Manifest {
	return Manifest{
		RunID:           uuid.NewString(),
		CreatedAt:       time.Now().UTC(),
		InputDir:        inputDir,
		OutputDir:       outputDir,
		InputExtensions: exts,
		Workers:         workers,
		Backend:         backend,
		Config:          cfg,
	}
}

// record is the on-disk layout: a flat object keyed like the CLI flags.
type record struct {
	RunID       string    `json:"run_id"`
	CreatedAt   time.Time `json:"created_at"`
	InputDir    string    `json:"input_dir"`
	OutputDir   string    `json:"output_dir"`
	InputExt    []string  `json:"input_ext"`
	Ext         string    `json:"ext"`
	Worker      int       `json:"worker"`
	Backend     string    `json:"backend"`
	Mono        bool      `json:"mono"`
	Resample    bool      `json:"resample"`
	SR          *int      `json:"sr"`
	Trim        bool      `json:"trim"`
	TopDB       float64   `json:"top_db"`
	FrameLength int       `json:"frame_length"`
	HopLength   int       `json:"hop_length"`
	Format      string    `json:"format"`
	Subtype     *string   `json:"subtype"`
	Codec       *string   `json:"codec"`
	AC          *int      `json:"ac"`
}

func intOrNil(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func stringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (m Manifest) MarshalJSON() ([]byte, error) {
	c := m.Config
	return json.Marshal(record{
		RunID:       m.RunID,
		CreatedAt:   m.CreatedAt,
		InputDir:    m.InputDir,
		OutputDir:   m.OutputDir,
		InputExt:    m.InputExtensions,
		Ext:         c.OutputExtension(),
		Worker:      m.Workers,
		Backend:     m.Backend,
		Mono:        c.Mono,
		Resample:    c.Resample,
		SR:          intOrNil(c.TargetSampleRate),
		Trim:        c.Trim,
		TopDB:       c.TopDB,
		FrameLength: c.FrameLength,
		HopLength:   c.HopLength,
		Format:      c.Format,
		Subtype:     stringOrNil(c.Subtype),
		Codec:       stringOrNil(c.Codec),
		AC:          intOrNil(c.Channels),
	})
}

func (m *Manifest) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*m = Manifest{
		RunID:           r.RunID,
		CreatedAt:       r.CreatedAt,
		InputDir:        r.InputDir,
		OutputDir:       r.OutputDir,
		InputExtensions: r.InputExt,
		Workers:         r.Worker,
		Backend:         r.Backend,
		Config: job.TransformConfig{
			Mono:             r.Mono,
			TargetSampleRate: deref(r.SR),
			Resample:         r.Resample,
			Trim:             r.Trim,
			TopDB:            r.TopDB,
			FrameLength:      r.FrameLength,
			HopLength:        r.HopLength,
			Format:           r.Format,
			Subtype:          deref(r.Subtype),
			Codec:            deref(r.Codec),
			Channels:         deref(r.AC),
			OutputExt:        r.Ext,
		},
	}
	return nil
}

// Write stores m as outputDir/processing_config.json, indented by four
// spaces, and returns the file path.
func Write(outputDir string, m Manifest) (string, error) {
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(outputDir, FileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// Read loads a manifest written by Write.
func Read(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return m, nil
}
