package presets

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// exportFile is the on-disk YAML layout.
type exportFile struct {
	Version int      `yaml:"version"`
	Presets []Preset `yaml:"presets"`
}

const exportVersion = 1

// ImportResult counts what Import did.
type ImportResult struct {
	Added   int      `json:"added"`
	Skipped []string `json:"skipped,omitempty"`
}

// Export writes the user presets as YAML. Built-ins are left out since
// every store already has them.
func (s *Store) Export(w io.Writer) error {
	all, err := s.List()
	if err != nil {
		return err
	}
	file := exportFile{Version: exportVersion, Presets: []Preset{}}
	for _, p := range all {
		if !p.Builtin {
			file.Presets = append(file.Presets, p)
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("presets: encode yaml: %w", err)
	}
	return enc.Close()
}

// Import adds presets from YAML written by Export. Presets whose id
// already exists are skipped, not overwritten; an invalid preset aborts
// the import before anything is written.
func (s *Store) Import(r io.Reader) (ImportResult, error) {
	var file exportFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return ImportResult{}, fmt.Errorf("presets: decode yaml: %w", err)
	}
	if file.Version != 0 && file.Version != exportVersion {
		return ImportResult{}, fmt.Errorf("presets: unsupported export version %d", file.Version)
	}
	for i, p := range file.Presets {
		if err := p.Validate(); err != nil {
			return ImportResult{}, fmt.Errorf("presets: entry %d: %w", i, err)
		}
	}

	var res ImportResult
	for _, p := range file.Presets {
		_, err := s.Add(AddParams{ID: p.ID, Label: p.Label, Rough: p.Rough, Polished: p.Polished})
		switch {
		case errors.Is(err, ErrExists):
			res.Skipped = append(res.Skipped, p.ID)
		case err != nil:
			return res, err
		default:
			res.Added++
		}
	}
	return res, nil
}
