// Package memory provides an in-memory structure database loaded from YAML.
package memory

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"nucascade/internal/structure"
	"nucascade/pkg/nucleus"
)

//go:embed data/default.yaml
var defaultDataset []byte

// Store is an immutable structure database held in memory.
// It is safe for concurrent readers once constructed.
type Store struct {
	schemes   map[nucleus.Nuclide]*nucleus.DecayScheme
	reactions map[nucleus.Nuclide][]structure.Transition
}

var _ structure.Database = (*Store)(nil)

// New builds a store from already constructed schemes and transition sets.
func New(schemes []*nucleus.DecayScheme, reactions map[nucleus.Nuclide][]structure.Transition) *Store {
	st := &Store{
		schemes:   make(map[nucleus.Nuclide]*nucleus.DecayScheme, len(schemes)),
		reactions: make(map[nucleus.Nuclide][]structure.Transition, len(reactions)),
	}
	for _, ds := range schemes {
		st.schemes[ds.Nuclide] = ds.Clone()
	}
	for target, trs := range reactions {
		st.reactions[target] = append([]structure.Transition(nil), trs...)
	}
	return st
}

// Open loads a store from the YAML dataset at path. An empty path selects
// the embedded default dataset. The loaded data is checked against the
// structure validation rules before the store is returned.
func Open(ctx context.Context, path string) (*Store, error) {
	data := defaultDataset
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read structure dataset: %w", err)
		}
		data = b
	}
	st, err := parseDataset(data)
	if err != nil {
		return nil, err
	}
	if _, err := structure.Validate(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Scheme returns a copy of the stored decay scheme for n.
func (s *Store) Scheme(_ context.Context, n nucleus.Nuclide) (*nucleus.DecayScheme, error) {
	ds, ok := s.schemes[n]
	if !ok {
		return nil, fmt.Errorf("scheme for %s: %w", n, structure.ErrNotFound)
	}
	return ds.Clone(), nil
}

// Nuclides lists every nuclide with a stored scheme, ordered by Z then A.
func (s *Store) Nuclides(context.Context) ([]nucleus.Nuclide, error) {
	out := make([]nucleus.Nuclide, 0, len(s.schemes))
	for n := range s.schemes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Z != out[j].Z {
			return out[i].Z < out[j].Z
		}
		return out[i].A < out[j].A
	})
	return out, nil
}

// Transitions returns the transition strengths for reactions on target.
func (s *Store) Transitions(_ context.Context, target nucleus.Nuclide) ([]structure.Transition, error) {
	trs, ok := s.reactions[target]
	if !ok {
		return nil, fmt.Errorf("transitions for target %s: %w", target, structure.ErrNotFound)
	}
	return append([]structure.Transition(nil), trs...), nil
}

// Close releases nothing; the store lives entirely in memory. It exists so
// every structure backend shares the same handle lifecycle.
func (s *Store) Close() error { return nil }

// Targets lists every reaction target with stored transitions, ordered by
// Z then A.
func (s *Store) Targets(context.Context) ([]nucleus.Nuclide, error) {
	out := make([]nucleus.Nuclide, 0, len(s.reactions))
	for n := range s.reactions {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Z != out[j].Z {
			return out[i].Z < out[j].Z
		}
		return out[i].A < out[j].A
	})
	return out, nil
}

type datasetFile struct {
	Nuclides  []datasetNuclide  `yaml:"nuclides"`
	Reactions []datasetReaction `yaml:"reactions"`
}

type datasetNuclide struct {
	Z      int            `yaml:"z"`
	A      int            `yaml:"a"`
	Levels []datasetLevel `yaml:"levels"`
}

type datasetLevel struct {
	Energy   float64         `yaml:"energy"`
	TwoJ     int             `yaml:"two_j"`
	Parity   string          `yaml:"parity"`
	Branches []datasetBranch `yaml:"branches"`
}

type datasetBranch struct {
	Target      int     `yaml:"target"`
	Probability float64 `yaml:"probability"`
}

type datasetReaction struct {
	Target struct {
		Z int `yaml:"z"`
		A int `yaml:"a"`
	} `yaml:"target"`
	Transitions []structure.Transition `yaml:"transitions"`
}

func parseDataset(data []byte) (*Store, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var file datasetFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode structure dataset: %w", err)
	}

	st := &Store{
		schemes:   make(map[nucleus.Nuclide]*nucleus.DecayScheme, len(file.Nuclides)),
		reactions: make(map[nucleus.Nuclide][]structure.Transition, len(file.Reactions)),
	}
	for _, dn := range file.Nuclides {
		nd := nucleus.Nuclide{Z: dn.Z, A: dn.A}
		if !nd.Valid() {
			return nil, fmt.Errorf("dataset nuclide Z=%d A=%d is not valid", dn.Z, dn.A)
		}
		if _, dup := st.schemes[nd]; dup {
			return nil, fmt.Errorf("dataset repeats nuclide %s", nd)
		}
		ds := &nucleus.DecayScheme{Nuclide: nd}
		for i, dl := range dn.Levels {
			parity, err := nucleus.ParseParity(dl.Parity)
			if err != nil {
				return nil, fmt.Errorf("nuclide %s level %d: %w", nd, i, err)
			}
			lv := nucleus.Level{Energy: dl.Energy, TwoJ: dl.TwoJ, Parity: parity}
			for _, db := range dl.Branches {
				lv.Branches = append(lv.Branches, nucleus.GammaBranch{
					Target:      db.Target,
					Probability: db.Probability,
				})
			}
			ds.Levels = append(ds.Levels, lv)
		}
		st.schemes[nd] = ds
	}
	for _, dr := range file.Reactions {
		target := nucleus.Nuclide{Z: dr.Target.Z, A: dr.Target.A}
		if !target.Valid() {
			return nil, fmt.Errorf("dataset reaction target Z=%d A=%d is not valid", dr.Target.Z, dr.Target.A)
		}
		if _, dup := st.reactions[target]; dup {
			return nil, fmt.Errorf("dataset repeats reaction target %s", target)
		}
		trs := append([]structure.Transition(nil), dr.Transitions...)
		sort.Slice(trs, func(i, j int) bool { return trs[i].Energy < trs[j].Energy })
		st.reactions[target] = trs
	}
	return st, nil
}
