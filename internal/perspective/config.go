package perspective

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileConfig models the optional perspectives file:
//
//	perspectives:
//	  - name: w3c
//	    outputRoot: /srv/reports/w3c
//	  - name: css
//	    description: CSS specifications only
//	    documentSet: specs-css.json
//	    baseline: https://example.org/css/crawl.json
//	    outputRoot: reports/css
type FileConfig struct {
	Perspectives []PerspectiveConfig `yaml:"perspectives"`
}

// PerspectiveConfig overrides or declares one perspective. Empty fields keep
// the built-in value when the name already exists.
type PerspectiveConfig struct {
	Name            string `yaml:"name"`
	Description     string `yaml:"description,omitempty"`
	DocumentSet     string `yaml:"documentSet,omitempty"`
	PreferPublished *bool  `yaml:"preferPublished,omitempty"`
	Baseline        string `yaml:"baseline,omitempty"`
	OutputRoot      string `yaml:"outputRoot,omitempty"`
}

func (pc PerspectiveConfig) apply(p Perspective) Perspective {
	p.Name = pc.Name
	if pc.Description != "" {
		p.Description = pc.Description
	}
	if pc.DocumentSet != "" {
		p.DocumentSet = pc.DocumentSet
	}
	if pc.PreferPublished != nil {
		p.PreferPublished = *pc.PreferPublished
	}
	if pc.Baseline != "" {
		p.Baseline = pc.Baseline
	}
	if pc.OutputRoot != "" {
		p.OutputRoot = pc.OutputRoot
	}

	return p
}

// ParseConfig decodes a perspectives file and merges it over base.
func ParseConfig(data []byte, base *Registry) (*Registry, error) {
	var cfg FileConfig
	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode perspectives")
	}

	merged := base.All()
	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[p.Name] = i
	}

	for _, pc := range cfg.Perspectives {
		if pc.Name == "" {
			return nil, errors.Wrap(ErrInvalidPerspective, "name is required")
		}
		if i, ok := index[pc.Name]; ok {
			merged[i] = pc.apply(merged[i])

			continue
		}
		index[pc.Name] = len(merged)
		merged = append(merged, pc.apply(Perspective{}))
	}

	return NewRegistry(merged...)
}

// LoadFile reads a perspectives file and merges it over base.
func LoadFile(path string, base *Registry) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}

	reg, err := ParseConfig(data, base)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	return reg, nil
}
