package hog

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Manifest describes a create job as a YAML document:
//
//	output: full.hog
//	inputs:
//	  - d3.hog
//	  - patch.hog
//	  - extra/readme.txt
//
// Inputs keep their listed order, so later entries override earlier
// ones exactly like command-line inputs do.
type Manifest struct {
	Output string   `yaml:"output"`
	Inputs []string `yaml:"inputs"`
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[hog] Cannot read manifest '%s'", path)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "[hog] Cannot parse manifest '%s'", path)
	}
	if len(m.Inputs) == 0 {
		return nil, errors.Wrapf(ErrEmptyInput, "manifest '%s' lists no inputs", path)
	}
	return &m, nil
}
