// Package pipelineconfig loads an optional YAML defaults file shared
// by the indexer and ldcalc binaries. CLI flags always win over values
// loaded here; this file only supplies fallbacks.
package pipelineconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults mirrors the tunables that recur across the stage binaries'
// CLI surfaces.
type Defaults struct {
	Low      int    `yaml:"low"`
	High     int    `yaml:"high"`
	LD       int    `yaml:"ld"`
	Artifreq uint64 `yaml:"artifreq"`
	Threads  string `yaml:"threads"`
}

// DefaultDefaults returns the built-in defaults used when no file is
// supplied at all.
func DefaultDefaults() Defaults {
	return Defaults{
		Low:      5,
		High:     35,
		LD:       2,
		Artifreq: 0,
		Threads:  "1",
	}
}

// Load reads a YAML defaults file. A missing path is not an error: it
// simply returns DefaultDefaults(), since this file is pure ambient
// convenience, never a required input.
func Load(path string) (Defaults, error) {
	d := DefaultDefaults()
	if path == "" {
		return d, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return d, fmt.Errorf("pipelineconfig: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("pipelineconfig: parsing %s: %w", path, err)
	}
	return d, nil
}
