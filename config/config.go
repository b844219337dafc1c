// Copyright (C) 2024 VectorQL, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package config loads the engine's ambient settings from a JSON or
// YAML manifest.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/vectorql/vq/page"
)

// EngineConfig captures the engine's ambient, mostly-fixed settings.
type EngineConfig struct {
	// RowBatchSize must equal page.RowBatchSize; it is exposed here
	// purely so a manifest can document and assert the invariant, not
	// because the engine is actually configurable at this dimension.
	RowBatchSize int `json:"rowBatchSize,omitempty"`
	// Alignment is a byte boundary, validated as a positive power of
	// two. Default 16. MiniPage allocation does not read it: page
	// always rounds up to its compiled-in page.Alignment.
	Alignment int `json:"alignment,omitempty"`
	// Packages names catalog.PackageManager packages, in order. Load
	// and Apply only record the list; neither loads any package.
	Packages []string `json:"packages,omitempty"`
	// EnableWideCopy gates the golang.org/x/sys/cpu-informed widened
	// copy path in page; false sticks to the scalar path.
	EnableWideCopy bool `json:"enableWideCopy,omitempty"`
}

// Default returns the configuration the engine assumes when no
// manifest is supplied.
func Default() EngineConfig {
	return EngineConfig{
		RowBatchSize:   page.RowBatchSize,
		Alignment:      16,
		EnableWideCopy: true,
	}
}

// Validate reports a non-nil error if c's fixed invariants don't
// hold: RowBatchSize must match the compiled-in page.RowBatchSize
// (it documents the invariant, it does not relax it), and Alignment
// must be a positive power of two.
func (c EngineConfig) Validate() error {
	if c.RowBatchSize != 0 && c.RowBatchSize != page.RowBatchSize {
		return fmt.Errorf("config: rowBatchSize %d does not match the compiled page.RowBatchSize %d", c.RowBatchSize, page.RowBatchSize)
	}
	if c.Alignment <= 0 || c.Alignment&(c.Alignment-1) != 0 {
		return fmt.Errorf("config: alignment %d is not a positive power of two", c.Alignment)
	}
	return nil
}

// Load reads and parses a manifest at path, dispatching on its file
// extension: ".json" uses encoding/json, ".yaml"/".yml" use
// sigs.k8s.io/yaml (which itself converts YAML to JSON before
// applying the same json struct tags). Unset fields default per
// Default, and the merged result is validated before being returned.
func Load(path string) (EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return EngineConfig{}, fmt.Errorf("config: parsing %s as JSON: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return EngineConfig{}, fmt.Errorf("config: parsing %s as YAML: %w", path, err)
		}
	default:
		return EngineConfig{}, fmt.Errorf("config: %s: unrecognized manifest extension %q (want .json, .yaml, or .yml)", path, ext)
	}

	if err := cfg.Validate(); err != nil {
		return EngineConfig{}, err
	}
	cfg.Apply()
	return cfg, nil
}

// Apply installs c's ambient effects that reach outside this
// package: currently just page's widened bulk-copy gate. Load calls
// this automatically once a manifest validates; a caller building an
// EngineConfig another way (e.g. Default alone) must call it
// explicitly before EnableWideCopy has any effect.
func (c EngineConfig) Apply() {
	page.SetWideCopyEnabled(c.EnableWideCopy)
}
