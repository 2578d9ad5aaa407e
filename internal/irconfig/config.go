// Package irconfig loads the TOML-backed tuning knobs for pool sizing, GC
// thresholds, and strict-mode sanity checking, the same DecodeFile idiom
// teacher's project manifest loader uses for its own TOML config.
package irconfig

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config tunes the allocator and collector without touching code.
// BasePoolCapacity scales every pool's growth-chunk size proportionally
// from a single configured base (see DESIGN.md's Open Question 5);
// Strict selects between AssertModuleSane's panic-on-violation behavior
// and BasicSanityCheck's structured report.
type Config struct {
	BasePoolCapacity int  `toml:"base_pool_capacity"`
	GCThreshold      int  `toml:"gc_threshold"`
	Strict           bool `toml:"strict"`
}

// Default returns the configuration matching the pool sizes named in
// 4.1: Global=128, Block=256, Expr=256, JumpTarget=256, Inst=512,
// Use=4096, proportional to a base of 128.
func Default() Config {
	return Config{
		BasePoolCapacity: 128,
		GCThreshold:      4096,
		Strict:           false,
	}
}

// Load parses a TOML config file, falling back to Default for any field
// the file leaves unset.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("base_pool_capacity") {
		cfg.BasePoolCapacity = Default().BasePoolCapacity
	}
	if !meta.IsDefined("gc_threshold") {
		cfg.GCThreshold = Default().GCThreshold
	}
	return cfg, nil
}

// PoolChunkSizes scales the per-class chunk sizes proportionally to
// BasePoolCapacity, keeping the same relative weights as 4.1's defaults
// (Global=1x, Block/Expr/JumpTarget=2x, Inst=4x, Use=32x of the base).
type PoolChunkSizes struct {
	Global, Block, Expr, JumpTarget, Inst, Use int
}

func (c Config) PoolChunkSizes() PoolChunkSizes {
	base := c.BasePoolCapacity
	if base <= 0 {
		base = Default().BasePoolCapacity
	}
	return PoolChunkSizes{
		Global:     base,
		Block:      base * 2,
		Expr:       base * 2,
		JumpTarget: base * 2,
		Inst:       base * 4,
		Use:        base * 32,
	}
}
