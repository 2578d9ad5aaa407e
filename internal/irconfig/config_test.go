package irconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesDocumentedPoolSizes(t *testing.T) {
	cfg := Default()
	sizes := cfg.PoolChunkSizes()

	want := PoolChunkSizes{Global: 128, Block: 256, Expr: 256, JumpTarget: 256, Inst: 512, Use: 4096}
	if sizes != want {
		t.Errorf("PoolChunkSizes() = %+v, want %+v", sizes, want)
	}
}

func TestLoadFallsBackToDefaultsForUnsetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ir.toml")
	if err := os.WriteFile(path, []byte("strict = true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Strict {
		t.Errorf("Strict = false, want true")
	}
	if cfg.BasePoolCapacity != Default().BasePoolCapacity {
		t.Errorf("BasePoolCapacity = %d, want default %d", cfg.BasePoolCapacity, Default().BasePoolCapacity)
	}
	if cfg.GCThreshold != Default().GCThreshold {
		t.Errorf("GCThreshold = %d, want default %d", cfg.GCThreshold, Default().GCThreshold)
	}
}

func TestLoadHonorsExplicitValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ir.toml")
	content := "base_pool_capacity = 16\ngc_threshold = 1024\nstrict = false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BasePoolCapacity != 16 {
		t.Errorf("BasePoolCapacity = %d, want 16", cfg.BasePoolCapacity)
	}
	if cfg.GCThreshold != 1024 {
		t.Errorf("GCThreshold = %d, want 1024", cfg.GCThreshold)
	}
}
