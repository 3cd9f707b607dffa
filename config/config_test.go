package config

import (
	"sync"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Runtime != RuntimeMPI {
		t.Fatalf("default runtime = %v, want MPI", cfg.Runtime)
	}
	if !cfg.InitializeRuntime || !cfg.GPU || !cfg.Checked {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RingSize != DefaultRingSize {
		t.Fatalf("ring size = %d, want %d", cfg.RingSize, DefaultRingSize)
	}
}

func TestNormalizeClampsAndFills(t *testing.T) {
	cfg := Config{StackPrintLimit: 999, RingSize: 0, DrainRingThreshold: -1}
	cfg.Normalize()
	if cfg.StackPrintLimit != maxStackPrintLimit {
		t.Fatalf("stack print limit = %d, want %d", cfg.StackPrintLimit, maxStackPrintLimit)
	}
	if cfg.RingSize != DefaultRingSize {
		t.Fatalf("ring size = %d, want default", cfg.RingSize)
	}
	if cfg.DrainRingThreshold != DefaultDrainRingThreshold {
		t.Fatalf("drain threshold = %d, want default", cfg.DrainRingThreshold)
	}
}

func TestStoreHotReload(t *testing.T) {
	s := NewStore(Default())
	var wg sync.WaitGroup
	wg.Add(1)
	s.OnReload(func() { wg.Done() })
	s.SetOverrides(map[string]any{"feature_x": true})
	wg.Wait()
	if ov := s.Overrides(); ov["feature_x"] != true {
		t.Fatalf("unexpected overrides: %+v", ov)
	}
}
