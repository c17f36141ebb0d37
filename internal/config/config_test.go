package config

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLoadFromDefaults(t *testing.T) {
	conf, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	want := Config{
		LogLevel:                zapcore.InfoLevel,
		Workers:                 0,
		QueueSize:               64,
		DefaultQuality:          90,
		MosaicParallelThreshold: 4,
		AutoOrient:              false,
		MaxRequestBytes:         64 << 20,
		MaxPixels:               1 << 28,
	}
	if *conf != want {
		t.Errorf("defaults: got %+v, want %+v", *conf, want)
	}
}

func TestLoadFromOverrides(t *testing.T) {
	conf, err := LoadFrom(map[string]string{
		"IMAGE_ENGINE_LOG_LEVEL":       "debug",
		"IMAGE_ENGINE_WORKERS":         "3",
		"IMAGE_ENGINE_DEFAULT_QUALITY": "75",
		"IMAGE_ENGINE_AUTO_ORIENT":     "true",
		"IMAGE_ENGINE_MAX_PIXELS":      "1000",
		"WORKERS":                      "99",
	})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if conf.LogLevel != zapcore.DebugLevel {
		t.Errorf("LogLevel: got %v, want debug", conf.LogLevel)
	}
	if conf.Workers != 3 {
		t.Errorf("Workers: got %d, want 3", conf.Workers)
	}
	if conf.DefaultQuality != 75 {
		t.Errorf("DefaultQuality: got %d, want 75", conf.DefaultQuality)
	}
	if !conf.AutoOrient {
		t.Error("AutoOrient: got false, want true")
	}
	if conf.MaxPixels != 1000 {
		t.Errorf("MaxPixels: got %d, want 1000", conf.MaxPixels)
	}
}

func TestLoadFromInvalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"bad level", map[string]string{"IMAGE_ENGINE_LOG_LEVEL": "loud"}},
		{"not a number", map[string]string{"IMAGE_ENGINE_WORKERS": "many"}},
		{"negative workers", map[string]string{"IMAGE_ENGINE_WORKERS": "-1"}},
		{"zero queue", map[string]string{"IMAGE_ENGINE_QUEUE_SIZE": "0"}},
		{"quality too high", map[string]string{"IMAGE_ENGINE_DEFAULT_QUALITY": "101"}},
		{"zero threshold", map[string]string{"IMAGE_ENGINE_MOSAIC_PARALLEL_THRESHOLD": "0"}},
		{"tiny request", map[string]string{"IMAGE_ENGINE_MAX_REQUEST_BYTES": "10"}},
		{"zero pixels", map[string]string{"IMAGE_ENGINE_MAX_PIXELS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFrom(tt.vars); err == nil {
				t.Errorf("LoadFrom(%v): expected error", tt.vars)
			}
		})
	}
}
