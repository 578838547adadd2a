// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import "testing"

func TestLoadWithKoanfDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Cache.Capacity != 200 {
		t.Errorf("Cache.Capacity = %d, want 200", cfg.Cache.Capacity)
	}
}

func TestLoadWithKoanfEnvOverride(t *testing.T) {
	t.Setenv("SCUBADUCK_PORT", "9999")
	t.Setenv("SCUBADUCK_DATASET_PATH", "/data/events.csv")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Dataset.Path != "/data/events.csv" {
		t.Errorf("Dataset.Path = %q, want /data/events.csv", cfg.Dataset.Path)
	}
}

func TestEnvTransformFuncMapsKnownKeys(t *testing.T) {
	cases := map[string]string{
		"DB":                    "dataset.path",
		"RATE_LIMIT_PER_MINUTE": "security.rate_limit_per_minute",
		"LOG_LEVEL":             "logging.level",
	}
	for in, want := range cases {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
