package config

import (
	"maps"
	"sort"
)

var Presets = map[string]map[string]*Config{
	"constant": {
		"dummy": {
			Simulator: "constant", Report: "console", Paths: 1, Steps: 1,
			Params: map[string]any{"values": []any{1, 2, 3}},
		},
	},
	"randomwalk": {
		"small": {
			Simulator: "randomwalk", Report: "console", Paths: 100, Steps: 50, Seed: 1,
		},
		"drifting": {
			Simulator: "randomwalk", Report: "margin", Paths: 1000, Steps: 100, Seed: 1,
			Params: map[string]any{"drift": 0.1, "sigma": 1.0},
		},
		"volatile": {
			Simulator: "randomwalk", Report: "plot", Paths: 500, Steps: 200, Seed: 1,
			Params: map[string]any{"sigma": 3.0},
		},
	},
	"gbm": {
		"equity": {
			Simulator: "gbm", Report: "margin", Paths: 2000, Steps: 252, Seed: 1,
			Params: map[string]any{"s0": 100.0, "mu": 0.07, "sigma": 0.2},
		},
		"crypto": {
			Simulator: "gbm", Report: "plot", Paths: 500, Steps: 365, Seed: 1,
			Params:        map[string]any{"s0": 30000.0, "mu": 0.2, "sigma": 0.9, "dt": 1.0 / 365},
			ReportOptions: map[string]any{"paths": 8},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
func GetPreset(simulator, preset string) *Config {
	simPresets, ok := Presets[simulator]
	if !ok {
		return nil
	}
	cfg, ok := simPresets[preset]
	if !ok {
		return nil
	}
	cp := *cfg
	cp.Params = maps.Clone(cfg.Params)
	cp.ReportOptions = maps.Clone(cfg.ReportOptions)
	return &cp
}

func ListPresets(simulator string) []string {
	simPresets, ok := Presets[simulator]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(simPresets))
	for name := range simPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
