package config

import "sort"

var Presets = map[string]*Config{
	"quadratic": {
		Name: "quadratic", Coefficients: []float64{0, -0.5, 1}, Iterations: 100,
	},
	"cubic": {
		Name: "cubic", Coefficients: []float64{1, 4, -2, 1}, Iterations: 10,
	},
	"linear": {
		Name: "linear", Coefficients: []float64{-2, 1}, Iterations: 20,
	},
	"sqrt2": {
		Name: "sqrt2", Coefficients: []float64{-2, 0, 1}, Iterations: 30,
	},
	"cbrt2": {
		Name: "cbrt2", Coefficients: []float64{-2, 0, 0, 1}, Iterations: 50,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = p.Name
	cfg.Coefficients = append([]float64(nil), p.Coefficients...)
	cfg.Iterations = p.Iterations
	if p.Seed != nil {
		seed := *p.Seed
		cfg.Seed = &seed
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
