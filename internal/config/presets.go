package config

import "sort"

const (
	muEarth = "398600441800000"
	muMoon  = "4904869500000"

	siderealDay = "86164.098903691"
)

// Presets are the built-in scenarios.
var Presets = map[string]*Config{
	// Earth and a geostationary satellite, one sidereal day at dt = 1 s.
	"geostationary": {
		Name: "geostationary", Precision: 100, Dt: "1", Duration: siderealDay,
		Integrator: DefaultIntegrator, SampleEvery: 1, Track: []int{1},
		Bodies: []BodyConfig{
			{
				ID: 0, Name: "Earth", Mu: muEarth,
				Position: []string{"0", "0", "0"}, Velocity: []string{"0", "0", "0"},
				Color: "yellow", LineWidth: 10,
			},
			{
				ID: 1, Name: "Satellite", Mu: "0",
				Position: []string{"0", "42164172.365635383577096799539293955083066031653837348012252877476964638009148844154889181355716636945118781593343809856252972310123832275430095527195841108481741103906413079508017867973849688974305655", "0"},
				Velocity: []string{"-3074.6599995581131635343976149417506860553199673459634939196623537622866740578479534786575132710526141913312784129905210182570627182021366203776860929871905369761728458547363926825506497502959246256577", "0", "0"},
				Color:    "blue", LineWidth: 3,
			},
		},
	},
	// 400 km circular orbit, one period.
	"leo": {
		Name: "leo", Precision: 50, Dt: "1", Duration: "5554",
		Integrator: DefaultIntegrator, SampleEvery: 10, Track: []int{1},
		Bodies: []BodyConfig{
			{
				ID: 0, Name: "Earth", Mu: muEarth,
				Position: []string{"0", "0", "0"}, Velocity: []string{"0", "0", "0"},
				Color: "yellow", LineWidth: 10,
			},
			{
				ID: 1, Name: "Station", Mu: "0",
				Position: []string{"6778137", "0", "0"},
				Velocity: []string{"0", "7668.5581754070548970962718553707921850225576527111", "0"},
				Color:    "cyan", LineWidth: 2,
			},
		},
	},
	// Earth and Moon about their barycentre, one sidereal month at dt = 60 s.
	"earth-moon": {
		Name: "earth-moon", Precision: 40, Dt: "60", Duration: "2357400",
		Integrator: DefaultIntegrator, SampleEvery: 60, Track: []int{0, 1},
		Bodies: []BodyConfig{
			{
				ID: 0, Name: "Earth", Mu: muEarth,
				Position: []string{"-4672632.0149927602700182846391196932926220939188910", "0", "0"},
				Velocity: []string{"0", "-12.454065331294490936579114712183102438451396309176", "0"},
				Color:    "blue", LineWidth: 8,
			},
			{
				ID: 1, Name: "Moon", Mu: muMoon,
				Position: []string{"379727367.98500723972998171536088030670737790608111", "0", "0"},
				Velocity: []string{"0", "1012.0954172705405216645480384195878146118635524685", "0"},
				Color:    "gray", LineWidth: 3,
			},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
