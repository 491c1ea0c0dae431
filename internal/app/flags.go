package app

import (
	"strconv"

	"github.com/spf13/pflag"
)

// Config holds the viewer's command-line settings.
type Config struct {
	Sim      string
	File     string
	Scale    int
	TPS      int
	Seed     int64
	HUDWidth int
}

// NewConfig returns the viewer defaults.
func NewConfig() *Config {
	return &Config{Sim: "cpm", Scale: 3, TPS: 30, HUDWidth: 260}
}

// Bind attaches the settings to fs.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "Monte Carlo steps per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for resets (0 uses the config file's seed)")
	fs.IntVar(&c.HUDWidth, "hud-width", c.HUDWidth, "width of the parameter panel in pixels (0 hides it)")
}

// Overrides returns the settings the sim factory understands.
func (c *Config) Overrides() map[string]string {
	m := map[string]string{"config": c.File}
	if c.Seed != 0 {
		m["seed"] = strconv.FormatInt(c.Seed, 10)
	}
	return m
}
