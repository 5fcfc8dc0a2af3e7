package app

import (
	"flag"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Config represents the command-line parameters for the viewer.
type Config struct {
	Sim   string
	Scale int
	TPS   int
	// Seed is used by the reset key. Zero keeps the seed the sim was built with.
	Seed     int64
	HUDWidth int
	// Options is handed to the sim factory.
	Options map[string]string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Sim:      "snowflake",
		Scale:    2,
		TPS:      30,
		HUDWidth: 240,
		Options:  map[string]string{"rows": "301", "cols": "301"},
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.Var(seedFlag{c}, "seed", "simulation seed, same as -set seed=N")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "width of the parameter panel, 0 hides it")
	fs.Var(optionFlag(c.Options), "set", "sim option as key=value (repeatable)")
}

// seedFlag forwards -seed to the sim options so the factory and later resets
// agree on one seed.
type seedFlag struct{ c *Config }

func (f seedFlag) String() string {
	if f.c == nil {
		return "0"
	}
	return strconv.FormatInt(f.c.Seed, 10)
}

func (f seedFlag) Set(v string) error {
	seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return fmt.Errorf("seed %q: %w", v, err)
	}
	f.c.Seed = seed
	f.c.Options["seed"] = strconv.FormatInt(seed, 10)
	return nil
}

type optionFlag map[string]string

func (o optionFlag) String() string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + o[k]
	}
	return strings.Join(parts, ",")
}

func (o optionFlag) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("option %q is not key=value", v)
	}
	o[strings.TrimSpace(key)] = strings.TrimSpace(value)
	return nil
}
