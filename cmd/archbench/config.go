package main

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/edwinsyarief/archindex"
)

const (
	DefaultWorkers        = 8
	DefaultArchetypes     = 4096
	DefaultComponents     = 64
	DefaultTablesPerGroup = 2
	DefaultQueryRounds    = 200
	DefaultLogLevel       = "info"
)

// Config represents the configuration of one benchmark run.
type Config struct {
	InitialCapacity int    `toml:"initial-capacity"`
	Workers         int    `toml:"workers"`
	Archetypes      int    `toml:"archetypes"`
	Components      int    `toml:"components"`
	TablesPerGroup  int    `toml:"tables-per-group"`
	QueryRounds     int    `toml:"query-rounds"`
	Cached          bool   `toml:"cached"`
	Seed            uint64 `toml:"seed"`
	LogLevel        string `toml:"log-level"`
	Profile         string `toml:"profile"`
	ProfilePath     string `toml:"profile-path"`
	Metrics         bool   `toml:"metrics"`
}

// NewConfig returns an instance of Config with defaults.
func NewConfig() Config {
	return Config{
		InitialCapacity: archindex.MinCapacity,
		Workers:         DefaultWorkers,
		Archetypes:      DefaultArchetypes,
		Components:      DefaultComponents,
		TablesPerGroup:  DefaultTablesPerGroup,
		QueryRounds:     DefaultQueryRounds,
		Cached:          true,
		Seed:            1,
		LogLevel:        DefaultLogLevel,
		ProfilePath:     ".",
	}
}

// Validate returns an error if the config is invalid.
func (c Config) Validate() error {
	switch {
	case c.InitialCapacity < 0:
		return errors.New("initial-capacity must be non-negative")
	case c.Workers <= 0:
		return errors.New("workers must be positive")
	case c.Archetypes <= 0:
		return errors.New("archetypes must be positive")
	case c.Components <= 0:
		return errors.New("components must be positive")
	case c.TablesPerGroup < 0:
		return errors.New("tables-per-group must be non-negative")
	case c.QueryRounds < 0:
		return errors.New("query-rounds must be non-negative")
	}
	switch c.Profile {
	case "", "cpu", "mem", "mutex", "block", "trace":
	default:
		return errors.Errorf("unknown profile mode %q", c.Profile)
	}
	return nil
}

// Load decodes a TOML file into a fresh Config holding the defaults for
// every key the file omits.
func Load(path string) (Config, error) {
	c := NewConfig()
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, errors.Wrapf(err, "decode config %s", path)
	}
	return c, nil
}

// BindFlags registers one flag per config key on fs, writing into c.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.InitialCapacity, "initial-capacity", c.InitialCapacity, "initial index capacity")
	fs.IntVarP(&c.Workers, "workers", "w", c.Workers, "number of concurrent writers")
	fs.IntVarP(&c.Archetypes, "archetypes", "n", c.Archetypes, "number of archetype lookups per writer")
	fs.IntVar(&c.Components, "components", c.Components, "number of distinct component types")
	fs.IntVar(&c.TablesPerGroup, "tables-per-group", c.TablesPerGroup, "tables appended to every new group")
	fs.IntVar(&c.QueryRounds, "query-rounds", c.QueryRounds, "query enumerations run alongside the writers")
	fs.BoolVar(&c.Cached, "cached", c.Cached, "use a cached query")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "random seed")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.Profile, "profile", c.Profile, "profile mode (cpu, mem, mutex, block, trace)")
	fs.StringVar(&c.ProfilePath, "profile-path", c.ProfilePath, "directory for profile output")
	fs.BoolVar(&c.Metrics, "metrics", c.Metrics, "print Prometheus metrics after the run")
}

// MergeUnchanged copies every value from file into c whose flag was not set
// explicitly on fs, so command-line flags win over the config file.
func (c *Config) MergeUnchanged(fs *pflag.FlagSet, file Config) {
	setters := map[string]func(){
		"initial-capacity": func() { c.InitialCapacity = file.InitialCapacity },
		"workers":          func() { c.Workers = file.Workers },
		"archetypes":       func() { c.Archetypes = file.Archetypes },
		"components":       func() { c.Components = file.Components },
		"tables-per-group": func() { c.TablesPerGroup = file.TablesPerGroup },
		"query-rounds":     func() { c.QueryRounds = file.QueryRounds },
		"cached":           func() { c.Cached = file.Cached },
		"seed":             func() { c.Seed = file.Seed },
		"log-level":        func() { c.LogLevel = file.LogLevel },
		"profile":          func() { c.Profile = file.Profile },
		"profile-path":     func() { c.ProfilePath = file.ProfilePath },
		"metrics":          func() { c.Metrics = file.Metrics },
	}
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		if set, ok := setters[f.Name]; ok {
			set()
		}
	})
}
