// Package config loads and validates the simulator's configuration
// surface (§6): flags first, mirroring the teacher's own flag-based
// main.go, with each flag's default sourced from an environment
// variable override in the style of fweilun-Ark's
// internal/config/config.go — so a deployment can pin values without
// touching the invocation, while a one-off run can still override with
// a flag. Unknown flags are rejected by the standard flag package
// itself; missing or invalid required values raise errs.ConfigError
// before a Simulator is ever constructed.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"ridesim/errs"
	"ridesim/kernel"
)

// Config is the fully-parsed, validated configuration surface.
type Config struct {
	NumberOfAgents          int
	ResourceMaximumLifeTime float64
	AssignmentPeriod        float64
	Algorithm               kernel.Algorithm
	DatasetPath             string
	MapPath                 string
	BoundingPolygonPath     string
	Seed                    int64
	SpeedReductionFactor    float64
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// Parse builds a FlagSet over args, applies environment-variable
// defaults per the RIDESIM_* keys named in SPEC_FULL.md's ambient stack
// section, and validates the result.
func Parse(args []string) (*Config, error) {
	return ParseInto(flag.NewFlagSet("ridesim", flag.ContinueOnError), args)
}

// ParseInto registers the config flags onto a caller-supplied FlagSet
// and parses args against it, so a binary that needs additional flags
// of its own (cmd/ridesim's -serve, -addr, ...) can register those on
// the same set first and get a single, conflict-free Parse call.
func ParseInto(fs *flag.FlagSet, args []string) (*Config, error) {
	numberOfAgents := fs.Int("num_agents", int(envOrDefaultInt("RIDESIM_NUM_AGENTS", 10)), "number of agents in the fleet")
	maxLifetime := fs.Float64("max_lifetime", envOrDefaultFloat("RIDESIM_MAX_LIFETIME", 600), "resource maximum lifetime, seconds")
	assignmentPeriod := fs.Float64("assignment_period", envOrDefaultFloat("RIDESIM_ASSIGNMENT_PERIOD", 30), "batching window length, seconds")
	algorithm := fs.String("algorithm", envOrDefault("RIDESIM_ALGORITHM", "fair"), "assignment algorithm: fair or optimum")
	dataset := fs.String("dataset", envOrDefault("RIDESIM_DATASET", ""), "path to the resource dataset")
	mapPath := fs.String("map", envOrDefault("RIDESIM_MAP", ""), "path to the map file")
	polygon := fs.String("polygon", envOrDefault("RIDESIM_POLYGON", ""), "path to the bounding polygon file")
	seed := fs.Int64("seed", envOrDefaultInt("RIDESIM_SEED", 1), "agent placement seed")
	speedFactor := fs.Float64("speed_factor", envOrDefaultFloat("RIDESIM_SPEED_FACTOR", 1.0), "speed reduction factor, (0,1]")

	if err := fs.Parse(args); err != nil {
		return nil, errs.NewConfigError("flags", err)
	}

	algo, ok := kernel.ParseAlgorithm(*algorithm)
	if !ok {
		return nil, errs.NewConfigError("assignmentAlgorithm", fmt.Errorf("must be \"fair\" or \"optimum\", got %q", *algorithm))
	}

	cfg := &Config{
		NumberOfAgents:          *numberOfAgents,
		ResourceMaximumLifeTime: *maxLifetime,
		AssignmentPeriod:        *assignmentPeriod,
		Algorithm:               algo,
		DatasetPath:             *dataset,
		MapPath:                 *mapPath,
		BoundingPolygonPath:     *polygon,
		Seed:                    *seed,
		SpeedReductionFactor:    *speedFactor,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every recognized key against the constraints in §6.
func (c *Config) Validate() error {
	if c.NumberOfAgents <= 0 {
		return errs.NewConfigError("numberOfAgents", fmt.Errorf("must be positive, got %d", c.NumberOfAgents))
	}
	if c.ResourceMaximumLifeTime <= 0 {
		return errs.NewConfigError("resourceMaximumLifeTime", fmt.Errorf("must be positive, got %v", c.ResourceMaximumLifeTime))
	}
	if c.AssignmentPeriod <= 0 {
		return errs.NewConfigError("assignmentPeriod", fmt.Errorf("must be positive, got %v", c.AssignmentPeriod))
	}
	if c.MapPath == "" {
		return errs.NewConfigError("mapPath", fmt.Errorf("required"))
	}
	if c.SpeedReductionFactor <= 0 || c.SpeedReductionFactor > 1 {
		return errs.NewConfigError("speedReductionFactor", fmt.Errorf("must be in (0, 1], got %v", c.SpeedReductionFactor))
	}
	return nil
}
