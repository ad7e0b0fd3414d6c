/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/named-data/ndnd/std/log"
	"go.uber.org/multierr"
)

// Config represents the configuration of the forwarder.
type Config struct {
	Core struct {
		// Logging level
		LogLevel string `json:"log_level"`
		// Output log to file
		LogFile string `json:"log_file"`
		// Config file base dir
		BaseDir string `json:"-"`
		// Enable CPU profiling
		CpuProfile string `json:"-"`
		// Enable memory profiling
		MemProfile string `json:"-"`
	} `json:"core"`

	Fw struct {
		// Constant part of the per-packet processing delay
		LayerDelayConstant time.Duration `json:"layer_delay_constant"`
		// Additional processing delay per byte of packet length
		LayerDelaySlope time.Duration `json:"layer_delay_slope"`
		// Number of parallel servers of the input delay queue
		LayerDelayServers int `json:"layer_delay_servers"`
	} `json:"fw"`

	Tables struct {
		Fib struct {
			// Selects the algorithm used to implement the FIB
			// Allowed options: nametree, hashtable
			Algorithm string `json:"algorithm"`
		} `json:"fib"`
	} `json:"tables"`
}

// FwConfig holds the parameters of the delay-queue forwarding engine.
type FwConfig struct {
	LayerDelayConstant time.Duration
	LayerDelaySlope    time.Duration
	LayerDelayServers  int
}

const (
	DefaultLayerDelayConstant = time.Microsecond
	DefaultLayerDelaySlope    = time.Duration(0)
	DefaultLayerDelayServers  = 1
)

// DefaultConfig creates a Config holding the default settings.
func DefaultConfig() *Config {
	c := &Config{}
	c.Core.LogLevel = "INFO"
	c.Core.LogFile = ""
	c.Core.BaseDir = ""

	c.Fw.LayerDelayConstant = DefaultLayerDelayConstant
	c.Fw.LayerDelaySlope = DefaultLayerDelaySlope
	c.Fw.LayerDelayServers = DefaultLayerDelayServers

	c.Tables.Fib.Algorithm = "nametree"
	return c
}

// DefaultFwConfig returns the engine defaults.
func DefaultFwConfig() FwConfig {
	return DefaultConfig().FwConfig()
}

// FwConfig extracts the forwarding engine parameters.
func (c *Config) FwConfig() FwConfig {
	return FwConfig{
		LayerDelayConstant: c.Fw.LayerDelayConstant,
		LayerDelaySlope:    c.Fw.LayerDelaySlope,
		LayerDelayServers:  c.Fw.LayerDelayServers,
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() (err error) {
	if _, e := log.ParseLevel(c.Core.LogLevel); e != nil {
		err = multierr.Append(err, fmt.Errorf("core.log_level %q: %w", c.Core.LogLevel, e))
	}
	if c.Fw.LayerDelayConstant < 0 {
		err = multierr.Append(err, errors.New("fw.layer_delay_constant must not be negative"))
	}
	if c.Fw.LayerDelaySlope < 0 {
		err = multierr.Append(err, errors.New("fw.layer_delay_slope must not be negative"))
	}
	if c.Fw.LayerDelayServers < 1 {
		err = multierr.Append(err, fmt.Errorf("fw.layer_delay_servers must be at least 1, got %d", c.Fw.LayerDelayServers))
	}
	switch c.Tables.Fib.Algorithm {
	case "nametree", "hashtable":
	default:
		err = multierr.Append(err, fmt.Errorf("tables.fib.algorithm %q is not one of nametree, hashtable", c.Tables.Fib.Algorithm))
	}
	return err
}

// ResolveRelPath resolves a possibly relative path based on config file path.
func (c *Config) ResolveRelPath(target string) string {
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(c.Core.BaseDir, target)
}

// ReadConfig decodes a YAML configuration file on top of the defaults.
// Unknown keys are rejected.
func ReadConfig(file string) (*Config, error) {
	config := DefaultConfig()
	if err := ReadYaml(config, file); err != nil {
		return nil, err
	}
	config.Core.BaseDir = filepath.Dir(file)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", file, err)
	}
	return config, nil
}

// ReadYaml strictly decodes a YAML file into dest.
func ReadYaml(dest any, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", file, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f, yaml.Strict())
	if err = dec.Decode(dest); err != nil {
		return fmt.Errorf("unable to parse %s: %w", file, err)
	}
	return nil
}
