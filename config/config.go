package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aprsdecode/aprs"
	"aprsdecode/deviceid"
	"aprsdecode/packet"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// DecoderConfig holds settings passed to the packet decoder
type DecoderConfig struct {
	Callsigns      string `toml:"callsigns" yaml:"callsigns"`
	LocalTimezone  string `toml:"local_timezone" yaml:"local_timezone"`
	Latin1Comments bool   `toml:"latin1_comments" yaml:"latin1_comments"`
	Tocalls        string `toml:"tocalls" yaml:"tocalls"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Prefix string `toml:"prefix" yaml:"prefix"`
}

// OutputConfig holds settings for rendering decoded packets
type OutputConfig struct {
	TimestampFormat string `toml:"timestamp_format" yaml:"timestamp_format"`
}

// Config holds all application configuration
type Config struct {
	Decoder DecoderConfig `toml:"decoder" yaml:"decoder"`
	Log     LogConfig     `toml:"log" yaml:"log"`
	Output  OutputConfig  `toml:"output" yaml:"output"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Decoder: DecoderConfig{
			Callsigns:     "ax25",
			LocalTimezone: "UTC",
		},
		Log: LogConfig{
			Level:  "warn",
			Prefix: "aprs",
		},
		Output: OutputConfig{
			TimestampFormat: "%Y-%m-%d %H:%M:%S",
		},
	}
}

// Load reads the configuration from path. Files ending in .yaml or .yml
// are YAML, anything else is TOML. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	conf := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return conf, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &conf)
	default:
		err = toml.Unmarshal(data, &conf)
	}
	if err != nil {
		return conf, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := conf.Validate(); err != nil {
		return conf, fmt.Errorf("%s: %w", path, err)
	}
	return conf, nil
}

// Validate checks every value that Options and Logger would reject.
func (c Config) Validate() error {
	var errs []error
	if _, err := aprs.ParseCallsignPolicy(c.Decoder.Callsigns); err != nil {
		errs = append(errs, fmt.Errorf("decoder.callsigns: %w", err))
	}
	if _, err := time.LoadLocation(c.Decoder.LocalTimezone); err != nil {
		errs = append(errs, fmt.Errorf("decoder.local_timezone: %w", err))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// Options converts the decoder section to decoder options. logger may be
// nil.
func (c Config) Options(logger *log.Logger) (aprs.Options, error) {
	policy, err := aprs.ParseCallsignPolicy(c.Decoder.Callsigns)
	if err != nil {
		return aprs.Options{}, fmt.Errorf("decoder.callsigns: %w", err)
	}
	loc, err := time.LoadLocation(c.Decoder.LocalTimezone)
	if err != nil {
		return aprs.Options{}, fmt.Errorf("decoder.local_timezone: %w", err)
	}
	return aprs.Options{
		Callsigns:      policy,
		Location:       loc,
		Latin1Comments: c.Decoder.Latin1Comments,
		Logger:         logger,
	}, nil
}

// Logger builds a logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          c.Log.Prefix,
		ReportTimestamp: true,
	}), nil
}

// Devices returns the device table named by decoder.tocalls, or the
// embedded one when the key is empty.
func (c Config) Devices() (*deviceid.Registry, error) {
	if c.Decoder.Tocalls == "" {
		return deviceid.Default(), nil
	}
	f, err := os.Open(c.Decoder.Tocalls)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return deviceid.Load(f)
}

// Format renders a one-line summary of p with the configured timestamp
// format.
func (c Config) Format(p *packet.Packet) (string, error) {
	return p.Summary(c.Output.TimestampFormat)
}
