// Package config reads engine settings from IMAGE_ENGINE_* environment
// variables.
package config

import (
	"github.com/caarlos0/env/v8"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

// Prefix is prepended to every variable name.
const Prefix = "IMAGE_ENGINE_"

type Config struct {
	LogLevel zapcore.Level `env:"LOG_LEVEL" envDefault:"info"`

	// Workers is the size of the task pool; 0 means GOMAXPROCS.
	Workers   int `env:"WORKERS" envDefault:"0"`
	QueueSize int `env:"QUEUE_SIZE" envDefault:"64"`

	DefaultQuality          int  `env:"DEFAULT_QUALITY" envDefault:"90"`
	MosaicParallelThreshold int  `env:"MOSAIC_PARALLEL_THRESHOLD" envDefault:"4"`
	AutoOrient              bool `env:"AUTO_ORIENT" envDefault:"false"`

	// MaxRequestBytes caps one line of server input.
	MaxRequestBytes int `env:"MAX_REQUEST_BYTES" envDefault:"67108864"`

	// MaxPixels caps the pixel count of decoded inputs and of every output.
	MaxPixels int `env:"MAX_PIXELS" envDefault:"268435456"`
}

// Load parses the process environment.
func Load() (*Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	conf := &Config{}
	if err := env.ParseWithOptions(conf, opts); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate checks ranges that the environment parser cannot.
func (c *Config) Validate() error {
	switch {
	case c.Workers < 0:
		return errors.Errorf("config: %sWORKERS must be >= 0, got %d", Prefix, c.Workers)
	case c.QueueSize < 1:
		return errors.Errorf("config: %sQUEUE_SIZE must be >= 1, got %d", Prefix, c.QueueSize)
	case c.DefaultQuality < 1 || c.DefaultQuality > 100:
		return errors.Errorf("config: %sDEFAULT_QUALITY must be in [1,100], got %d", Prefix, c.DefaultQuality)
	case c.MosaicParallelThreshold < 1:
		return errors.Errorf("config: %sMOSAIC_PARALLEL_THRESHOLD must be >= 1, got %d", Prefix, c.MosaicParallelThreshold)
	case c.MaxRequestBytes < 1024:
		return errors.Errorf("config: %sMAX_REQUEST_BYTES must be >= 1024, got %d", Prefix, c.MaxRequestBytes)
	case c.MaxPixels < 1:
		return errors.Errorf("config: %sMAX_PIXELS must be >= 1, got %d", Prefix, c.MaxPixels)
	}
	return nil
}
