// Package config resolves runtime settings from an optional .env file, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	EnvLevel      = "CITYFPS_LEVEL"
	EnvDifficulty = "CITYFPS_DIFFICULTY"
	EnvSeed       = "CITYFPS_SEED"
	EnvAudio      = "CITYFPS_AUDIO"
	EnvVolume     = "CITYFPS_VOLUME"
	EnvLogLevel   = "CITYFPS_LOG_LEVEL"
)

type Settings struct {
	Level      string
	Difficulty int
	Seed       int64
	Audio      bool
	Volume     float64
	LogLevel   string
	// Script runs a bundled edit script once the level is built.
	Script string
}

func Defaults() Settings {
	return Settings{
		Level:      "city.yaml",
		Difficulty: 1,
		Audio:      true,
		Volume:     0.8,
		LogLevel:   "info",
	}
}

// Load reads envFile (when it exists), then the environment, then args.
func Load(envFile string, args []string) (Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("config: %s: %w", envFile, err)
		}
	}
	s, err := FromEnv(os.Getenv)
	if err != nil {
		return Settings{}, err
	}
	if err := s.parseFlags(args); err != nil {
		return Settings{}, err
	}
	return s, s.Validate()
}

// FromEnv applies environment overrides on top of the defaults.
func FromEnv(getenv func(string) string) (Settings, error) {
	s := Defaults()
	var errs []error
	if v := getenv(EnvLevel); v != "" {
		s.Level = v
	}
	if v := getenv(EnvDifficulty); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", EnvDifficulty, err))
		}
		s.Difficulty = n
	}
	if v := getenv(EnvSeed); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", EnvSeed, err))
		}
		s.Seed = n
	}
	if v := getenv(EnvAudio); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", EnvAudio, err))
		}
		s.Audio = b
	}
	if v := getenv(EnvVolume); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", EnvVolume, err))
		}
		s.Volume = f
	}
	if v := getenv(EnvLogLevel); v != "" {
		s.LogLevel = strings.ToLower(v)
	}
	return s, errors.Join(errs...)
}

func (s *Settings) parseFlags(args []string) error {
	fl := flag.NewFlagSet("cityfps", flag.ContinueOnError)
	fl.StringVar(&s.Level, "level", s.Level, "level layout in levels/ (.yaml or .msgpack)")
	fl.IntVar(&s.Difficulty, "difficulty", s.Difficulty, "difficulty 1-6")
	fl.Int64Var(&s.Seed, "seed", s.Seed, "random seed, 0 picks one")
	fl.BoolVar(&s.Audio, "audio", s.Audio, "enable audio output")
	fl.Float64Var(&s.Volume, "volume", s.Volume, "master volume 0-1")
	fl.StringVar(&s.LogLevel, "log", s.LogLevel, "log level: debug, info, warn, error")
	fl.StringVar(&s.Script, "script", s.Script, "edit script to run after loading")
	if err := fl.Parse(args); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (s Settings) Validate() error {
	var errs []error
	if s.Difficulty < 1 || s.Difficulty > 6 {
		errs = append(errs, fmt.Errorf("config: difficulty %d out of range 1-6", s.Difficulty))
	}
	if s.Volume < 0 || s.Volume > 1 {
		errs = append(errs, fmt.Errorf("config: volume %v out of range 0-1", s.Volume))
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("config: log level: %w", err))
	}
	return errors.Join(errs...)
}

// ApplyLogging sets the global logger level.
func (s Settings) ApplyLogging() {
	lvl, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetReportTimestamp(true)
}
