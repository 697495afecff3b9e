package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings from the txsite.yaml file.
type Config struct {
	ResourceType string `yaml:"resource_type"`
	Source       string `yaml:"source"`
	Output       string `yaml:"output"`
	Template     string `yaml:"template"`
	Static       string `yaml:"static"`
	Clean        bool   `yaml:"clean"`
	Unsafe       bool   `yaml:"unsafe"`
	Port         int    `yaml:"port"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ResourceType: "bible",
		Source:       "content",
		Output:       "public",
		Template:     "templates/project-page.html",
		Static:       "static",
		Port:         1313,
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not an
// error. Values from a .env file and TXSITE_* variables override the file.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("could not parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("could not load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"TXSITE_RESOURCE_TYPE": &cfg.ResourceType,
		"TXSITE_SOURCE":        &cfg.Source,
		"TXSITE_OUTPUT":        &cfg.Output,
		"TXSITE_TEMPLATE":      &cfg.Template,
		"TXSITE_STATIC":        &cfg.Static,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	bools := map[string]*bool{
		"TXSITE_CLEAN":  &cfg.Clean,
		"TXSITE_UNSAFE": &cfg.Unsafe,
	}
	for key, dst := range bools {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = b
		}
	}
	if v, ok := os.LookupEnv("TXSITE_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TXSITE_PORT: %w", err)
		}
		cfg.Port = port
	}
	return nil
}

// Validate reports settings a build cannot proceed without.
func (c Config) Validate() error {
	if c.Source == "" {
		return errors.New("source directory is not set")
	}
	if c.Output == "" {
		return errors.New("output directory is not set")
	}
	if c.Template == "" {
		return errors.New("template file is not set")
	}
	return nil
}
