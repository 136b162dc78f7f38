package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultServerURL = "http://localhost:8080"

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: defaultServerURL,
		Output:    "text",
		Verbose:   false,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SCORETRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".scoretracker"))
	}
	return v
}

// Load resolves settings from flags, environment and the optional config file.
// Flags win over the environment, which wins over the file.
func (c *Config) Load(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	c.ServerURL = v.GetString("server")
	c.Output = v.GetString("output")
	c.Verbose = v.GetBool("verbose")

	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	return nil
}
