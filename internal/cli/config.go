package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read as configuration.
const EnvPrefix = "IDSGO"

// configKeys maps configuration keys to the persistent flags they bind.
var configKeys = map[string]string{
	"format":           "format",
	"log_level":        "log-level",
	"db":               "db",
	"dictionary":       "dictionary",
	"disable_validate": "disable-validate",
	"no_color":         "no-color",
	"verbose":          "verbose",
}

// loadConfig merges idsgo.yaml, IDSGO_* environment variables and flags
// into opts. Flags set on the command line win, then the environment,
// then the config file, then flag defaults.
func loadConfig(cmd *cobra.Command, opts *RootOptions) error {
	v := viper.New()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("idsgo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flags := cmd.Root().PersistentFlags()
	for key, name := range configKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	// Config file is optional unless named explicitly
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	opts.Format = v.GetString("format")
	opts.LogLevel = v.GetString("log_level")
	opts.DB = v.GetString("db")
	opts.Dictionary = v.GetString("dictionary")
	opts.DisableValidate = v.GetBool("disable_validate")
	opts.NoColor = v.GetBool("no_color")
	opts.Verbose = v.GetBool("verbose")
	return nil
}
