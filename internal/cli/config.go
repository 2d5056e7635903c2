package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/audio-extract/internal/config"
	"github.com/alnah/audio-extract/internal/logging"
)

// configEnvVars maps each key to its environment fallback.
var configEnvVars = map[string]string{
	config.KeyOutputDir: config.EnvOutputDir,
	config.KeyLogLevel:  config.EnvLogLevel,
}

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/audio-extract/config.
Settings can also be provided via environment variables.

Supported settings:
  output-dir    Base directory for extractions (env: AUDIO_EXTRACT_OUTPUT_DIR)
  log-level     Default log level (env: AUDIO_EXTRACT_LOG_LEVEL)`,
		Example: `  audio-extract config set output-dir ~/Music/extracts
  audio-extract config get output-dir
  audio-extract config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

The output directory is created if it doesn't exist.`,
		Example: `  audio-extract config set output-dir ~/Music/extracts
  audio-extract config set log-level debug`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.`,
		Example: `  audio-extract config get output-dir`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List all configuration values",
		Long:    `List configuration values from the file and from environment variables.`,
		Example: `  audio-extract config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if err := config.ValidateKey(key); err != nil {
		return err
	}

	switch key {
	case config.KeyOutputDir:
		expanded := config.ExpandPath(value)
		if err := config.EnsureOutputDir(expanded); err != nil {
			return fmt.Errorf("invalid output-dir: %w", err)
		}
		value = expanded
	case config.KeyLogLevel:
		if _, err := logging.ParseLevel(value); err != nil {
			return fmt.Errorf("invalid log-level: %w", err)
		}
		value = strings.ToLower(strings.TrimSpace(value))
	}

	if err := config.Save(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	if err := config.ValidateKey(key); err != nil {
		return err
	}

	value, err := config.Get(key)
	if err != nil {
		return err
	}
	if value == "" {
		value = env.Getenv(configEnvVars[key])
	}

	if value != "" {
		fmt.Fprintln(env.Stdout, value)
	}
	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	for _, key := range config.Keys() {
		if _, ok := data[key]; ok {
			continue
		}
		if envVal := env.Getenv(configEnvVars[key]); envVal != "" {
			data[key] = envVal + " (from env)"
		}
	}

	if len(data) == 0 {
		fmt.Fprintln(env.Stdout, "No configuration set.")
		fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range config.Keys() {
			fmt.Fprintf(env.Stdout, "  %s\n", key)
		}
		return nil
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(env.Stdout, "%s=%s\n", k, data[k])
	}
	return nil
}
