package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kalambet/debreate/internal/config"
	"github.com/kalambet/debreate/internal/log"
	"github.com/kalambet/debreate/internal/startup"
)

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), store.Path())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configuration file if it is missing or corrupt",
	Long: `Create the configuration file if it is missing or corrupt.

An existing, valid file is left untouched unless --force is given.
To delete the file, run:
  rm -f ~/.config/debreate/config`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		var (
			res startup.Result
			err error
		)
		if force {
			res, err = startup.Reset(store)
		} else {
			res, err = startup.Bootstrap(store, log.WithComponent("startup"))
		}
		if err != nil {
			return err
		}

		if res.Initialized {
			printSuccess(cmd.ErrOrStderr(), "Created default configuration at %s", store.Path())
		} else {
			printSuccess(cmd.ErrOrStderr(), "Configuration at %s is valid", store.Path())
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		values, err := store.LoadAll()
		if err != nil {
			printWarning(cmd.ErrOrStderr(), "run 'debreate config init' to recreate the configuration")
			return err
		}
		return writeKeys(cmd, output, config.ShowAll(store.Schema(), values))
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value of a configuration key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := store.ReadValue(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v.String())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := store.WriteValue(key, value); err != nil {
			return err
		}

		printSuccess(cmd.ErrOrStderr(), "Set %s = %s", key, value)
		return nil
	},
}

var configDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Show the default value of every key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		return writeKeys(cmd, output, config.ShowAll(store.Schema(), nil))
	},
}

var configWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the configuration every time the file changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		debounce, _ := cmd.Flags().GetDuration("debounce")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watch(ctx, cmd, store, debounce)
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite the existing file with defaults")
	configShowCmd.Flags().StringP("output", "o", "text", "output format: text, yaml or json")
	configDefaultsCmd.Flags().StringP("output", "o", "text", "output format: text, yaml or json")
	configWatchCmd.Flags().Duration("debounce", config.DefaultDebounce, "wait this long for writes to settle")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configDefaultsCmd)
	configCmd.AddCommand(configWatchCmd)
}

func watch(ctx context.Context, cmd *cobra.Command, s *config.Store, debounce time.Duration) error {
	return s.Watch(ctx, debounce, func(values map[string]config.Value, err error) {
		if err != nil {
			printError(cmd.ErrOrStderr(), "%v", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s changed:\n", s.Path())
		for _, k := range config.ShowAll(s.Schema(), values) {
			printKey(cmd.OutOrStdout(), k.Key, k.Value)
		}
	})
}

func writeKeys(cmd *cobra.Command, format string, keys []config.KeyInfo) error {
	out := cmd.OutOrStdout()
	switch format {
	case "text", "":
		for _, k := range keys {
			printKey(out, k.Key, k.Value)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(keys); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(keys)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
