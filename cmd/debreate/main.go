package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/kalambet/debreate/internal/config"
	"github.com/kalambet/debreate/internal/log"
)

var version = "dev"

// codeExitBase offsets configuration codes so they never collide with the
// generic failure status 1.
const codeExitBase = 10

// store is rebuilt from the persistent flags before every command runs.
var store *config.Store

var rootCmd = &cobra.Command{
	Use:               "debreate",
	Short:             "Debreate configuration tool",
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "configuration file (default $DEBREATE_CONFIG or ~/.config/debreate/config)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, "%v", err)
		os.Exit(exitCode(err))
	}
}

func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")

	log.Configure(log.Config{Level: level, Output: cmd.ErrOrStderr(), Console: true})

	if path == "" {
		path = os.Getenv("DEBREATE_CONFIG")
	}
	store = config.NewStore(path, config.WithLogger(log.WithComponent("config")))
	return nil
}

// exitCode maps configuration failures to codeExitBase plus their code so
// scripts can tell them apart; anything else exits 1.
func exitCode(err error) int {
	var ce *config.Error
	if errors.As(err, &ce) && ce.Code != config.Success {
		return codeExitBase + int(ce.Code)
	}
	return 1
}
