// Package cli wires the musicdna command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ewilliams-labs/musicdna/internal/config"
)

// NewRootCmd builds the command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "musicdna",
		Short:         "Builds a Music DNA profile from Spotify listening history",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.musicdna.yaml)")
	root.PersistentFlags().StringP(
		"database", "d", "musicdna.db", "Path to the SQLite snapshot database")
	bindFlags(v, root.PersistentFlags(), map[string]string{"database": config.KeyDatabase})

	load := func() (config.Config, error) {
		return config.Load(v, cfgFile)
	}

	root.AddCommand(
		newServeCmd(v, load),
		newAnalyzeCmd(),
		newHistoryCmd(load),
	)
	return root
}

// bindFlags maps flag names to config keys. Unset flags fall back to
// environment and config file values.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	flags.VisitAll(func(f *pflag.Flag) {
		if key, ok := keys[f.Name]; ok {
			_ = v.BindPFlag(key, f)
		}
	})
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
