// Package cmd holds the qmaze command line.
package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/beka-birhanu/vinom-qmaze/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the qmaze command with all its subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qmaze",
		Short: "Learn to solve grid mazes with tabular Q-learning",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			config.SetDefaults(viper.GetViper())
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			config.SetupLogger(os.Stderr, viper.GetBool(config.KeyDebug))
			return nil
		},
	}
	cmd.PersistentFlags().Bool(config.KeyDebug, false, "Enable debug output")
	cmd.PersistentFlags().Bool(config.KeyNoColor, false, "Disable colored terminal output")

	NewSolveCmd(cmd)
	NewHeatmapCmd(cmd)
	NewPreprocessCmd(cmd)
	NewGenerateCmd(cmd)
	NewRunsCmd(cmd)
	return cmd
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCmd()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
