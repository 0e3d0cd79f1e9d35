package cmd

import (
	"os"

	"github.com/beka-birhanu/vinom-qmaze/config"
	"github.com/beka-birhanu/vinom-qmaze/observer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewHeatmapCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:   "heatmap",
		Short: "Render the stored value table as an HTML heatmap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			logger := config.NewLogger(config.ComponentApp)

			b, err := openBackend(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer b.close()

			path, _ := cmd.Flags().GetString("out")
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := observer.RenderHeatmap(cmd.Context(), b.store, f, cfg.MazeName); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			logger.WithField("path", path).Info("Heatmap written")
			return nil
		},
	}
	addMazeFlags(c.Flags())
	addStoreFlags(c.Flags())
	c.Flags().StringP("out", "o", "heatmap.html", "Output HTML file")
	root.AddCommand(c)
	return c
}
