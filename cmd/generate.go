package cmd

import (
	"math/rand"
	"time"

	"github.com/beka-birhanu/vinom-qmaze/config"
	"github.com/beka-birhanu/vinom-qmaze/maze"
	"github.com/spf13/cobra"
)

func NewGenerateCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random perfect maze as a grid source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			width, _ := flags.GetInt("width")
			height, _ := flags.GetInt("height")
			seed, _ := flags.GetInt64(config.KeySeed)
			out, _ := flags.GetString("out")
			logger := config.NewLogger(config.ComponentApp)

			var grid *maze.Grid
			var err error
			if seed == 0 && max(width, height) <= maze.MaxUnseededDimension {
				grid, err = maze.GenerateUnseeded(width, height)
				logger = logger.WithField("generator", "wilson-maze")
			} else {
				if seed == 0 {
					seed = time.Now().UnixNano()
				}
				grid, err = maze.Generate(width, height, rand.New(rand.NewSource(seed)))
				logger = logger.WithField("seed", seed)
			}
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			if err := grid.Save(out); err != nil {
				return err
			}

			logger.WithField("path", out).Info("Maze generated")
			return nil
		},
	}
	c.Flags().Int("width", 10, "Rooms per row")
	c.Flags().Int("height", 10, "Rooms per column")
	c.Flags().Int64(config.KeySeed, 0, "Generator seed, 0 for an unseeded layout")
	c.Flags().StringP("out", "o", "mazeEnv.csv", "Output grid source, .csv or .xlsx")
	root.AddCommand(c)
	return c
}
