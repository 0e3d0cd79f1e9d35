package cmd

import (
	"github.com/beka-birhanu/vinom-qmaze/config"
	"github.com/beka-birhanu/vinom-qmaze/preprocess"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewPreprocessCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:   "preprocess IMAGE",
		Short: "Convert a picture of a maze into a grid source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			out, _ := flags.GetString("out")
			cellSize, _ := flags.GetInt("cell-size")
			threshold, _ := flags.GetUint8("threshold")
			blur, _ := flags.GetFloat64("blur")

			grid, err := preprocess.FromImage(args[0], preprocess.Options{
				CellSize:  cellSize,
				Threshold: threshold,
				Blur:      blur,
			})
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			if err := grid.Save(out); err != nil {
				return err
			}

			config.NewLogger(config.ComponentApp).WithFields(logrus.Fields{
				"path": out,
				"rows": grid.Rows(),
				"cols": grid.Cols(),
			}).Info("Grid source written")
			return nil
		},
	}
	c.Flags().StringP("out", "o", "mazeEnv.xlsx", "Output grid source, .xlsx or .csv")
	c.Flags().Int("cell-size", preprocess.DefaultOptions.CellSize, "Side of one cell in pixels")
	c.Flags().Uint8("threshold", preprocess.DefaultOptions.Threshold, "Gray level below which a cell is a wall")
	c.Flags().Float64("blur", preprocess.DefaultOptions.Blur, "Sigma of the Gaussian blur, 0 to skip it")
	root.AddCommand(c)
	return c
}
