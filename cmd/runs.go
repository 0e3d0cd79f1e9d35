package cmd

import (
	"fmt"

	"github.com/beka-birhanu/vinom-qmaze/config"
	"github.com/beka-birhanu/vinom-qmaze/infrastruture/cache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewRunsCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:   "runs",
		Short: "List the fastest won runs of a maze from the Redis run board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			client, err := initRedis(cmd.Context(), cfg, config.NewLogger(config.ComponentApp))
			if err != nil {
				return err
			}
			defer client.Close()
			board := cache.NewRedisRunBoard(client, cfg.RedisPrefix, cfg.RunBoardTTL)

			total, err := board.Count(cmd.Context(), cfg.MazeName)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt64("limit")
			runs, err := board.Best(cmd.Context(), cfg.MazeName, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d runs recorded for %s\n", total, cfg.MazeName)
			for n, run := range runs {
				fmt.Fprintf(out, "%d. %d steps  reward %.1f  %s  %s\n",
					n+1, run.Steps, run.Reward, run.FinishedAt.Format("2006-01-02 15:04:05"), run.ID)
			}
			return nil
		},
	}
	addMazeFlags(c.Flags())
	addRedisFlags(c.Flags())
	c.Flags().Int64("limit", 10, "Number of runs to list")
	root.AddCommand(c)
	return c
}
