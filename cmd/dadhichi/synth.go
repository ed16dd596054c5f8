package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/2beens/dadhichi/internal/wearable"

	"github.com/spf13/cobra"
)

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Generate simulated device rows and evaluate the weight models on them",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, _ := cmd.Flags().GetInt("rows")
		seed, _ := cmd.Flags().GetInt64("seed")
		show, _ := cmd.Flags().GetInt("show")

		data := wearable.Synthesize(rows, seed)
		metrics, err := wearable.EvaluateWeightModels(data)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "user_id\tsteps\tcalories_burned\tsleep_duration\theart_rate\tweight")
		for _, r := range data[:min(show, len(data))] {
			fmt.Fprintf(w, "%d\t%d\t%d\t%.2f\t%d\t%.2f\n", r.UserID, r.Steps, r.Calories, r.Sleep, r.HeartRate, r.Weight)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nrows: %d (train %d / test %d)\n", len(data), metrics.TrainRows, metrics.TestRows)
		fmt.Fprintf(cmd.OutOrStdout(), "linear regression  MAE %.3f  R2 %.3f\n", metrics.LinearMAE, metrics.LinearR2)
		fmt.Fprintf(cmd.OutOrStdout(), "random forest      MAE %.3f  R2 %.3f\n", metrics.ForestMAE, metrics.ForestR2)
		return nil
	},
}

func init() {
	synthCmd.Flags().Int("rows", wearable.DefaultSyntheticRows, "number of simulated rows")
	synthCmd.Flags().Int64("seed", 42, "random seed")
	synthCmd.Flags().Int("show", 5, "rows to print")
	rootCmd.AddCommand(synthCmd)
}
