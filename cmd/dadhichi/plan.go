package main

import (
	"fmt"
	"strings"

	"github.com/2beens/dadhichi/internal/plan"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print a workout plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		req := plan.Request{}
		req.Goal, _ = flags.GetString("goal")
		req.Location, _ = flags.GetString("location")
		req.Track, _ = flags.GetString("track")
		req.Duration, _ = flags.GetInt("duration")
		req.Intensity, _ = flags.GetString("intensity")
		pretty, _ := flags.GetBool("pretty")

		p, err := plan.Build(req)
		if err != nil {
			return err
		}

		if !pretty {
			fmt.Fprint(cmd.OutOrStdout(), p.Text)
			return nil
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
		)
		if err != nil {
			return fmt.Errorf("new markdown renderer: %w", err)
		}
		out, err := renderer.Render(planMarkdown(p))
		if err != nil {
			return fmt.Errorf("render plan: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func planMarkdown(p *plan.Plan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s workout\n\n", strings.ToUpper(p.Request.Goal[:1])+p.Request.Goal[1:])
	fmt.Fprintf(&sb, "**%d minutes** at **%s**, %s intensity\n\n", p.Request.Duration, p.Request.Location, p.Request.Intensity)
	for i, exercise := range p.Exercises {
		fmt.Fprintf(&sb, "%d. %s - 3 sets of 10-12 reps\n", i+1, exercise)
	}
	return sb.String()
}

func init() {
	planCmd.Flags().String("goal", "", "fitness goal, e.g. \"lose weight\"")
	planCmd.Flags().String("location", "Gym", "Gym or Yoga")
	planCmd.Flags().String("track", "", "yoga track")
	planCmd.Flags().Int("duration", 0, "workout duration in minutes")
	planCmd.Flags().String("intensity", "", "low, medium or high")
	planCmd.Flags().Bool("pretty", false, "render the plan as styled markdown")
	_ = planCmd.MarkFlagRequired("goal")

	rootCmd.AddCommand(planCmd)
}
