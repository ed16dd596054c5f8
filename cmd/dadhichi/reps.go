package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/2beens/dadhichi/internal/reps"

	"github.com/spf13/cobra"
)

var repsCmd = &cobra.Command{
	Use:   "reps [file]",
	Short: "Count reps over recorded joint angles, one angle per line",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		down, _ := cmd.Flags().GetFloat64("down")
		up, _ := cmd.Flags().GetFloat64("up")
		thresholds := reps.Thresholds{Down: down, Up: up}
		if err := thresholds.Validate(); err != nil {
			return err
		}

		angles, err := readAngles(in)
		if err != nil {
			return err
		}

		out, err := json.Marshal(struct {
			reps.State
			Samples int `json:"samples"`
		}{
			State:   reps.Replay(thresholds, angles),
			Samples: len(angles),
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

// readAngles skips blank lines and # comments.
func readAngles(r io.Reader) ([]float64, error) {
	var angles []float64
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		angle, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		angles = append(angles, angle)
	}
	return angles, scanner.Err()
}

func init() {
	repsCmd.Flags().Float64("down", reps.DefaultDownThreshold, "angle above which the arm counts as extended")
	repsCmd.Flags().Float64("up", reps.DefaultUpThreshold, "angle below which an extended arm counts a rep")
	rootCmd.AddCommand(repsCmd)
}
