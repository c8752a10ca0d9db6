package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-ringview/pkg/visualization"
)

func simulateCmd() *cobra.Command {
	var (
		ticks     int
		untilRest bool
		threshold float64
		frameOut  bool
		output    string
		velocity  bool
		payload   bool
	)

	cmd := &cobra.Command{
		Use:   "simulate <claims-file>",
		Short: "Run the layout headless and report where it settled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ticks < 0 {
				return fmt.Errorf("--ticks must not be negative")
			}

			s, err := openSession(args[0])
			if err != nil {
				return err
			}

			start := time.Now()
			energy := s.KineticEnergy()
			for i := 0; i < ticks; i++ {
				energy = s.Step(1)
				if untilRest && s.Settled(threshold) {
					break
				}
			}
			elapsed := time.Since(start)

			if frameOut || output != "" {
				var opts []visualization.FrameOption
				if velocity {
					opts = append(opts, visualization.IncludeVelocity())
				}
				if payload {
					opts = append(opts, visualization.IncludeClaims())
				}
				data, err := s.Frame(opts...).ExportJSON()
				if err != nil {
					return err
				}
				if output != "" {
					return os.WriteFile(output, data, 0o644)
				}
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}

			banner("simulation")
			fmt.Printf("  Nodes:            %d\n", s.Summary().Nodes())
			fmt.Printf("  Ticks:            %d\n", s.Ticks())
			fmt.Printf("  Elapsed:          %s\n", elapsed.Round(time.Microsecond))
			fmt.Printf("  Kinetic energy:   %.6g\n", energy)
			fmt.Printf("  Extent:           %.3f\n", s.MaxDistance())
			if s.Settled(threshold) {
				good.Println("  Settled")
			} else {
				warn.Println("  Still moving")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&ticks, "ticks", "n", 300, "Number of ticks to run")
	cmd.Flags().BoolVar(&untilRest, "until-settled", false, "Stop early once kinetic energy drops below --threshold")
	cmd.Flags().Float64Var(&threshold, "threshold", 1e-6, "Kinetic energy treated as settled")
	cmd.Flags().BoolVar(&frameOut, "frame", false, "Print the final frame as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the final frame JSON to a file")
	cmd.Flags().BoolVar(&velocity, "velocity", false, "Include velocities in the frame")
	cmd.Flags().BoolVar(&payload, "claims", false, "Include claim payloads in the frame")
	return cmd
}
