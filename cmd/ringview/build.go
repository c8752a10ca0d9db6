package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-ringview/pkg/graph"
	"github.com/dd0wney/cluso-ringview/pkg/session"
)

type buildOutput struct {
	Summary session.Summary `json:"summary"`
	Rings   []graph.Ring    `json:"rings"`
}

func buildCmd() *cobra.Command {
	var (
		asJSON    bool
		allRings  bool
		ringLimit int
	)

	cmd := &cobra.Command{
		Use:   "build <claims-file>",
		Short: "Build the claim graph and report its rings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(args[0])
			if err != nil {
				return err
			}

			rings := s.Rings()
			if !allRings {
				rings = suspicious(rings)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(buildOutput{Summary: s.Summary(), Rings: rings})
			}

			printSummary(s.Summary())
			printRings(rings, ringLimit)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary and rings as JSON")
	cmd.Flags().BoolVar(&allRings, "all", false, "Include single-claim rings")
	cmd.Flags().IntVar(&ringLimit, "limit", 20, "Maximum rings to list (0 for all)")
	return cmd
}

// suspicious keeps rings that link more than one claim.
func suspicious(rings []graph.Ring) []graph.Ring {
	out := make([]graph.Ring, 0, len(rings))
	for _, r := range rings {
		if r.Shared() {
			out = append(out, r)
		}
	}
	return out
}

func printSummary(sum session.Summary) {
	banner("claim graph")
	fmt.Printf("  Claims:           %d\n", sum.Claims)
	fmt.Printf("  IP addresses:     %d\n", sum.IPAddresses)
	fmt.Printf("  Phone numbers:    %d\n", sum.PhoneNumbers)
	fmt.Printf("  Edges:            %d\n", sum.Edges)
	fmt.Printf("  Rings:            %d\n", sum.Rings)
	if sum.SuspiciousRings > 0 {
		warn.Printf("  Suspicious rings: %d\n", sum.SuspiciousRings)
	} else {
		good.Printf("  Suspicious rings: %d\n", sum.SuspiciousRings)
	}
	fmt.Println()
}

func printRings(rings []graph.Ring, limit int) {
	if len(rings) == 0 {
		subtle.Println("  No rings to show.")
		return
	}

	shown := rings
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	rows := make([][]string, 0, len(shown))
	for _, r := range shown {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(len(r.Claims)),
			strings.Join(r.Claims, ", "),
			strings.Join(r.Identifiers, ", "),
		})
	}
	printTable([]string{"RING", "CLAIMS", "MEMBERS", "SHARED"}, rows)

	if len(shown) < len(rings) {
		subtle.Printf("\n  ... %d more\n", len(rings)-len(shown))
	}
}
