package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/dotfield/snapshot"
)

func statsCmd(g *globalOptions) *cobra.Command {
	var (
		ticks int
		in    string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the scene and its connector graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var s *snapshot.Snapshot
			if in != "" {
				f, err := os.Open(in)
				if err != nil {
					return fmt.Errorf("open %s: %w", in, err)
				}
				defer f.Close()
				if s, err = snapshot.Read(f); err != nil {
					return err
				}
			} else {
				cfg, _, err := g.load(cmd)
				if err != nil {
					return err
				}
				if s, err = snapshot.Run(cfg, snapshot.Options{Ticks: ticks}, nil); err != nil {
					return err
				}
			}

			printStats(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", 0, "Simulation steps to run before summarizing")
	cmd.Flags().StringVar(&in, "in", "", "Summarize a snapshot file instead of building a scene")
	return cmd
}

func printStats(w io.Writer, s *snapshot.Snapshot) {
	st := s.Stats
	banner(w, "scene statistics")

	field(w, "Seed", s.Seed)
	field(w, "Ticks", s.Ticks)
	field(w, "Entities", fmt.Sprintf("%d (%s interactive)", st.Entities, Brand.Sprint(st.Interactive)))
	field(w, "Connectors", fmt.Sprintf("%d (%d thin, %d full)", st.Connectors, st.Thin, st.Connectors-st.Thin))
	field(w, "Mean degree", fmt.Sprintf("%.2f (max %d)", st.MeanDegree, st.MaxDegree))

	components := Good.Sprint(st.Components)
	if st.Components > 1 {
		components = Warn.Sprint(st.Components)
	}
	field(w, "Components", components)

	if len(st.Isolated) == 0 {
		field(w, "Isolated", Good.Sprint("none"))
	} else {
		field(w, "Isolated", Warn.Sprint(len(st.Isolated)))
	}

	var labels []string
	for _, e := range s.Entities {
		if e.Interactive {
			labels = append(labels, fmt.Sprintf("%s (%d)", e.Label, e.Degree))
		}
	}
	if len(labels) > 0 {
		fmt.Fprintln(w)
		Subtle.Fprintln(w, "  Interactive dots (degree)")
		fmt.Fprintf(w, "  %s\n", strings.Join(labels, ", "))
	}
}
