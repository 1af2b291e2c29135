package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/strrl/combatlog/pkg/ingestor"
	"github.com/strrl/combatlog/pkg/pattern"
	"github.com/strrl/combatlog/pkg/ruleset"
)

func unknownCmd() *cobra.Command {
	var (
		top   int
		lines bool
	)
	cmd := &cobra.Command{
		Use:   "unknown <logfile>",
		Short: "Cluster lines no keyword classifies",
		Long: `Run Drain over the lines of a log file that the active locale leaves
unclassified and print the discovered templates, most frequent first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := ruleset.Get(cfg.ResolvedLocale())
			if err != nil {
				return err
			}
			clusters, err := pattern.DiscoverFile(cmd.Context(), args[0], rules)
			if err != nil {
				return errors.Errorf("discover: %w", err)
			}
			if top > 0 && len(clusters) > top {
				clusters = clusters[:top]
			}
			if lines {
				return printTaggedLines(cmd.Context(), args[0], rules, clusters)
			}

			fmt.Printf("%-8s %-8s %s\n", "ID", "COUNT", "TEMPLATE")
			for _, c := range clusters {
				fmt.Printf("%-8s %-8d %s\n", c.ID.String()[:8], c.Count, c.Template)
			}
			fmt.Fprintf(os.Stderr, "\n%d templates\n", len(clusters))
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "show only the most frequent templates")
	cmd.Flags().BoolVar(&lines, "lines", false, "print each unclassified line tagged with its template ID")
	return cmd
}

// printTaggedLines prints every unclassified line of path prefixed with the
// short ID of the template it falls under, or "-" when none of clusters
// matches.
func printTaggedLines(ctx context.Context, path string, rules *ruleset.RuleSet, clusters []pattern.Cluster) error {
	raws, err := ingestor.ReadLines(ctx, path)
	if err != nil {
		return errors.Errorf("read %s: %w", path, err)
	}
	templates := pattern.Parser(clusters)
	tagged := 0
	for _, raw := range raws {
		if rules.Classify(raw) != ruleset.Unknown {
			continue
		}
		tag := "-"
		if r := templates.Parse(raw); r.Matched {
			tag = r.Get("cluster")[:8]
			tagged++
		}
		fmt.Printf("%-8s %s\n", tag, raw)
	}
	fmt.Fprintf(os.Stderr, "\n%d lines matched %d templates\n", tagged, len(clusters))
	return nil
}
