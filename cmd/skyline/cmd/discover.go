package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

func (s *skyline) newDiscoverCmd() *cobra.Command {
	var originHint string

	cmd := &cobra.Command{
		Use:   "discover <query>",
		Short: "Discover new buildings with a grounded generative search",
		Long: `Runs one generative discovery pass for the query, reconciles each
candidate against its grounding evidence, and inserts the buildings the
registry does not already hold.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s.dryRun, _ = cmd.Flags().GetBool("dry-run")

			discoverer, err := s.discoverer()
			if err != nil {
				return err
			}
			p, err := s.pipeline(discoverer)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			summary, err := p.Discover(cmd.Context(), query, originHint)
			if err != nil {
				return err
			}

			s.logger.Info().
				Str("query", query).
				Int("discovered", summary.Discovered).
				Int("created", summary.Created).
				Int("skipped", summary.Skipped).
				Int("failed", summary.Failed).
				Msg("Discovery run finished")
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "log intended inserts without creating records")
	cmd.Flags().StringVar(&originHint, "origin", "", "bias results toward a city or region")

	return cmd
}
