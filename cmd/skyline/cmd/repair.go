package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/skylinehq/skyline/pkg/constants"
	"github.com/skylinehq/skyline/pkg/pipeline"
)

func (s *skyline) newRepairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Re-resolve place identifiers that point at bare addresses",
		Long: `Checks every record's place identifier against the place index and
replaces the ones that resolve to a street address instead of the building
itself. POI and ambiguous identifiers are left untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s.dryRun, _ = cmd.Flags().GetBool("dry-run")

			repo, err := s.repo()
			if err != nil {
				return err
			}
			resolver, err := s.resolver()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.BatchTimeout)
			defer cancel()

			p := pipeline.New(repo, nil, resolver,
				pipeline.WithLogger(s.logger),
				pipeline.WithDryRun(s.dryRun))
			summary, err := p.Repair(ctx)
			if err != nil {
				return err
			}

			s.logger.Info().
				Int("checked", summary.Checked).
				Int("replaced", summary.Replaced).
				Int("unmatched", summary.Unmatched).
				Int("skipped", summary.Skipped).
				Int("failed", summary.Failed).
				Msg("Repair sweep finished")
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "log intended replacements without patching records")
	return cmd
}
