package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/skylinehq/skyline/pkg/constants"
	"github.com/skylinehq/skyline/pkg/pipeline"
)

func (s *skyline) newDedupeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Sweep the registry for duplicates and delete the losers",
		Long: `Lists every record, groups duplicates by name similarity and
proximity, keeps the most complete record of each group, and deletes the
rest. Re-running the sweep is idempotent.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s.dryRun, _ = cmd.Flags().GetBool("dry-run")

			repo, err := s.repo()
			if err != nil {
				return err
			}
			exceptions, err := s.exceptions()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.BatchTimeout)
			defer cancel()

			// Dedupe needs no discoverer or place index.
			p := pipeline.New(repo, nil, nil,
				pipeline.WithLogger(s.logger),
				pipeline.WithExceptions(exceptions),
				pipeline.WithDryRun(s.dryRun))
			summary, err := p.Dedupe(ctx)
			if err != nil {
				return err
			}

			s.logger.Info().
				Int("groups", summary.Groups).
				Int("deleted", summary.Deleted).
				Int("failed", summary.Failed).
				Msg("Deduplication sweep finished")
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "log intended deletions without issuing them")
	return cmd
}
