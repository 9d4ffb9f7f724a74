// Package cmd defines the skyline CLI: discovery runs, deduplication
// sweeps, and place-identifier repair sweeps against the building registry.
package cmd

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/skylinehq/skyline/cmd/skyline/app"
	"github.com/skylinehq/skyline/internal/discovery"
	"github.com/skylinehq/skyline/internal/places"
	"github.com/skylinehq/skyline/internal/repository"
	"github.com/skylinehq/skyline/pkg/dedupe"
	"github.com/skylinehq/skyline/pkg/pipeline"
	"github.com/skylinehq/skyline/pkg/resolve"
)

// skyline carries the wired configuration through command execution.
type skyline struct {
	config *app.Config
	logger *zerolog.Logger
	dryRun bool
}

// Execute runs the CLI with the given arguments.
func Execute(ctx context.Context, args []string) error {
	s := &skyline{}
	root := s.newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (s *skyline) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "skyline",
		Short: "Building-registry discovery, deduplication, and enrichment",
		Long: `Skyline maintains a registry of notable buildings: it discovers new
entries with a grounded generative search, keeps the registry free of
duplicates, and repairs place identifiers that point at bare addresses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config, err := app.LoadConfig()
			if err != nil {
				return err
			}
			config.Verbose, _ = cmd.Flags().GetBool("verbose")
			config.Quiet, _ = cmd.Flags().GetBool("quiet")
			config.NoColor, _ = cmd.Flags().GetBool("no-color")

			s.config = config
			s.logger = app.NewLogger(config)
			return nil
		},
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	root.PersistentFlags().Bool("no-color", false, "disable colored output")

	root.AddCommand(s.newDiscoverCmd())
	root.AddCommand(s.newDedupeCmd())
	root.AddCommand(s.newRepairCmd())

	return root
}

// repo builds the record-store client.
func (s *skyline) repo() (*repository.Client, error) {
	if err := s.config.RequireRegistry(); err != nil {
		return nil, err
	}
	return repository.New(
		s.config.RegistryBaseURL,
		s.config.RegistryTable,
		s.config.RegistryAPIKey,
		repository.WithLogger(s.logger),
	), nil
}

// resolver builds the place resolver over the place-search client.
func (s *skyline) resolver() (*resolve.Resolver, error) {
	if err := s.config.RequirePlaces(); err != nil {
		return nil, err
	}
	index := places.New(s.config.PlacesAPIKey, places.WithLogger(s.logger))
	return resolve.NewResolver(index, resolve.WithLogger(s.logger)), nil
}

// exceptions loads the never-merge list, falling back to the built-in one.
func (s *skyline) exceptions() (*dedupe.ExceptionList, error) {
	if s.config.ExceptionsFile == "" {
		return dedupe.DefaultExceptions(), nil
	}
	return dedupe.LoadExceptions(s.config.ExceptionsFile)
}

// pipeline wires the full pipeline for commands that need every
// collaborator.
func (s *skyline) pipeline(discoverer pipeline.Discoverer) (*pipeline.Pipeline, error) {
	repo, err := s.repo()
	if err != nil {
		return nil, err
	}
	resolver, err := s.resolver()
	if err != nil {
		return nil, err
	}
	exceptions, err := s.exceptions()
	if err != nil {
		return nil, err
	}
	return pipeline.New(repo, discoverer, resolver,
		pipeline.WithLogger(s.logger),
		pipeline.WithExceptions(exceptions),
		pipeline.WithDryRun(s.dryRun),
	), nil
}

// discoverer builds the generative-discovery client.
func (s *skyline) discoverer() (*discovery.Client, error) {
	if err := s.config.RequireGemini(); err != nil {
		return nil, err
	}
	return discovery.New(s.config.GeminiAPIKey, discovery.WithLogger(s.logger)), nil
}
