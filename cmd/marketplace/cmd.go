package main

import (
	"context"

	"github.com/spf13/cobra"
)

const (
	defaultConfigPath = "config/config.yaml"
	defaultEnvFile    = ".env"
)

type rootOptions struct {
	configPath string
	envFile    string
}

// Execute runs the marketplace command tree.
func Execute(ctx context.Context) error {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "marketplace",
		Short:         "NFT marketplace token pages",
		Long:          `Serves pre-rendered token detail pages of an ERC-1155 collection.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file, E.g. `./config/config.yaml` (default $CONFIG_PATH or config/config.yaml)")
	flags.StringVar(&opts.envFile, "env-file", defaultEnvFile, "dotenv file with secrets, ignored when missing")

	root.AddCommand(
		newServeCommand(opts),
		newPathsCommand(opts),
	)

	return root.ExecuteContext(ctx)
}
