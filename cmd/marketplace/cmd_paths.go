package main

import (
	"fmt"

	"nft_marketplace/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

type pathParams struct {
	Params entity.TokenRoute `json:"params"`
}

type staticPathsOutput struct {
	Paths    []pathParams `json:"paths"`
	Fallback string       `json:"fallback"`
}

func newPathsCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the token page paths generated at build time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			routes, err := app.pages.StaticPaths(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !asJSON {
				for _, route := range routes {
					fmt.Fprintln(out, route.Path())
				}
				return nil
			}

			result := staticPathsOutput{Paths: make([]pathParams, 0, len(routes)), Fallback: "blocking"}
			for _, route := range routes {
				result.Paths = append(result.Paths, pathParams{Params: route})
			}
			encoded, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode paths: %w", err)
			}
			fmt.Fprintln(out, string(encoded))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the path set as JSON")
	return cmd
}
