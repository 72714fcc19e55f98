package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/engage/engage"
	"github.com/s0up4200/engage/filter"
)

var (
	overwrite  bool
	unlink     bool
	unmapAll   bool
	filterExpr string
)

// mapCmd represents the map command
var mapCmd = &cobra.Command{
	Use:     "map <identifier> <primaryKey>",
	Short:   "Map an identifier to a local primary key",
	Args:    cobra.ExactArgs(2),
	PreRunE: initializeClient,
	RunE:    runMap,
}

// unmapCmd represents the unmap command
var unmapCmd = &cobra.Command{
	Use:   "unmap <identifier> <primaryKey> | unmap --all <primaryKey>",
	Short: "Remove identifier mappings from a primary key",
	Args: func(cmd *cobra.Command, args []string) error {
		if unmapAll {
			return cobra.ExactArgs(1)(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	PreRunE: initializeClient,
	RunE:    runUnmap,
}

// mappingsCmd represents the mappings command
var mappingsCmd = &cobra.Command{
	Use:     "mappings <primaryKey>",
	Short:   "List the identifiers mapped to a primary key",
	Args:    cobra.ExactArgs(1),
	PreRunE: initializeClient,
	RunE:    runMappings,
}

// allMappingsCmd represents the all-mappings command
var allMappingsCmd = &cobra.Command{
	Use:   "all-mappings",
	Short: "List every mapping of the application",
	Long: `List every mapping of the application.

With --filter, mappings are flattened and matched against an expression.
Available variables: PrimaryKey, Identifier, Provider.
Case-insensitive helpers: includes, hasPrefix, hasSuffix.

Example:
  engage all-mappings --filter 'hasSuffix(Provider, "google.com")'`,
	Args:    cobra.NoArgs,
	PreRunE: initializeClient,
	RunE:    runAllMappings,
}

func init() {
	rootCmd.AddCommand(mapCmd, unmapCmd, mappingsCmd, allMappingsCmd)

	mapCmd.Flags().BoolVar(&overwrite, "overwrite", true, "replace a mapping of the identifier to another primary key")

	unmapCmd.Flags().BoolVar(&unlink, "unlink", false, "also unlink the identifier from the application")
	unmapCmd.Flags().BoolVar(&unmapAll, "all", false, "remove every identifier mapped to the primary key")

	mappingsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	allMappingsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
}

func runMap(cmd *cobra.Command, args []string) error {
	var ow *bool
	if cmd.Flags().Changed("overwrite") {
		ow = engage.Bool(overwrite)
	}

	resp, err := client.SetMap(cmd.Context(), args[0], args[1], ow)
	if err != nil {
		return err
	}

	logger.Info().Str("identifier", args[0]).Str("primary_key", args[1]).Msg("Identifier mapped")
	return printJSON(cmd.OutOrStdout(), resp)
}

func runUnmap(cmd *cobra.Command, args []string) error {
	var ul *bool
	if cmd.Flags().Changed("unlink") {
		ul = engage.Bool(unlink)
	}

	var (
		resp *engage.Response
		err  error
	)
	if unmapAll {
		resp, err = client.SetUnmapAll(cmd.Context(), args[0], ul)
	} else {
		resp, err = client.SetUnmap(cmd.Context(), args[0], args[1], ul)
	}
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), resp)
}

func runMappings(cmd *cobra.Command, args []string) error {
	resp, err := client.GetMappings(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if filterExpr == "" {
		return printJSON(cmd.OutOrStdout(), resp)
	}

	result, err := resp.Mappings()
	if err != nil {
		return err
	}
	return printFiltered(cmd, filter.FromIdentifiers(args[0], result.Identifiers))
}

func runAllMappings(cmd *cobra.Command, args []string) error {
	resp, err := client.GetAllMappings(cmd.Context())
	if err != nil {
		return err
	}

	if filterExpr == "" {
		return printJSON(cmd.OutOrStdout(), resp)
	}

	result, err := resp.AllMappings()
	if err != nil {
		return err
	}
	return printFiltered(cmd, filter.FromAllMappings(result.Mappings))
}

// printFiltered applies the --filter expression and prints the matches
func printFiltered(cmd *cobra.Command, mappings []filter.Mapping) error {
	f, err := filter.Compile(filterExpr)
	if err != nil {
		return fmt.Errorf("invalid filter expression: %w", err)
	}

	matched, err := f.Apply(mappings)
	if err != nil {
		return err
	}

	logger.Info().
		Str("filter", f.Expression()).
		Int("total", len(mappings)).
		Int("matched", len(matched)).
		Msg("Filtered mappings")

	if matched == nil {
		matched = []filter.Mapping{}
	}
	return printJSON(cmd.OutOrStdout(), matched)
}
