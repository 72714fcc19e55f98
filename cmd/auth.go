package cmd

import (
	"github.com/spf13/cobra"

	"github.com/s0up4200/engage/engage"
)

var (
	extended bool
	tokenURL string
)

// authInfoCmd represents the auth-info command
var authInfoCmd = &cobra.Command{
	Use:     "auth-info <token>",
	Short:   "Exchange a sign-in token for the user's profile",
	Args:    cobra.ExactArgs(1),
	PreRunE: initializeClient,
	RunE:    runAuthInfo,
}

func init() {
	rootCmd.AddCommand(authInfoCmd)

	authInfoCmd.Flags().BoolVar(&extended, "extended", false, "request extended profile data")
	authInfoCmd.Flags().StringVar(&tokenURL, "token-url", "", "token URL to verify against the one used at sign-in")
}

func runAuthInfo(cmd *cobra.Command, args []string) error {
	var ext *bool
	if cmd.Flags().Changed("extended") {
		ext = engage.Bool(extended)
	}
	var tURL *string
	if cmd.Flags().Changed("token-url") {
		tURL = engage.String(tokenURL)
	}

	resp, err := client.GetAuthInfo(cmd.Context(), args[0], ext, tURL)
	if err != nil {
		return err
	}

	if info, err := resp.AuthInfo(); err == nil {
		logger.Info().
			Str("identifier", info.Profile.Identifier).
			Str("provider", info.Profile.ProviderName).
			Str("name", info.Profile.GetDisplayName()).
			Msg("Token verified")
	}

	return printJSON(cmd.OutOrStdout(), resp)
}
