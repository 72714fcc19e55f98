package cmd

import (
	"github.com/spf13/cobra"
)

// contactsCmd represents the contacts command
var contactsCmd = &cobra.Command{
	Use:     "contacts <identifier>",
	Short:   "Retrieve the contact list of an identifier",
	Args:    cobra.ExactArgs(1),
	PreRunE: initializeClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.GetContacts(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

func init() {
	rootCmd.AddCommand(contactsCmd)
}
