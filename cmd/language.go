package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/s0up4200/engage/lang"
)

var (
	defaultLanguage string
	canonical       bool
)

// languageCmd represents the language command
var languageCmd = &cobra.Command{
	Use:   "language [locale]",
	Short: "Pick the best supported widget language for a locale",
	Long: `Pick the best supported widget language for a locale such as en_US or pt-BR.
Without an argument the locale of the system is used.

With --canonical the locale is parsed as a BCP 47 tag first, so aliases
and casing variants such as PT-br resolve to their canonical form.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLanguage,
}

func init() {
	rootCmd.AddCommand(languageCmd)

	languageCmd.Flags().StringVar(&defaultLanguage, "default", "", "fallback language (default is language.default)")
	languageCmd.Flags().BoolVar(&canonical, "canonical", false, "canonicalize the locale as a BCP 47 tag before matching")
}

func runLanguage(cmd *cobra.Command, args []string) error {
	def := cfg.Language.Default
	if defaultLanguage != "" {
		def = defaultLanguage
	}

	var locale string
	if len(args) == 1 {
		locale = args[0]
	} else {
		var err error
		locale, err = lang.SystemLocale()
		if err != nil {
			return err
		}
		logger.Debug().Str("locale", locale).Msg("Using system locale")
	}

	code := lang.BestSupportedLanguage(locale, def)
	if canonical {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("invalid locale %q: %w", locale, err)
		}
		code = lang.FromTag(tag, def)
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), code)
	return err
}
