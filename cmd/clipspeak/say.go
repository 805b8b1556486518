package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var sayCmd = &cobra.Command{
	Use:   "say TEXT...",
	Short: "Speak the given text once and exit",
	Long: "Speak the given text once through the same Azure pipeline the clipboard\n" +
		"watcher uses. The language filter is not applied.",
	Example: "clipspeak say こんにちは\nclipspeak say --english \"good morning\"",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := signalContext()
		defer cancel()

		text := strings.Join(args, " ")
		a.console.PrintSpoken(text)
		return a.engine.Speak(ctx, text)
	},
}
