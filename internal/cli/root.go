package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "souvenir",
	Short: "Trigger-based conversational memory",
	Long:  "Souvenir remembers what users disclose in conversation and decides, message by message, which memories are relevant enough to surface again.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(triggersCmd)
	rootCmd.AddCommand(memoriesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(clearCmd)
}
