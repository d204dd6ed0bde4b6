package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "airtalk",
	Short: "Synthetic flight booking dialogue toolkit",
	Long: `airtalk generates synthetic flight booking conversations together with
the knowledge base each one was grounded in and the action a perfect agent
would have taken.

Subcommands cover the full pipeline: contextgen samples intents and
knowledge bases, simulate adds scripted dialogues, prepro tokenizes a
corpus for model training, and score evaluates predicted actions.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(contextGenCmd, simulateCmd, preproCmd, scoreCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
