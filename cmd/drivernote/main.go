package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drivernote/drivernote/cmd/drivernote/commands"
	"github.com/drivernote/drivernote/logger"
)

var rootCmd = &cobra.Command{
	Use:   "drivernote",
	Short: "drivernote - Driver feature store and note generation",
	Long: `drivernote - Online feature serving and driver note generation.

drivernote manages a local online feature store for driver stats and
renders those stats into prompts for LLM-generated driver notes.

Available commands:
  init     - Initialize a feature repository with demo driver stats
  apply    - Load feature values into the online store
  features - Look up a driver's online features
  note     - Render (and optionally send) a note prompt for a driver
  usage    - Show model usage and cost statistics

Examples:
  drivernote init ./driver_repo       # Scaffold a repository with demo data
  drivernote features 1001            # Show driver 1001's current stats
  drivernote note 1001 --dry-run      # Print the rendered prompt
  drivernote note 1001                # Generate a note via the model`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(false); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().String("repo", "", "Feature repository path (overrides configuration)")

	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.ApplyCmd)
	rootCmd.AddCommand(commands.FeaturesCmd)
	rootCmd.AddCommand(commands.NoteCmd)
	rootCmd.AddCommand(commands.UsageCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
