package commands

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/drivernote/drivernote/ai/provider"
	"github.com/drivernote/drivernote/config"
	"github.com/drivernote/drivernote/errors"
	"github.com/drivernote/drivernote/logger"
	"github.com/drivernote/drivernote/note"
)

// NoteCmd generates a note for a driver
var NoteCmd = &cobra.Command{
	Use:   "note <driver-id>",
	Short: "Generate a note for a driver from their current stats",
	Long: `Generate a note for a driver.

Fetches the driver's stats from the online store, renders them into the
note prompt, and sends the prompt to the configured model provider.
With --dry-run the rendered prompt is printed instead of being sent.

Examples:
  drivernote note 1001
  drivernote note 1001 --dry-run
  drivernote note 1001 --provider local`,
	Args: cobra.ExactArgs(1),
	RunE: runNote,
}

var (
	noteDryRunFlag   bool
	noteProviderFlag string
)

func init() {
	NoteCmd.Flags().BoolVar(&noteDryRunFlag, "dry-run", false, "Print the rendered prompt without calling the model")
	NoteCmd.Flags().StringVar(&noteProviderFlag, "provider", "", "Model provider: local, anthropic, auto (default from configuration)")
}

func runNote(cmd *cobra.Command, args []string) error {
	driverID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.Newf("invalid driver id %q", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	client, err := openFeatureStore(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	tmpl, err := note.LoadTemplate(cfg.Note.TemplatePath)
	if err != nil {
		return err
	}

	resolver := note.NewResolver(client, client.Registry().EntityKey)
	chainArgs := note.Args{DriverID: driverID}

	if noteDryRunFlag {
		chain, err := note.NewChain(resolver, note.WithTemplate(tmpl), note.WithLogger(logger.Logger))
		if err != nil {
			return err
		}

		rendered, err := chain.Format(cmd.Context(), chainArgs)
		if err != nil {
			return err
		}

		pterm.Info.Println("Rendered prompt (not sent):")
		pterm.Println()
		pterm.Println(rendered)
		return nil
	}

	providerName := noteProviderFlag
	if providerName == "" {
		providerName = cfg.Note.Provider
	}
	prov, err := provider.ParseProvider(providerName)
	if err != nil {
		return err
	}

	// Usage tracking shares the online store database
	llm, err := provider.NewClientWithProvider(cfg, prov, provider.ClientConfig{
		DB:            client.DB(),
		Logger:        logger.Logger,
		OperationType: "note_generation",
		EntityType:    "driver",
		EntityID:      strconv.FormatInt(driverID, 10),
	})
	if err != nil {
		return err
	}

	chain, err := note.NewChain(resolver,
		note.WithTemplate(tmpl),
		note.WithClient(llm),
		note.WithLogger(logger.Logger),
	)
	if err != nil {
		return err
	}

	spinner, _ := pterm.DefaultSpinner.Start("Generating note...")
	text, err := chain.Invoke(cmd.Context(), chainArgs)
	if err != nil {
		if spinner != nil {
			spinner.Fail("Note generation failed")
		}
		return err
	}
	if spinner != nil {
		spinner.Success("Note generated")
	}

	pterm.Println()
	pterm.Println(text)
	return nil
}
