package commands

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/drivernote/drivernote/config"
	"github.com/drivernote/drivernote/errors"
	"github.com/drivernote/drivernote/featurestore"
	"github.com/drivernote/drivernote/logger"
)

// InitCmd scaffolds a new feature repository
var InitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a feature repository",
	Long: `Initialize a feature repository with a driver stats feature view.

Creates feature_store.yaml, the sqlite online store, and (unless
--no-demo-data is given) a handful of demo driver stat rows. Also writes
a drivernote.toml in the current directory pointing at the repository.

Examples:
  drivernote init ./driver_repo
  drivernote init ./driver_repo --no-demo-data`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var noDemoDataFlag bool

func init() {
	InitCmd.Flags().BoolVar(&noDemoDataFlag, "no-demo-data", false, "Skip seeding demo driver stats")
}

func runInit(cmd *cobra.Command, args []string) error {
	repoPath := "."
	if len(args) > 0 {
		repoPath = args[0]
	}

	if err := os.MkdirAll(filepath.Join(repoPath, "data"), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create repository directory %s", repoPath)
	}

	registryPath := filepath.Join(repoPath, featurestore.RegistryFileName)
	if _, err := os.Stat(registryPath); err == nil {
		return errors.Newf("repository already initialized: %s exists", registryPath)
	}

	registry := &featurestore.Registry{
		Project:   "driver_stats",
		EntityKey: "driver_id",
		OnlineStore: featurestore.OnlineStoreConfig{
			Type: "sqlite",
			Path: filepath.Join("data", "online_store.db"),
		},
		FeatureViews: []featurestore.FeatureView{
			{
				Name:       "driver_hourly_stats",
				Entities:   []string{"driver_id"},
				TTLSeconds: 86400,
				Features: []featurestore.FeatureDef{
					{Name: "conv_rate", DType: featurestore.TypeFloat64},
					{Name: "acc_rate", DType: featurestore.TypeFloat64},
					{Name: "avg_daily_trips", DType: featurestore.TypeInt64},
				},
			},
		},
	}

	if err := registry.Write(repoPath); err != nil {
		return errors.Wrap(err, "failed to write registry")
	}

	// Opening the client creates the online store and runs migrations
	client, err := featurestore.NewClient(repoPath, logger.Logger)
	if err != nil {
		return errors.Wrap(err, "failed to open new repository")
	}
	defer client.Close()

	pterm.Success.Printf("Initialized feature repository at %s\n", repoPath)

	if !noDemoDataFlag {
		if err := seedDemoData(cmd.Context(), client); err != nil {
			return errors.Wrap(err, "failed to seed demo data")
		}
		pterm.Info.Println("Seeded demo stats for drivers 1001-1003")
	}

	// Point the project config at the new repository
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	cfg.Repo.Path = repoPath
	if err := config.Save(cfg, "drivernote.toml"); err != nil {
		return errors.Wrap(err, "failed to write drivernote.toml")
	}
	pterm.Info.Println("Wrote drivernote.toml")

	pterm.Println()
	pterm.Info.Println("Next steps:")
	pterm.Printf("  drivernote features 1001        # Show driver 1001's stats\n")
	pterm.Printf("  drivernote note 1001 --dry-run  # Preview the note prompt\n")

	return nil
}

// seedDemoData writes a few driver stat rows into the online store
func seedDemoData(ctx context.Context, client *featurestore.Client) error {
	now := time.Now().UTC()

	rows := []featurestore.FeatureRow{
		{
			View:      "driver_hourly_stats",
			EntityKey: int64(1001),
			Values: map[string]any{
				"conv_rate":       0.4745151400566101,
				"acc_rate":        0.055561766028404236,
				"avg_daily_trips": int64(936),
			},
			EventTimestamp: now,
		},
		{
			View:      "driver_hourly_stats",
			EntityKey: int64(1002),
			Values: map[string]any{
				"conv_rate":       0.7512896418057179,
				"acc_rate":        0.6512271165847778,
				"avg_daily_trips": int64(433),
			},
			EventTimestamp: now,
		},
		{
			View:      "driver_hourly_stats",
			EntityKey: int64(1003),
			Values: map[string]any{
				"conv_rate":       0.3205356299877167,
				"acc_rate":        0.4337688982486725,
				"avg_daily_trips": int64(712),
			},
			EventTimestamp: now,
		},
	}

	return client.Apply(ctx, rows)
}
