package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/drivernote/drivernote/errors"
	"github.com/drivernote/drivernote/featurestore"
)

// FeaturesCmd looks up a driver's online features
var FeaturesCmd = &cobra.Command{
	Use:   "features <driver-id>",
	Short: "Look up a driver's online features",
	Long: `Look up the current online feature values for a driver.

By default all features in the driver_hourly_stats view are shown. Use
--ref to request specific features as <feature-view>:<feature-name>.

Examples:
  drivernote features 1001
  drivernote features 1001 --ref driver_hourly_stats:conv_rate`,
	Args: cobra.ExactArgs(1),
	RunE: runFeatures,
}

var featureRefFlags []string

func init() {
	FeaturesCmd.Flags().StringArrayVar(&featureRefFlags, "ref", nil, "Feature reference <view>:<feature> (repeatable)")
}

func runFeatures(cmd *cobra.Command, args []string) error {
	driverID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.Newf("invalid driver id %q", args[0])
	}

	client, err := openFeatureStore(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	registry := client.Registry()

	refs, err := requestedRefs(registry)
	if err != nil {
		return err
	}

	rows := []featurestore.EntityRow{{registry.EntityKey: driverID}}
	vector, err := client.GetOnlineFeatures(cmd.Context(), refs, rows)
	if err != nil {
		return errors.Wrapf(err, "failed to fetch features for driver %d", driverID)
	}

	values, err := vector.Row(0)
	if err != nil {
		return err
	}

	pterm.DefaultSection.Printf("Driver %d", driverID)
	tableData := pterm.TableData{{"Feature", "Value"}}
	for _, name := range vector.Features() {
		value := values[name]
		display := "<unset>"
		if value != nil {
			display = fmt.Sprintf("%v", value)
		}
		tableData = append(tableData, []string{name, display})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

// requestedRefs resolves --ref flags, defaulting to every feature in
// the driver_hourly_stats view.
func requestedRefs(registry *featurestore.Registry) ([]featurestore.FeatureRef, error) {
	if len(featureRefFlags) > 0 {
		refs := make([]featurestore.FeatureRef, 0, len(featureRefFlags))
		for _, raw := range featureRefFlags {
			ref, err := featurestore.ParseFeatureRef(raw)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		}
		return refs, nil
	}

	for _, view := range registry.FeatureViews {
		if view.Name != "driver_hourly_stats" {
			continue
		}
		refs := make([]featurestore.FeatureRef, 0, len(view.Features))
		for _, f := range view.Features {
			refs = append(refs, featurestore.FeatureRef{View: view.Name, Feature: f.Name})
		}
		return refs, nil
	}

	return nil, errors.WithHint(
		errors.New("no driver_hourly_stats view in registry"),
		"pass --ref <view>:<feature> to query other views",
	)
}
