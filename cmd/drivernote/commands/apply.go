package commands

import (
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/drivernote/drivernote/errors"
	"github.com/drivernote/drivernote/featurestore"
)

// ApplyCmd loads feature values from a data file into the online store
var ApplyCmd = &cobra.Command{
	Use:   "apply <data-file>",
	Short: "Load feature values into the online store",
	Long: `Load feature values from a YAML data file into the online store.

The data file holds a list of rows, each naming a feature view, an
entity id, and the values to write:

  rows:
    - view: driver_hourly_stats
      entity: 1001
      values:
        conv_rate: 0.52
        acc_rate: 0.61
        avg_daily_trips: 420
      event_timestamp: 2026-08-30T12:00:00Z

Rows with an older event_timestamp than the stored value are ignored.

Examples:
  drivernote apply stats.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

// applyFile is the on-disk shape of an apply data file
type applyFile struct {
	Rows []applyRow `yaml:"rows"`
}

type applyRow struct {
	View           string         `yaml:"view"`
	Entity         any            `yaml:"entity"`
	Values         map[string]any `yaml:"values"`
	EventTimestamp *time.Time     `yaml:"event_timestamp,omitempty"`
}

func runApply(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(err, "failed to read data file %s", args[0])
	}

	var file applyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errors.Wrapf(err, "failed to parse data file %s", args[0])
	}
	if len(file.Rows) == 0 {
		return errors.Newf("data file %s contains no rows", args[0])
	}

	rows := make([]featurestore.FeatureRow, 0, len(file.Rows))
	for i, in := range file.Rows {
		if in.View == "" {
			return errors.Newf("row %d missing view", i)
		}
		if in.Entity == nil {
			return errors.Newf("row %d missing entity", i)
		}
		if len(in.Values) == 0 {
			return errors.Newf("row %d has no values", i)
		}

		row := featurestore.FeatureRow{
			View:      in.View,
			EntityKey: normalizeEntity(in.Entity),
			Values:    normalizeValues(in.Values),
		}
		if in.EventTimestamp != nil {
			row.EventTimestamp = *in.EventTimestamp
		}
		rows = append(rows, row)
	}

	client, err := openFeatureStore(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Apply(cmd.Context(), rows); err != nil {
		return errors.Wrap(err, "failed to apply feature rows")
	}

	pterm.Success.Printf("Applied %d rows to the online store\n", len(rows))
	return nil
}

// normalizeEntity converts YAML's int to the store's int64 entity form
func normalizeEntity(v any) any {
	if n, ok := v.(int); ok {
		return int64(n)
	}
	return v
}

// normalizeValues widens YAML integers so they match int64 registry dtypes
func normalizeValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if n, ok := v.(int); ok {
			out[k] = int64(n)
			continue
		}
		out[k] = v
	}
	return out
}
