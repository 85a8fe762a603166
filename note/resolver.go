package note

import (
	"context"

	"github.com/drivernote/drivernote/errors"
	"github.com/drivernote/drivernote/featurestore"
)

// DriverStatsView is the feature view holding per-driver hourly stats.
const DriverStatsView = "driver_hourly_stats"

// DriverFeatureRefs lists the stats rendered into a note, in template
// order.
var DriverFeatureRefs = []featurestore.FeatureRef{
	{View: DriverStatsView, Feature: "conv_rate"},
	{View: DriverStatsView, Feature: "acc_rate"},
	{View: DriverStatsView, Feature: "avg_daily_trips"},
}

// OnlineStore is the narrow slice of the feature store a resolver needs.
// *featurestore.Client satisfies it.
type OnlineStore interface {
	GetOnlineFeatures(ctx context.Context, refs []featurestore.FeatureRef, rows []featurestore.EntityRow) (*featurestore.FeatureVector, error)
}

// Resolver fetches a driver's online stats for rendering.
type Resolver struct {
	store     OnlineStore
	entityKey string
}

// NewResolver creates a resolver backed by the given online store. The
// entity key is the registry's join key, normally "driver_id".
func NewResolver(store OnlineStore, entityKey string) *Resolver {
	if entityKey == "" {
		entityKey = "driver_id"
	}
	return &Resolver{store: store, entityKey: entityKey}
}

// Resolve fetches the stats for the requested driver. The returned map
// is keyed by feature name (view prefix stripped) so the values line up
// with the template placeholders.
//
// A driver with no stored stats yields nil values for each feature, not
// an error; rendering turns those into empty strings.
func (r *Resolver) Resolve(ctx context.Context, driverID int64) (map[string]any, error) {
	rows := []featurestore.EntityRow{{r.entityKey: driverID}}

	vec, err := r.store.GetOnlineFeatures(ctx, DriverFeatureRefs, rows)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch stats for driver %d", driverID)
	}

	stats, err := vec.Row(0)
	if err != nil {
		return nil, errors.Wrapf(err, "empty result for driver %d", driverID)
	}

	return stats, nil
}
