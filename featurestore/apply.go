package featurestore

import (
	"context"
	"time"

	"github.com/drivernote/drivernote/errors"
)

const onlineFeatureUpsertQuery = `
	INSERT INTO online_features (feature_view, entity_key, feature_name, value_type, value, event_timestamp)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (feature_view, entity_key, feature_name)
	DO UPDATE SET value_type = excluded.value_type,
	              value = excluded.value,
	              event_timestamp = excluded.event_timestamp
	WHERE excluded.event_timestamp >= online_features.event_timestamp`

// FeatureRow is one entity's feature values for a view, ready to write
// into the online store.
type FeatureRow struct {
	View           string
	EntityKey      any
	Values         map[string]any
	EventTimestamp time.Time
}

// Apply writes feature rows into the online store. Each value is validated
// against the registry; a newer event timestamp replaces the stored value,
// an older one is ignored.
func (c *Client) Apply(ctx context.Context, rows []FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	c.mu.RLock()
	registry := c.registry
	c.mu.RUnlock()

	tx, err := c.database.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin apply tx")
	}

	written := 0
	for i, row := range rows {
		entityKey, err := serializeEntityKey(row.EntityKey)
		if err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "row %d", i)
		}

		eventTS := row.EventTimestamp
		if eventTS.IsZero() {
			eventTS = time.Now().UTC()
		}

		for name, raw := range row.Values {
			ref := FeatureRef{View: row.View, Feature: name}
			def, err := registry.lookupFeature(ref)
			if err != nil {
				tx.Rollback()
				return err
			}

			value, valueType, err := encodeValue(raw)
			if err != nil {
				tx.Rollback()
				return errors.Wrapf(err, "encode %s", ref)
			}
			if valueType != typeNull && valueType != def.DType {
				tx.Rollback()
				return errors.Newf("value for %s has type %s, registry declares %s", ref, valueType, def.DType)
			}

			if _, err := tx.ExecContext(ctx, onlineFeatureUpsertQuery,
				ref.View, entityKey, ref.Feature, valueType, value, eventTS,
			); err != nil {
				tx.Rollback()
				return errors.Wrapf(err, "write %s for entity %s", ref, entityKey)
			}
			written++
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit apply tx")
	}

	c.logger.Infow("Feature rows applied",
		"rows", len(rows),
		"values", written,
	)

	return nil
}
