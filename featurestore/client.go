// Package featurestore provides a client for serving precomputed feature
// values from a local feature repository.
//
// A repository is a directory with a feature_store.yaml registry describing
// feature views and a sqlite online store holding the latest value of each
// feature per entity. The client is a process-lifetime handle: construct it
// once with the repository path and reuse it for all lookups.
package featurestore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/drivernote/drivernote/db"
	"github.com/drivernote/drivernote/errors"
)

const onlineFeatureQuery = `
	SELECT value, value_type FROM online_features
	WHERE feature_view = ? AND entity_key = ? AND feature_name = ?`

// Client serves online feature values from a feature repository
type Client struct {
	repoPath string
	database *sql.DB
	logger   *zap.SugaredLogger

	mu       sync.RWMutex
	registry *Registry
}

// NewClient opens the feature repository at repoPath: loads the registry,
// opens the sqlite online store it points at, and runs migrations.
// If logger is nil the client operates silently.
func NewClient(repoPath string, logger *zap.SugaredLogger) (*Client, error) {
	registry, err := LoadRegistry(repoPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(registry.StorePath()), 0o755); err != nil {
		return nil, errors.Wrapf(err, "create store directory for repo %s", repoPath)
	}

	database, err := db.Open(registry.StorePath(), logger)
	if err != nil {
		return nil, errors.Wrapf(err, "open online store for repo %s", repoPath)
	}

	if err := db.Migrate(database, logger); err != nil {
		database.Close()
		return nil, errors.Wrapf(err, "migrate online store for repo %s", repoPath)
	}

	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	c := &Client{
		repoPath: repoPath,
		database: database,
		logger:   logger,
		registry: registry,
	}

	logger.Infow("Feature store client ready",
		"repo", repoPath,
		"project", registry.Project,
		"feature_views", len(registry.FeatureViews),
	)

	return c, nil
}

// GetOnlineFeatures fetches the requested features for each entity row.
// The lookup blocks until the store responds. Unknown entity ids yield nil
// values; unknown feature references are an error.
func (c *Client) GetOnlineFeatures(ctx context.Context, refs []FeatureRef, rows []EntityRow) (*FeatureVector, error) {
	if len(refs) == 0 {
		return nil, errors.New("no feature references given")
	}
	if len(rows) == 0 {
		return nil, errors.New("no entity rows given")
	}

	c.mu.RLock()
	registry := c.registry
	c.mu.RUnlock()

	// Validate refs against the registry before touching the store
	for _, ref := range refs {
		if _, err := registry.lookupFeature(ref); err != nil {
			return nil, err
		}
	}

	vector := NewFeatureVector(refs, len(rows))

	for i, row := range rows {
		keyValue, ok := row[registry.EntityKey]
		if !ok {
			return nil, errors.Newf("entity row %d missing key %q", i, registry.EntityKey)
		}
		entityKey, err := serializeEntityKey(keyValue)
		if err != nil {
			return nil, errors.Wrapf(err, "entity row %d", i)
		}

		for _, ref := range refs {
			value, err := c.readFeature(ctx, ref, entityKey)
			if err != nil {
				return nil, err
			}
			vector.Set(ref.Feature, i, value)
		}
	}

	c.logger.Debugw("Online features fetched",
		"features", len(refs),
		"rows", len(rows),
	)

	return vector, nil
}

// readFeature reads a single feature value; missing rows become nil
func (c *Client) readFeature(ctx context.Context, ref FeatureRef, entityKey string) (any, error) {
	var value, valueType string
	err := c.database.QueryRowContext(ctx, onlineFeatureQuery, ref.View, entityKey, ref.Feature).
		Scan(&value, &valueType)
	if err == sql.ErrNoRows {
		// Entity not materialized; the store serves nulls, not errors
		return nil, nil
	}
	if err != nil {
		if db.IsDatabaseClosed(err) {
			return nil, errors.Wrapf(db.ErrDatabaseClosed, "lookup %s for entity %s", ref, entityKey)
		}
		return nil, errors.Wrapf(err, "lookup %s for entity %s", ref, entityKey)
	}

	return decodeValue(value, valueType)
}

// Registry returns the currently loaded registry
func (c *Client) Registry() *Registry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry
}

// DB exposes the online store handle for collaborators that share it
// (usage tracking writes to the same database).
func (c *Client) DB() *sql.DB {
	return c.database
}

// reloadRegistry re-reads feature_store.yaml, swapping the registry on success
func (c *Client) reloadRegistry() error {
	registry, err := LoadRegistry(c.repoPath)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.registry = registry
	c.mu.Unlock()

	c.logger.Infow("Feature registry reloaded",
		"repo", c.repoPath,
		"feature_views", len(registry.FeatureViews),
	)
	return nil
}

// Close releases the online store handle
func (c *Client) Close() error {
	return c.database.Close()
}
