package featurestore

import (
	"os"
	"path/filepath"
	"testing"
)

const validRegistryYAML = `project: driver_stats
entity_key: driver_id
online_store:
  type: sqlite
  path: data/online_store.db
feature_views:
  - name: driver_hourly_stats
    entities: [driver_id]
    ttl_seconds: 86400
    features:
      - name: conv_rate
        dtype: float64
      - name: acc_rate
        dtype: float64
      - name: avg_daily_trips
        dtype: int64
`

func writeRegistry(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, RegistryFileName)
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadRegistry(t *testing.T) {
	dir := writeRegistry(t, validRegistryYAML)

	reg, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}

	if reg.Project != "driver_stats" {
		t.Errorf("Project = %q", reg.Project)
	}
	if reg.EntityKey != "driver_id" {
		t.Errorf("EntityKey = %q", reg.EntityKey)
	}
	if len(reg.FeatureViews) != 1 {
		t.Fatalf("FeatureViews = %d, want 1", len(reg.FeatureViews))
	}

	view := reg.FeatureViews[0]
	if view.Name != "driver_hourly_stats" {
		t.Errorf("view name = %q", view.Name)
	}
	if view.TTLSeconds != 86400 {
		t.Errorf("ttl = %d", view.TTLSeconds)
	}
	if len(view.Features) != 3 {
		t.Fatalf("features = %d, want 3", len(view.Features))
	}
	if view.Features[2].Name != "avg_daily_trips" || view.Features[2].DType != TypeInt64 {
		t.Errorf("feature[2] = %+v", view.Features[2])
	}
}

func TestLoadRegistryMissingFile(t *testing.T) {
	if _, err := LoadRegistry(t.TempDir()); err == nil {
		t.Error("LoadRegistry() on empty dir should return error")
	}
}

func TestLoadRegistryValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing project",
			yaml: `entity_key: driver_id
online_store:
  path: db.sqlite
feature_views:
  - name: v
    features:
      - {name: f, dtype: int64}
`,
		},
		{
			name: "missing entity key",
			yaml: `project: p
online_store:
  path: db.sqlite
feature_views:
  - name: v
    features:
      - {name: f, dtype: int64}
`,
		},
		{
			name: "unsupported store type",
			yaml: `project: p
entity_key: k
online_store:
  type: redis
  path: db.sqlite
feature_views:
  - name: v
    features:
      - {name: f, dtype: int64}
`,
		},
		{
			name: "missing store path",
			yaml: `project: p
entity_key: k
online_store:
  type: sqlite
feature_views:
  - name: v
    features:
      - {name: f, dtype: int64}
`,
		},
		{
			name: "no feature views",
			yaml: `project: p
entity_key: k
online_store:
  path: db.sqlite
feature_views: []
`,
		},
		{
			name: "duplicate views",
			yaml: `project: p
entity_key: k
online_store:
  path: db.sqlite
feature_views:
  - name: v
    features:
      - {name: f, dtype: int64}
  - name: v
    features:
      - {name: g, dtype: int64}
`,
		},
		{
			name: "duplicate features in view",
			yaml: `project: p
entity_key: k
online_store:
  path: db.sqlite
feature_views:
  - name: v
    features:
      - {name: f, dtype: int64}
      - {name: f, dtype: int64}
`,
		},
		{
			name: "unknown dtype",
			yaml: `project: p
entity_key: k
online_store:
  path: db.sqlite
feature_views:
  - name: v
    features:
      - {name: f, dtype: decimal}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeRegistry(t, tt.yaml)
			if _, err := LoadRegistry(dir); err == nil {
				t.Error("LoadRegistry() should reject invalid registry")
			}
		})
	}
}

func TestStorePathRelative(t *testing.T) {
	dir := writeRegistry(t, validRegistryYAML)
	reg, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}

	want := filepath.Join(dir, "data", "online_store.db")
	if reg.StorePath() != want {
		t.Errorf("StorePath() = %q, want %q", reg.StorePath(), want)
	}
}

func TestRegistryWriteRoundTrip(t *testing.T) {
	dir := writeRegistry(t, validRegistryYAML)
	reg, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}

	out := t.TempDir()
	if err := reg.Write(out); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	reloaded, err := LoadRegistry(out)
	if err != nil {
		t.Fatalf("LoadRegistry() after Write error = %v", err)
	}
	if reloaded.Project != reg.Project || len(reloaded.FeatureViews) != len(reg.FeatureViews) {
		t.Error("Write/Load round trip lost registry content")
	}
}

func TestLookupFeature(t *testing.T) {
	dir := writeRegistry(t, validRegistryYAML)
	reg, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}

	def, err := reg.lookupFeature(FeatureRef{View: "driver_hourly_stats", Feature: "conv_rate"})
	if err != nil {
		t.Fatalf("lookupFeature() error = %v", err)
	}
	if def.DType != TypeFloat64 {
		t.Errorf("dtype = %q", def.DType)
	}

	if _, err := reg.lookupFeature(FeatureRef{View: "driver_hourly_stats", Feature: "nope"}); err == nil {
		t.Error("unknown feature should return error")
	}
	if _, err := reg.lookupFeature(FeatureRef{View: "nope", Feature: "conv_rate"}); err == nil {
		t.Error("unknown view should return error")
	}
}
