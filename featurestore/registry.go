package featurestore

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/drivernote/drivernote/errors"
)

// RegistryFileName is the repository definition file expected in a feature
// repository directory.
const RegistryFileName = "feature_store.yaml"

// Registry is the parsed feature repository definition
type Registry struct {
	Project      string            `yaml:"project"`
	EntityKey    string            `yaml:"entity_key"`
	OnlineStore  OnlineStoreConfig `yaml:"online_store"`
	FeatureViews []FeatureView     `yaml:"feature_views"`

	// repoPath is the directory the registry was loaded from
	repoPath string
}

// OnlineStoreConfig configures the online store backend
type OnlineStoreConfig struct {
	Type string `yaml:"type"` // only "sqlite" is supported
	Path string `yaml:"path"` // sqlite file, relative to the repository directory
}

// FeatureView groups features that share an entity and freshness window
type FeatureView struct {
	Name       string       `yaml:"name"`
	Entities   []string     `yaml:"entities"`
	TTLSeconds int64        `yaml:"ttl_seconds"`
	Features   []FeatureDef `yaml:"features"`
}

// FeatureDef declares a single feature and its value type
type FeatureDef struct {
	Name  string `yaml:"name"`
	DType string `yaml:"dtype"`
}

// LoadRegistry reads and validates feature_store.yaml from a repository directory
func LoadRegistry(repoPath string) (*Registry, error) {
	registryPath := filepath.Join(repoPath, RegistryFileName)

	data, err := os.ReadFile(registryPath)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", registryPath)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", registryPath)
	}
	reg.repoPath = repoPath

	if err := reg.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid registry %s", registryPath)
	}

	return &reg, nil
}

// validate checks registry invariants after parsing
func (r *Registry) validate() error {
	if r.Project == "" {
		return errors.New("project is required")
	}
	if r.EntityKey == "" {
		return errors.New("entity_key is required")
	}
	if r.OnlineStore.Type != "" && r.OnlineStore.Type != "sqlite" {
		return errors.Newf("unsupported online store type %q", r.OnlineStore.Type)
	}
	if r.OnlineStore.Path == "" {
		return errors.New("online_store.path is required")
	}
	if len(r.FeatureViews) == 0 {
		return errors.New("at least one feature view is required")
	}

	validTypes := map[string]bool{
		TypeInt64:   true,
		TypeFloat64: true,
		TypeString:  true,
		TypeBool:    true,
	}

	seenViews := make(map[string]bool, len(r.FeatureViews))
	for _, view := range r.FeatureViews {
		if view.Name == "" {
			return errors.New("feature view missing name")
		}
		if seenViews[view.Name] {
			return errors.Newf("duplicate feature view %q", view.Name)
		}
		seenViews[view.Name] = true

		if len(view.Features) == 0 {
			return errors.Newf("feature view %q declares no features", view.Name)
		}

		seenFeatures := make(map[string]bool, len(view.Features))
		for _, f := range view.Features {
			if f.Name == "" {
				return errors.Newf("feature view %q has a feature missing name", view.Name)
			}
			if seenFeatures[f.Name] {
				return errors.Newf("duplicate feature %q in view %q", f.Name, view.Name)
			}
			seenFeatures[f.Name] = true

			if !validTypes[f.DType] {
				return errors.Newf("feature %s:%s has unknown dtype %q", view.Name, f.Name, f.DType)
			}
		}
	}

	return nil
}

// StorePath returns the absolute path of the online store sqlite file
func (r *Registry) StorePath() string {
	if filepath.IsAbs(r.OnlineStore.Path) {
		return r.OnlineStore.Path
	}
	return filepath.Join(r.repoPath, r.OnlineStore.Path)
}

// RegistryPath returns the path of the feature_store.yaml this registry came from
func (r *Registry) RegistryPath() string {
	return filepath.Join(r.repoPath, RegistryFileName)
}

// lookupFeature resolves a FeatureRef against the registry
func (r *Registry) lookupFeature(ref FeatureRef) (*FeatureDef, error) {
	for i := range r.FeatureViews {
		view := &r.FeatureViews[i]
		if view.Name != ref.View {
			continue
		}
		for j := range view.Features {
			if view.Features[j].Name == ref.Feature {
				return &view.Features[j], nil
			}
		}
		return nil, errors.Wrapf(errors.ErrNotFound, "feature %q in view %q", ref.Feature, ref.View)
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "feature view %q", ref.View)
}

// Write marshals the registry back to feature_store.yaml in the given directory
func (r *Registry) Write(repoPath string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshal registry")
	}

	registryPath := filepath.Join(repoPath, RegistryFileName)
	if err := os.WriteFile(registryPath, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", registryPath)
	}

	return nil
}
