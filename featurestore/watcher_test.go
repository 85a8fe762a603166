package featurestore

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestWatchRegistryReloadsOnChange(t *testing.T) {
	client := newTestClient(t)

	watcher, err := client.WatchRegistry()
	if err != nil {
		t.Fatalf("WatchRegistry() error = %v", err)
	}
	defer watcher.Stop()

	// Rewrite the registry with an extra feature
	updated := strings.Replace(validRegistryYAML,
		"      - name: avg_daily_trips\n        dtype: int64\n",
		"      - name: avg_daily_trips\n        dtype: int64\n      - name: rating\n        dtype: float64\n",
		1)
	if updated == validRegistryYAML {
		t.Fatal("test fixture replace did not apply")
	}
	if err := os.WriteFile(client.Registry().RegistryPath(), []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	// Wait past the debounce window for the reload to land
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(client.Registry().FeatureViews[0].Features) == 4 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("registry was not reloaded after file change")
}

func TestWatchRegistryKeepsOldOnInvalidChange(t *testing.T) {
	client := newTestClient(t)

	watcher, err := client.WatchRegistry()
	if err != nil {
		t.Fatalf("WatchRegistry() error = %v", err)
	}
	defer watcher.Stop()

	if err := os.WriteFile(client.Registry().RegistryPath(), []byte("not: [valid"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Give the debounce window time to fire, then verify the previous
	// registry is still served
	time.Sleep(1 * time.Second)
	if client.Registry().Project != "driver_stats" {
		t.Error("invalid registry update should not replace the loaded registry")
	}
}

func TestWatcherStop(t *testing.T) {
	client := newTestClient(t)

	watcher, err := client.WatchRegistry()
	if err != nil {
		t.Fatalf("WatchRegistry() error = %v", err)
	}
	if err := watcher.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
