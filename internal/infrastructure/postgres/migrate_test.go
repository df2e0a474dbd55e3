package postgres

import (
	"testing"

	"github.com/fastygo/taskflow/internal/config"
)

func TestMigrationsTable(t *testing.T) {
	tests := map[string]string{
		"":         "schema_migrations",
		"taskflow": "taskflow_schema_migrations",
		"team-a":   "team_a_schema_migrations",
	}
	for namespace, want := range tests {
		if got := migrationsTable(namespace); got != want {
			t.Errorf("migrationsTable(%q) = %q, want %q", namespace, got, want)
		}
	}
}

func TestRunMigrationsSkipsOtherDrivers(t *testing.T) {
	cfg := &config.Config{
		Store:      config.StoreConfig{Driver: config.DriverBolt},
		Migrations: config.MigrationsConfig{Enabled: true},
	}
	if err := RunMigrations(cfg, nil); err != nil {
		t.Errorf("RunMigrations for bolt = %v", err)
	}
	if err := RunMigrations(nil, nil); err != nil {
		t.Errorf("RunMigrations(nil) = %v", err)
	}
}
