package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost:5432/db?sslmode=disable":   "pgx5://u:p@localhost:5432/db?sslmode=disable",
		"postgresql://u:p@localhost:5432/db?sslmode=disable": "pgx5://u:p@localhost:5432/db?sslmode=disable",
		"pgx5://already/converted":                           "pgx5://already/converted",
	}

	for in, want := range tests {
		assert.Equal(t, want, MigrateURL(in), in)
	}
}

func TestEmbeddedMigrations_ArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}

	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("unexpected file in migrations: %s", name)
		}
	}

	assert.Equal(t, ups, downs)
}

func TestUsersMigration_EnforcesUniqueEmail(t *testing.T) {
	b, err := fs.ReadFile(migrationsFS, "migrations/000001_create_users_table.up.sql")
	require.NoError(t, err)

	sql := string(b)
	assert.Contains(t, sql, "UNIQUE (email)")
	assert.Contains(t, sql, "BIGSERIAL")
	assert.Contains(t, sql, "CHECK (age >= 0)")
}

func TestMigrateDown_RejectsNonPositiveSteps(t *testing.T) {
	err := MigrateDown("postgres://u:p@localhost:1/db", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps must be positive")
}
