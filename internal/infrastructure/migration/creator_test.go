package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spendlens/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add vendor index", "add_vendor_index"},
		{"Add-Vendor-Index", "add_vendor_index"},
		{"ADD__VENDOR__INDEX", "add_vendor_index"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_Sequential(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "create spend schema", "initial")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_create_spend_schema.up.sql"), first.UpPath)
	assert.FileExists(t, first.DownPath)

	second, err := CreateMigration(dir, "add category index", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)

	content, err := os.ReadFile(second.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "-- Migration: add_category_index")

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_create_spend_schema", "000002_add_category_index"}, names)
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations_MissingDir(t *testing.T) {
	names, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	up, err := migrations.FS.ReadFile("000001_create_spend_schema.up.sql")
	require.NoError(t, err)
	down, err := migrations.FS.ReadFile("000001_create_spend_schema.down.sql")
	require.NoError(t, err)

	for _, table := range []string{"vendors", "customers", "invoices", "line_items", "payments"} {
		assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS "+table)
		assert.Contains(t, string(down), "DROP TABLE IF EXISTS "+table)
	}
}
