package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/fleet-compliance-api/internal/testutil"
)

func TestAutoMigrate_CreatesEveryTable(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{"vehicles", "personnel", "documents", "clients", "client_requirements", "alerts"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("alerts", "idx_alerts_document_type"))
}

func TestMigrate_BadSource(t *testing.T) {
	_, err := Migrate("file:///does/not/exist", "postgres://localhost:1/none?sslmode=disable")
	assert.Error(t, err)
}
