package database

import (
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/travel-marketplace/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{
		DBUser: "app", DBPass: "p@ss", DBHost: "db.local", DBPort: "3306", DBName: "travel",
		DBConnMaxLifetime: time.Minute,
	})

	assert.True(t, strings.HasPrefix(dsn, "app:p@ss@tcp(db.local:3306)/travel?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestWithMultiStatements(t *testing.T) {
	assert.Equal(t, "u@tcp(h:1)/d?multiStatements=true", withMultiStatements("u@tcp(h:1)/d"))
	assert.Equal(t, "u@tcp(h:1)/d?parseTime=true&multiStatements=true", withMultiStatements("u@tcp(h:1)/d?parseTime=true"))
}

func TestMigrationsEmbedded(t *testing.T) {
	up, err := fs.ReadFile(migrationsFS, "migrations/000001_init.up.sql")
	require.NoError(t, err)
	down, err := fs.ReadFile(migrationsFS, "migrations/000001_init.down.sql")
	require.NoError(t, err)

	for _, table := range []string{"users", "areas", "area_images", "listings", "orders",
		"itinerary_requests", "itineraries", "place_containers", "transport_containers",
		"point_events", "point_details", "user_reviews", "area_reviews", "hashtags"} {
		assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS "+table+" (")
		assert.Contains(t, string(down), "DROP TABLE IF EXISTS "+table+";")
	}
}
