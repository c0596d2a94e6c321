// Package testutil provides a PostgreSQL connection for integration tests.
// POSTGRES_URL points at an existing database; otherwise a throwaway
// container is started. Tests are skipped under -short or without Docker.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	containerOnce sync.Once
	containerURL  string
	containerErr  error
)

// GetDB opens a gorm connection to the integration database.
func GetDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in -short mode")
	}

	dsn := os.Getenv("POSTGRES_URL")
	if dsn == "" {
		containerOnce.Do(func() {
			containerURL, containerErr = startPostgresContainer()
		})
		if containerErr != nil {
			t.Skipf("postgres unavailable: %v", containerErr)
		}
		dsn = containerURL
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open postgres: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(50)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func startPostgresContainer() (string, error) {
	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:16-alpine"),
		postgres.WithDatabase("ticketflow_test"),
		postgres.WithUsername("ticketflow"),
		postgres.WithPassword("ticketflow"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return "", err
	}

	return container.ConnectionString(ctx, "sslmode=disable", "application_name=ticketflow_test")
}
