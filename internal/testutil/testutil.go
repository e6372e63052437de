package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/hops-games/internal/api"
	"github.com/dom/hops-games/internal/config"
	"github.com/dom/hops-games/internal/repository"
	"github.com/dom/hops-games/internal/repository/memory"
	repoPostgres "github.com/dom/hops-games/internal/repository/postgres"
	"github.com/dom/hops-games/internal/service"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB starts a PostgreSQL testcontainer, applies the migrations and
// returns a connection. It skips the test under -short.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres test in short mode")
	}

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_games"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	testDB := &TestDB{Container: container}
	t.Cleanup(func() {
		testDB.Cleanup()
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	testDB.DSN = dsn

	if err := repoPostgres.Migrate(dsn); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db, err := repoPostgres.NewConnection(dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	testDB.DB = db

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	for _, table := range []string{"games"} {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

const (
	TestAdminUserID  = "admin-123"
	TestSecretHeader = "x-internal-secret"
	TestSecretValue  = "test-secret-value-123"
	TestJWTSecret    = "test-jwt-secret-key-for-testing-only"
)

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:                      "0", // Random port
		Environment:               "test",
		StorageDriver:             config.StorageDriverMemory,
		GameCacheSize:             1000,
		HopsAPIURL:                "http://127.0.0.1:1",
		HopsTimeout:               time.Second,
		AdminUserID:               TestAdminUserID,
		InternalSecretHeaderName:  TestSecretHeader,
		InternalSecretHeaderValue: TestSecretValue,
		JWTSecret:                 TestJWTSecret,
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	Hops     *HopsServer
	Repos    *repository.Repositories
	Services *service.Services
	Config   *config.Config
}

// NewTestServer serves the API over in-memory repositories, with a fake
// words service that reports the given pairs ("from-to") as linked.
func NewTestServer(t *testing.T, linkedPairs ...string) *TestServer {
	t.Helper()

	hopsSrv := NewHopsServer(t, linkedPairs...)
	cfg := TestConfig()
	cfg.HopsAPIURL = hopsSrv.URL()

	repos := memory.NewRepositories()
	services, err := service.NewServices(repos, cfg)
	if err != nil {
		t.Fatalf("failed to build services: %v", err)
	}
	router := api.NewRouter(services, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		Hops:     hopsSrv,
		Repos:    repos,
		Services: services,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}
