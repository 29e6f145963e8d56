//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestAirankWithMySQL tests the airank CLI with a MySQL backend.
func TestAirankWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "airank",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/airank?parseTime=true", host, port.Port())

	// Set environment variables
	_ = os.Setenv("AIRANK_CACHE_BACKEND", "mysql")
	_ = os.Setenv("AIRANK_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("AIRANK_HISTORY_BACKEND", "mysql")
	_ = os.Setenv("AIRANK_HISTORY_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("AIRANK_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("AIRANK_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("AIRANK_HISTORY_BACKEND") }()
	defer func() { _ = os.Unsetenv("AIRANK_HISTORY_DB_CONNECT") }()

	runAirankLifecycle(t)
}

// TestAirankWithPostgres tests the airank CLI with a PostgreSQL backend.
func TestAirankWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	// Set environment variables
	_ = os.Setenv("AIRANK_CACHE_BACKEND", "postgresql")
	_ = os.Setenv("AIRANK_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("AIRANK_HISTORY_BACKEND", "postgresql")
	_ = os.Setenv("AIRANK_HISTORY_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("AIRANK_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("AIRANK_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("AIRANK_HISTORY_BACKEND") }()
	defer func() { _ = os.Unsetenv("AIRANK_HISTORY_DB_CONNECT") }()

	runAirankLifecycle(t)
}

// runAirankLifecycle exercises the full command surface against the
// configured backend: clear, generate from a fixture, then inspect state.
func runAirankLifecycle(t *testing.T) {
	// Run airank cache clear
	err := runAirankCommand(t, "cache", "clear")
	require.NoError(t, err)

	// Run airank history clear
	err = runAirankCommand(t, "history", "clear")
	require.NoError(t, err)

	// Run airank generate on the fixture set (no clustering; no embedding
	// service is available in CI)
	err = runAirankCommand(t, "generate", "integration/testdata/repos.json", "--workers", "2")
	require.NoError(t, err)

	// Run airank summary over the snapshot just written
	err = runAirankCommand(t, "summary")
	require.NoError(t, err)

	// Run airank cache status
	err = runAirankCommand(t, "cache", "status")
	require.NoError(t, err)

	// Run airank history status
	err = runAirankCommand(t, "history", "status")
	require.NoError(t, err)
}

func runAirankCommand(t *testing.T, args ...string) error {
	airankPath := getAirankBinary()
	cmd := exec.Command(airankPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
