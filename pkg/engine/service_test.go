package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwine/lookml-generator/internal/testutil"
	"github.com/hwine/lookml-generator/pkg/api"
	"github.com/hwine/lookml-generator/pkg/generator"
	"github.com/hwine/lookml-generator/pkg/metricshub"
	"github.com/hwine/lookml-generator/pkg/redis"
	"github.com/hwine/lookml-generator/pkg/scheduler"
	"github.com/hwine/lookml-generator/pkg/server"
	"github.com/hwine/lookml-generator/pkg/warehouse"
	"github.com/hwine/lookml-generator/pkg/worker"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// testConfig builds a complete engine configuration backed by temporary
// registry and namespaces files.
func testConfig(t *testing.T, redisAddr, warehouseURL string) *Config {
	t.Helper()

	registryDir := t.TempDir()
	writeFile(t, filepath.Join(registryDir, "ns.yml"), `
metrics:
  definitions:
    active_hours:
      select_expression: COALESCE(SUM(active_hours_sum), 0)
      data_source: ds1
data_sources:
  definitions:
    ds1:
      from_expression: mozdata.ds1.metrics
`)

	namespacesFile := filepath.Join(t.TempDir(), "namespaces.yaml")
	writeFile(t, namespacesFile, `
ns:
  pretty_name: Ns
  views:
    metric_definitions_ds1:
      type: metric_definitions_view
`)

	return &Config{
		Logging:        "info",
		NamespacesFile: namespacesFile,
		Server:         server.Config{MetricsAddr: "127.0.0.1:0"},
		Redis:          redis.Config{URL: "redis://" + redisAddr},
		Registry:       metricshub.Config{Dir: registryDir},
		Warehouse:      warehouse.Config{URL: warehouseURL},
		Generator:      generator.Config{OutputDir: t.TempDir(), Concurrency: 2},
		Scheduler:      scheduler.Config{Schedule: "@every 1h"},
		Worker:         worker.Config{Concurrency: 2, ShutdownTimeout: 1},
		API:            api.Config{Enabled: false},
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig(t, "localhost:6379", "http://localhost:8123")
	require.NoError(t, cfg.Validate())

	noRedis := testConfig(t, "localhost:6379", "http://localhost:8123")
	noRedis.Redis.URL = ""
	assert.ErrorIs(t, noRedis.Validate(), redis.ErrURLRequired)

	noSchedule := testConfig(t, "localhost:6379", "http://localhost:8123")
	noSchedule.Scheduler.Schedule = ""
	assert.ErrorIs(t, noSchedule.Validate(), scheduler.ErrScheduleRequired)

	noWarehouse := testConfig(t, "localhost:6379", "http://localhost:8123")
	noWarehouse.Warehouse.URL = ""
	assert.ErrorIs(t, noWarehouse.Validate(), warehouse.ErrURLRequired)
}

func TestNewService(t *testing.T) {
	mr := testutil.NewMiniredis(t)

	svc, err := NewService(logrus.New(), testConfig(t, mr.Addr(), "http://127.0.0.1:9"))
	require.NoError(t, err)
	require.NotNil(t, svc)

	assert.Len(t, svc.namespaces, 1)
	assert.Equal(t, []string{"ns"}, svc.registry.Namespaces())
}

func TestNewServiceInvalidConfig(t *testing.T) {
	_, err := NewService(logrus.New(), &Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, server.ErrMetricsAddrRequired)
}

func TestNewServiceMissingRegistry(t *testing.T) {
	mr := testutil.NewMiniredis(t)

	cfg := testConfig(t, mr.Addr(), "http://127.0.0.1:9")
	cfg.Registry.Dir = filepath.Join(t.TempDir(), "does-not-exist")

	_, err := NewService(logrus.New(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load metrics registry")
}

func TestEngineStartStop(t *testing.T) {
	mr := testutil.NewMiniredis(t)

	wh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":[],"rows":0}`))
	}))
	defer wh.Close()

	svc, err := NewService(logrus.New(), testConfig(t, mr.Addr(), wh.URL))
	require.NoError(t, err)

	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.Stop())
}
