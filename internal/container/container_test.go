package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/benefit-reimbursement/internal/config"
	"github.com/garyjia/benefit-reimbursement/internal/domain/event"
)

func testConfig(t *testing.T, engineURL string) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Engine.BaseURL = engineURL
	cfg.Journal.Path = ":memory:"
	cfg.Session.SweepInterval = 10 * time.Millisecond
	return cfg
}

func fakeEngine(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/employees" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":"6f1c1c52-0f4e-4c43-9a53-8d1a6d1d7b11","name":"Jane Doe","employee_id":"E001"}]`))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewContainer_Validation(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)

	cfg := testConfig(t, "http://localhost:8000/api/v1")
	_, err = NewContainer(cfg, nil)
	assert.Error(t, err)

	cfg.Engine.Timeout = 0
	_, err = NewContainer(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestContainer_Lifecycle(t *testing.T) {
	srv := fakeEngine(t)
	c, err := NewContainer(testConfig(t, srv.URL+"/api/v1"), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, c.Start(context.Background()))
	assert.True(t, c.Ready())
	assert.Error(t, c.Start(context.Background()), "second start must fail")

	assert.True(t, c.Directory().Loaded())
	assert.Len(t, c.Directory().List(), 1)

	health := c.Health(context.Background())
	assert.True(t, health.Overall)
	assert.True(t, health.Components["database"].Healthy)
	assert.Equal(t, "employees: 1", health.Components["directory"].Message)

	names := c.Dispatcher().ListHandlers(event.TypeSubmissionResolved)
	require.Len(t, names, 1, "journal only; lark is disabled")
	assert.Equal(t, "journal-resolved", names[0].Name)

	s := c.Registry().Create()
	assert.Equal(t, 1, c.Registry().Len())
	assert.NotEmpty(t, s.ID())

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.Error(t, c.Close())
	assert.Error(t, c.Start(context.Background()))
}

func TestContainer_StartsWhileEngineIsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewContainer(testConfig(t, srv.URL+"/api/v1"), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	assert.False(t, c.Directory().Loaded())
	assert.Equal(t, "not loaded", c.Health(context.Background()).Components["directory"].Message)
}

func TestRegisterHandlers_RequiresDispatcher(t *testing.T) {
	assert.Error(t, RegisterHandlers(nil))
	assert.Error(t, RegisterHandlers(&HandlerDeps{Logger: zap.NewNop()}))
}
