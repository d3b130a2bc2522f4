package metricsrv

import (
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/chanconsole/chanconsole/internal/stats"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T, enableStream bool) (*Server, *stats.Registry, int) {
	t.Helper()
	registry := stats.NewRegistry()
	registry.Start()
	srv := NewServer(registry, enableStream)

	var port int
	var err error
	for _, p := range []int{17770, 17771, 17772} {
		if err = srv.Start(uint16(p)); err == nil {
			port = p
			break
		}
	}
	require.NoError(t, err)
	t.Cleanup(srv.Shutdown)
	return srv, registry, port
}

func TestMetricsEndpointServesJSONArray(t *testing.T) {
	_, registry, port := startTestServer(t, true)
	registry.Emit(stats.Event{
		Kind: stats.EventCreated, ID: "a.go:1", Label: "hello-there",
		ChanKind: stats.Oneshot(), TypeName: "string", TypeSize: 16,
	})
	time.Sleep(20 * time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/metrics", port))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `"label":"hello-there"`)
	require.Contains(t, string(body), `"channel_type":"oneshot"`)
}

func TestUnknownRouteIs404(t *testing.T) {
	_, _, port := startTestServer(t, true)
	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/nope", port))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBindFailureIsWrappedError(t *testing.T) {
	_, _, port := startTestServer(t, true)
	second := NewServer(stats.NewRegistry(), true)
	err := second.Start(uint16(port))
	require.Error(t, err)
	require.Contains(t, err.Error(), "CHANCONSOLE_METRICS_PORT")
}

func TestStreamRouteDisabledWhenStreamingOff(t *testing.T) {
	_, _, port := startTestServer(t, false)
	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/metrics/stream", port))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
