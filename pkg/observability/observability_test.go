package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "docspace/pkg/errors"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_IndependentRegistries(t *testing.T) {
	a := NewCollector("docspace")
	b := NewCollector("docspace")

	a.RecordGraphBuild(4, 2)
	a.RecordGraphBuild(1, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(a.GraphBuilds))
	assert.Equal(t, 2.0, testutil.ToFloat64(a.GraphLinksDropped))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.GraphBuilds))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("docspace")
	c.ObserveHTTP("GET", "/health", "200", 5*time.Millisecond)
	c.RecordMutation("file", "create")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `docspace_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, body, `docspace_mutations_total{action="create",resource="file"} 1`)
}

func TestTracer_WithoutSegmentRunsPlain(t *testing.T) {
	tracer := NewTracer("docspace", true)
	called := false
	err := tracer.TraceFunction(context.Background(), "op", func(context.Context) error {
		called = true
		return errors.New("boom")
	})
	assert.True(t, called)
	assert.EqualError(t, err, "boom")

	var nilTracer *Tracer
	assert.NoError(t, nilTracer.TraceFunction(context.Background(), "op", func(context.Context) error { return nil }))
}

func TestCollector_ObserveDispatch(t *testing.T) {
	c := NewCollector("docspace")

	c.ObserveDispatch("command", "CreateLinkCommand", nil, time.Millisecond)
	c.ObserveDispatch("command", "CreateLinkCommand", pkgerrors.NewForbiddenError(""), time.Millisecond)
	c.ObserveDispatch("query", "GetGraphDataQuery", errors.New("boom"), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Dispatches.WithLabelValues("command", "CreateLinkCommand", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Dispatches.WithLabelValues("command", "CreateLinkCommand", "FORBIDDEN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Dispatches.WithLabelValues("query", "GetGraphDataQuery", "error")))
}
