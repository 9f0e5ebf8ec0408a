package berth

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()

	metrics, err := NewMetrics(reg, "test")
	require.NoError(t, err)

	m := New(WithMiddleware(metrics))
	require.NoError(t, m.RegisterInstance(Keys("ok"), 1))
	require.NoError(t, m.Register(Keys("bad"), LifetimeLazySingleton, func() (any, error) {
		return nil, errors.New("boom")
	}))
	require.NoError(t, m.Register(Keys("off"), LifetimeNone, nil))

	_, _ = m.Get("ok")
	_, _ = m.Get("ok")
	_, _ = m.Get("missing")
	_, _ = m.Get("bad")
	_, _ = m.Get("off")

	counter := metrics.Resolutions()
	assert.Equal(t, 2.0, testutil.ToFloat64(counter.WithLabelValues("singleton", OutcomeHit)))
	assert.Equal(t, 2.0, testutil.ToFloat64(counter.WithLabelValues("none", OutcomeMiss)))
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("lazy-singleton", OutcomeError)))

	count, err := testutil.GatherAndCount(reg, "test_container_resolutions_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := NewMetrics(reg, "dup")
	require.NoError(t, err)

	_, err = NewMetrics(reg, "dup")
	assert.Error(t, err)

	_, err = NewMetrics(nil, "dup")
	assert.NoError(t, err)
}
