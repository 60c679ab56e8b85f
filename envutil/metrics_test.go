package envutil_test

import (
	"testing"

	"github.com/amp-labs/envcheck/envutil"
	"github.com/amp-labs/envcheck/validators"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()
	metrics := envutil.NewMetrics(reg)

	schema := envutil.NewSchema(
		envutil.Define("FOO", validators.String),
		envutil.Define("BAR", validators.Number),
		envutil.Define("BAZ", validators.Boolean),
	)

	_, err := envutil.Resolve(envutil.Map{"FOO": "a", "BAR": "1", "BAZ": "true"}, schema,
		envutil.WithMetrics(metrics))
	require.NoError(t, err)

	_, err = envutil.Resolve(envutil.Map{"FOO": "a", "BAR": "x"}, schema,
		envutil.WithMetrics(metrics))
	require.Error(t, err)

	_, err = envutil.Resolve(envutil.Map{"FOO": "a", "BAR": "y"}, schema,
		envutil.WithMetrics(metrics))
	require.Error(t, err)

	count, err := testutil.GatherAndCount(reg, "env_resolutions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count) // two label combinations: ok and failed

	count, err = testutil.GatherAndCount(reg, "env_variable_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count) // BAR/invalid and BAZ/missing
}

func TestMetricsUnregistered(t *testing.T) {
	t.Parallel()

	metrics := envutil.NewMetrics(nil)

	_, err := envutil.Resolve(envutil.Map{}, envutil.NewSchema(), envutil.WithMetrics(metrics))
	require.NoError(t, err)
}
