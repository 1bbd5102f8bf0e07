package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vmctl/pkg/identifier"
	"vmctl/pkg/metrics"
	"vmctl/pkg/models"
	"vmctl/pkg/registry"
)

func TestRecordGauge(t *testing.T) {
	reg := registry.New(identifier.New(), nil)
	promReg := prometheus.NewPedanticRegistry()
	metrics.New(promReg, reg)

	spec, err := models.NewVMSpec(2, 32, "ubuntu-24.04")
	require.NoError(t, err)

	first, err := reg.Create(spec)
	require.NoError(t, err)
	_, err = reg.Create(spec)
	require.NoError(t, err)
	_, err = reg.Stop(first)
	require.NoError(t, err)

	expected := `
# HELP vmctl_vm_records Number of vm records held by the registry, by state.
# TYPE vmctl_vm_records gauge
vmctl_vm_records{state="running"} 1
vmctl_vm_records{state="stopped"} 1
`
	err = testutil.GatherAndCompare(promReg, strings.NewReader(expected), "vmctl_vm_records")
	assert.NoError(t, err)
}

func TestCounters(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg, registry.New(identifier.New(), nil))

	m.VMCreated.Inc()
	m.ValidationFailures.WithLabelValues(models.FieldImage).Inc()
	m.ValidationFailures.WithLabelValues(models.FieldImage).Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.VMCreated))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.VMStopped))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues(models.FieldImage)))
}

func TestNewRegistry(t *testing.T) {
	families, err := metrics.NewRegistry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
