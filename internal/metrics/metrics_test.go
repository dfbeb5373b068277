package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.MailSend(true)
	m.MailSend(false)
	m.MailSend(false)
	m.Registration(true)
	m.TokenIssued(true)
	m.GateRejection("invalid_key")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.mailSend.WithLabelValues(ResultOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.mailSend.WithLabelValues(ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registrations.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tokensIssued.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gateRejections.WithLabelValues("invalid_key")))
}

func TestMetrics_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.MailSend(true)
		m.Registration(false)
		m.TokenIssued(false)
		m.GateRejection("missing")
	})
}
