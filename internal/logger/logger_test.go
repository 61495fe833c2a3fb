package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amykhaylyshyn/gta3sc/internal/config"
	"github.com/amykhaylyshyn/gta3sc/internal/diag"
)

func TestInitAndLog(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.FileName = t.TempDir() + "/test.log"

	require.NoError(t, Init(&cfg.Logging))
	require.NotNil(t, Logger)
	require.NotNil(t, SugarLogger)

	Info("hello")
	assert.NotPanics(t, func() { Logger.Sync() })
}

func TestDiagReporterForwardsAndLogs(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.FileName = t.TempDir() + "/test.log"
	require.NoError(t, Init(&cfg.Logging))

	var forwarded []diag.Diagnostic
	next := forwardingReporter(func(d diag.Diagnostic) { forwarded = append(forwarded, d) })
	r := &DiagReporter{Next: next}

	r.Report(diag.Diagnostic{Severity: diag.Error, Kind: diag.TokenError, Message: "bad token"})
	require.Len(t, forwarded, 1)
	assert.Equal(t, "bad token", forwarded[0].Message)
}

type forwardingReporter func(d diag.Diagnostic)

func (f forwardingReporter) Report(d diag.Diagnostic) { f(d) }
