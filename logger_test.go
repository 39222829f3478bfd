package flatvec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerDefaultsToNop(t *testing.T) {
	require.NotNil(t, Logger())
	SetLogger(nil)
	require.NotNil(t, Logger())
}

func TestLoggerRecordsRejectedOffset(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	tab, err := GetRootTable(defaultFixture().build())
	require.NoError(t, err)
	_, err = Scalars(tab, 0, Uint32)
	require.Error(t, err)

	entries := logs.FilterMessage("vector construction failed").All()
	require.Len(t, entries, 1)
	require.EqualValues(t, 0, entries[0].ContextMap()["offset"])

	tab.Release()
	require.Equal(t, 1, logs.FilterMessage("table released").Len())
}
