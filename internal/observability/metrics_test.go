package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordWorkoutLoggedByKind(t *testing.T) {
	before := testutil.ToFloat64(workoutsLogged.WithLabelValues("cycling"))
	RecordWorkoutLogged("cycling")
	RecordWorkoutLogged("cycling")
	require.Equal(t, before+2, testutil.ToFloat64(workoutsLogged.WithLabelValues("cycling")))
}

func TestRecordLogPersistedIgnoresZeroTime(t *testing.T) {
	ts := time.Date(2024, time.April, 14, 6, 45, 0, 0, time.UTC)
	RecordLogPersisted(ts)
	RecordLogPersisted(time.Time{})
	require.Equal(t, float64(ts.Unix()), testutil.ToFloat64(logPersistGauge))
}

func TestRecordPosition(t *testing.T) {
	before := testutil.ToFloat64(positionResults.WithLabelValues("failed"))
	RecordPosition(false)
	require.Equal(t, before+1, testutil.ToFloat64(positionResults.WithLabelValues("failed")))
}
