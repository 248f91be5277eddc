package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCommitted(t *testing.T) {
	before := testutil.ToFloat64(MatchesCommitted.WithLabelValues("exact"))

	RecordCommitted("exact", 2)
	RecordCommitted("exact", 0)

	assert.Equal(t, before+2, testutil.ToFloat64(MatchesCommitted.WithLabelValues("exact")))
}

func TestRecordRejected(t *testing.T) {
	before := testutil.ToFloat64(CandidatesRejected.WithLabelValues("a_side_claimed"))
	RecordRejected("a_side_claimed")
	assert.Equal(t, before+1, testutil.ToFloat64(CandidatesRejected.WithLabelValues("a_side_claimed")))
}

func TestRecordRun(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("done"))
	RecordRun("done", time.Now())
	assert.Equal(t, before+1, testutil.ToFloat64(RunsTotal.WithLabelValues("done")))
}

func TestSetStored(t *testing.T) {
	SetStored("a", "b", 7)
	assert.Equal(t, float64(7), testutil.ToFloat64(MatchesStored.WithLabelValues("a", "b")))
}

func TestHandler(t *testing.T) {
	RecordExtraction("fenced")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "boardgame_sync_matcher_extractions_total"))
}
