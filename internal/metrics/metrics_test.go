package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounters(t *testing.T) {
	r := New()

	r.Transition("answer_question", nil)
	r.Transition("answer_question", nil)
	r.Transition("answer_question", errors.New("offer pending"))
	r.CardFired("blessing", "easy")
	r.GameFinished(4)
	r.PoolExhausted("hard")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.transitions.WithLabelValues("answer_question", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transitions.WithLabelValues("answer_question", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cards.WithLabelValues("blessing", "easy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.gamesFinished.WithLabelValues("4")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.exhausted.WithLabelValues("hard")))
}

func TestRecorderReloadAndGauges(t *testing.T) {
	r := New()

	r.QuestionReload(120, nil)
	r.QuestionReload(0, errors.New("db down"))
	assert.Equal(t, 120.0, testutil.ToFloat64(r.bankSize))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reloads.WithLabelValues("error")))

	r.ClientConnected()
	r.ClientConnected()
	r.ClientDisconnected()
	assert.Equal(t, 1.0, testutil.ToFloat64(r.wsClients))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Transition("x", nil)
		r.CardFired("miracle", "hard")
		r.QuestionReload(1, nil)
		r.ClientConnected()
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.CardFired("reversal", "medium")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `trivia_cards_fired_total{card="reversal",tier="medium"} 1`)
}
