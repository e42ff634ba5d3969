package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trivia"

// Recorder collects gameplay metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	transitions   *prometheus.CounterVec
	cards         *prometheus.CounterVec
	gamesFinished *prometheus.CounterVec
	exhausted     *prometheus.CounterVec
	reloads       *prometheus.CounterVec
	bankSize      prometheus.Gauge
	wsClients     prometheus.Gauge
}

// New registers every collector, plus the Go and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "State machine transitions by name and result.",
		}, []string{"transition", "result"}),
		cards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_fired_total",
			Help:      "Event cards fired by kind and tier.",
		}, []string{"card", "tier"}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Finished games by table size.",
		}, []string{"players"}),
		exhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exhausted_pool_total",
			Help:      "Times a player ran out of unused questions.",
		}, []string{"tier"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "question_reloads_total",
			Help:      "Question bank reloads by result.",
		}, []string{"result"}),
		bankSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "question_bank_size",
			Help:      "Questions currently loaded.",
		}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients",
			Help:      "Connected WebSocket clients.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.transitions,
		r.cards,
		r.gamesFinished,
		r.exhausted,
		r.reloads,
		r.bankSize,
		r.wsClients,
	)
	return r
}

// Handler serves the registry for /metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) Transition(name string, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	r.transitions.WithLabelValues(name, result).Inc()
}

func (r *Recorder) CardFired(card, tier string) {
	if r == nil {
		return
	}
	r.cards.WithLabelValues(card, tier).Inc()
}

func (r *Recorder) GameFinished(players int) {
	if r == nil {
		return
	}
	r.gamesFinished.WithLabelValues(strconv.Itoa(players)).Inc()
}

func (r *Recorder) PoolExhausted(tier string) {
	if r == nil {
		return
	}
	r.exhausted.WithLabelValues(tier).Inc()
}

func (r *Recorder) QuestionReload(count int, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.reloads.WithLabelValues("error").Inc()
		return
	}
	r.reloads.WithLabelValues("ok").Inc()
	r.bankSize.Set(float64(count))
}

func (r *Recorder) BankSize(count int) {
	if r == nil {
		return
	}
	r.bankSize.Set(float64(count))
}

func (r *Recorder) ClientConnected() {
	if r == nil {
		return
	}
	r.wsClients.Inc()
}

func (r *Recorder) ClientDisconnected() {
	if r == nil {
		return
	}
	r.wsClients.Dec()
}
