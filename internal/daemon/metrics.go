package daemon

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics are registered on a registry owned by one Service.
type metrics struct {
	registry *prometheus.Registry

	polls       prometheus.Counter
	pollErrors  prometheus.Counter
	events      *prometheus.CounterVec
	requests    *prometheus.CounterVec
	subscribers prometheus.Gauge

	loggedIn     prometheus.Gauge
	transactions prometheus.Gauge
	budgets      prometheus.Gauge
	income       prometheus.Gauge
	expense      prometheus.Gauge
	balance      prometheus.Gauge
	alerts       prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		polls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_daemon_polls_total",
			Help: "How many store polls the daemon ran.",
		}),
		pollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_daemon_poll_errors_total",
			Help: "How many store polls failed.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fintrack_daemon_events_total",
			Help: "Published events, partitioned by type.",
		}, []string{"type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fintrack_daemon_requests_total",
			Help: "How many HTTP requests processed, partitioned by status code, method and route.",
		}, []string{"code", "method", "url"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_daemon_stream_subscribers",
			Help: "Connected SSE clients.",
		}),
		loggedIn: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_logged_in",
			Help: "1 when a user is logged in.",
		}),
		transactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_transactions",
			Help: "Transactions owned by the logged-in user.",
		}),
		budgets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_budgets",
			Help: "Budgets owned by the logged-in user.",
		}),
		income: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_income_total",
			Help: "Total income of the logged-in user.",
		}),
		expense: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_expense_total",
			Help: "Total expense of the logged-in user.",
		}),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_balance",
			Help: "Income minus expense of the logged-in user.",
		}),
		alerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_budget_alerts",
			Help: "Budgets currently exceeded.",
		}),
	}
	m.registry.MustRegister(
		m.polls, m.pollErrors, m.events, m.requests, m.subscribers,
		m.loggedIn, m.transactions, m.budgets, m.income, m.expense, m.balance, m.alerts,
	)
	return m
}

func (m *metrics) observe(s Snapshot) {
	logged := 0.0
	if s.LoggedIn {
		logged = 1
	}
	m.loggedIn.Set(logged)
	m.transactions.Set(float64(s.Transactions))
	m.budgets.Set(float64(s.Budgets))
	m.income.Set(s.Income.InexactFloat64())
	m.expense.Set(s.Expense.InexactFloat64())
	m.balance.Set(s.Balance.InexactFloat64())
	m.alerts.Set(float64(len(s.Alerts)))
}
