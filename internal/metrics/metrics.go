package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "party_sessions_active",
		Help: "Number of live game sessions",
	})
	PlayersConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "party_players_connected",
		Help: "Number of connected players across all sessions",
	})
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "party_commands_total",
			Help: "Client commands processed by session coordinators",
		},
		[]string{"event"},
	)
)

func init() {
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(PlayersConnected)
	prometheus.MustRegister(CommandsTotal)
}
