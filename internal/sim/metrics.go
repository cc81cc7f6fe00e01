package sim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики симуляции. Обновляются в конце каждого тика.
var (
	metricTicks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "blockfall",
		Name:      "sim_ticks_total",
		Help:      "Общее число завершённых тиков симуляции.",
	})
	metricMonstersAlive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "blockfall",
		Name:      "sim_monsters_alive",
		Help:      "Количество живых монстров.",
	})
	metricKills = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "blockfall",
		Name:      "sim_monsters_killed_total",
		Help:      "Суммарное число убитых монстров.",
	})
	metricPlayerHealth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "blockfall",
		Name:      "sim_player_health",
		Help:      "Текущее здоровье игрока.",
	})
	metricBlocksBroken = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "blockfall",
		Name:      "sim_blocks_broken_total",
		Help:      "Число разрушенных блоков мира.",
	})
	metricBlocksPlaced = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "blockfall",
		Name:      "sim_blocks_placed_total",
		Help:      "Число построенных игроком блоков.",
	})
)

// observe выгружает показатели тика в Prometheus. Вызывается под мьютексом.
func (e *Engine) observe() {
	metricTicks.Inc()
	metricMonstersAlive.Set(float64(len(e.monsters)))
	metricKills.Set(float64(e.kills))
	metricPlayerHealth.Set(float64(e.player.Health))

	_, broken, placed := e.store.Stats()
	metricBlocksBroken.Set(float64(broken))
	metricBlocksPlaced.Set(float64(placed))
}
