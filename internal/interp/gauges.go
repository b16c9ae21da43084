package interp

import (
	"math/rand"
	"sync"
	"time"
)

// Gauge names a simulated resource meter.
type Gauge string

const (
	GaugeCPU Gauge = "cpu"
	GaugeMem Gauge = "mem"
)

// Reading is a new value for one gauge.
type Reading struct {
	Gauge Gauge `json:"gauge"`
	Value int   `json:"value"`
}

// Gauges produces random percentages. The numbers have no relation to the
// host machine.
type Gauges struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGauges uses rng, or a time-seeded source when rng is nil.
func NewGauges(rng *rand.Rand) *Gauges {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Gauges{rng: rng}
}

func (g *Gauges) between(lo, n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo + g.rng.Intn(n)
}

// CPU returns a reading in [5, 34].
func (g *Gauges) CPU() int { return g.between(5, 30) }

// Mem returns a reading in [30, 79].
func (g *Gauges) Mem() int { return g.between(30, 50) }

// Initial returns the pair shown when a session starts: CPU in [5, 24],
// memory in [30, 69].
func (g *Gauges) Initial() (cpu, mem int) {
	return g.between(5, 20), g.between(30, 40)
}
