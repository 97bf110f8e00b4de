// Package simulated enthält Provider, die Web-Quellen mit einem gesäten Zufallsgenerator nachbilden.
package simulated

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Dice ist ein threadsicherer, reproduzierbarer Zufallsgenerator für alle simulierten Quellen.
type Dice struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDice erstellt einen Generator. seed 0 wählt einen zeitbasierten Seed.
func NewDice(seed uint64) *Dice {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Dice{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Chance liefert mit Wahrscheinlichkeit p true.
func (d *Dice) Chance(p float64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Float64() < p
}

// IntN liefert eine Zahl in [0, n).
func (d *Dice) IntN(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.IntN(n)
}

// Between liefert eine Zahl in [lo, hi].
func (d *Dice) Between(lo, hi int) int {
	return lo + d.IntN(hi-lo+1)
}

// Pick wählt ein Element aus items.
func Pick[T any](d *Dice, items []T) T {
	return items[d.IntN(len(items))]
}
