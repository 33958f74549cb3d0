package kinematics

import (
	"math"
	"runtime"
	"sync"
)

// Phase is an angle kept in [0, 2π) plus the number of whole turns
// folded out of it. Total recovers the unbounded angle.
type Phase struct {
	Angle float64
	Turns int64
}

// Advance adds delta radians, folding whole turns into Turns.
func (p *Phase) Advance(delta float64) {
	a := p.Angle + delta
	if a >= 0 && a < TwoPi {
		p.Angle = a
		return
	}
	k := math.Floor(a / TwoPi)
	a -= k * TwoPi
	// Floor can land one turn off when a is within an ulp of a multiple of 2π.
	if a >= TwoPi {
		a -= TwoPi
		k++
	} else if a < 0 {
		a += TwoPi
		k--
	}
	p.Angle = a
	p.Turns += int64(k)
}

// Total returns the accumulated angle without wrapping.
func (p Phase) Total() float64 {
	return p.Angle + TwoPi*float64(p.Turns)
}

// Wrap reduces angle into [0, 2π).
func Wrap(angle float64) float64 {
	a := math.Mod(angle, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	if a >= TwoPi {
		a = 0
	}
	return a
}

// Integrate advances b by one frame of dt real seconds at scale m
// simulated seconds per real second and returns the wrapped angles.
// Non-finite or negative inputs produce no motion.
func Integrate(b *Body, dt, m float64) (orbit, spin float64) {
	if usable(dt) && usable(m) {
		b.Orbit.Advance(b.orbitSpeed * dt * m)
		b.Spin.Advance(b.spinSpeed * dt * m)
	}
	return b.Orbit.Angle, b.Spin.Angle
}

func usable(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// parallelThreshold is the body count below which IntegrateAll stays on
// the calling goroutine.
const parallelThreshold = 512

// IntegrateAll integrates every body by the same frame.
func IntegrateAll(bodies []*Body, dt, m float64) {
	ParallelFor(len(bodies), parallelThreshold, func(start, end int) {
		for _, b := range bodies[start:end] {
			Integrate(b, dt, m)
		}
	})
}

// ParallelFor executes fn over [0, n) split into contiguous chunks of at
// least minChunk items, one goroutine per chunk.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	numWorkers := runtime.GOMAXPROCS(0)
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
