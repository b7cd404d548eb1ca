package forecast

// RNG is the pseudo-random source the random forest uses for bootstrap
// sampling. It is injectable so callers and tests can pin a seed and get a
// byte-for-byte reproducible forest.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

// LCG is a small linear congruential generator. Statistical quality is
// irrelevant here; determinism per seed is the contract.
type LCG struct {
	state uint64
}

// NewLCG returns a generator seeded with the given value.
func NewLCG(seed int64) *LCG {
	if seed < 0 {
		seed = -seed
	}
	return &LCG{state: uint64(seed)}
}

// Float64 returns the next value in [0, 1).
func (g *LCG) Float64() float64 {
	g.state = (g.state*9301 + 49297) % 233280
	return float64(g.state) / 233280
}

// Intn returns a value in [0, n).
func (g *LCG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(g.Float64() * float64(n))
}
