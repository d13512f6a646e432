package core

// Random is the uniform source used for combat rolls. *rand.Rand satisfies it.
type Random interface {
	// Float64 returns a number in [0,1).
	Float64() float64
}
