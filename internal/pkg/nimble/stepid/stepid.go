// Package stepid implements the 32-bit wrapping tick identifier used
// throughout the lockstep core. A StepId has no wall-clock binding; it is
// only ever compared using signed-delta arithmetic so that the ring
// survives the rollover at 2^32 ticks.
package stepid

// StepId is a monotonically increasing, wrapping tick identifier.
type StepId uint32

// Delta returns a-b as a signed distance. A positive delta means a is
// ahead of b; this is the only safe way to compare two StepId values.
func Delta(a, b StepId) int32 {
	return int32(a - b)
}

// Before reports whether a precedes b in wrapped tick order.
func Before(a, b StepId) bool {
	return Delta(a, b) < 0
}

// After reports whether a follows b in wrapped tick order.
func After(a, b StepId) bool {
	return Delta(a, b) > 0
}

// Add returns id advanced by n ticks (n may be negative).
func Add(id StepId, n int32) StepId {
	return StepId(int32(id) + n)
}
