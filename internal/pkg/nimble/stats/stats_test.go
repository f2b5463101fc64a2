package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRollingAverage(t *testing.T) {
	r := NewRollingAverage(3)
	require.Equal(t, float64(0), r.Average())

	r.Add(1)
	r.Add(2)
	r.Add(3)
	require.Equal(t, float64(2), r.Average())

	r.Add(9)
	require.InDelta(t, float64(14)/3, r.Average(), 0.0001)
}

func TestPerSecondRollsOnWindow(t *testing.T) {
	start := time.Unix(0, 0)
	p := NewPerSecond(start, 1000)
	p.Add(5)
	p.Add(5)

	p.Update(start.Add(500 * time.Millisecond))
	require.Equal(t, float64(0), p.Rate())

	p.Update(start.Add(1100 * time.Millisecond))
	require.InDelta(t, 10.0, p.Rate(), 0.5)
}
