package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarginPercent(t *testing.T) {
	require.Equal(t, "50.00", MarginPercent(10, 15))
	require.Equal(t, "30.00", MarginPercent(100, 130))
	require.Equal(t, "66.67", MarginPercent(12, 20))
	require.Equal(t, "0.00", MarginPercent(0, 99))
	require.Equal(t, "-25.00", MarginPercent(20, 15))
}

func TestMulQtyAvoidsFloatDrift(t *testing.T) {
	// 0.1*3 in raw float64 arithmetic gives 0.30000000000000004.
	require.InDelta(t, 0.30, MulQty(0.1, 3), 1e-12)
	require.InDelta(t, 179.70, MulQty(59.9, 3), 1e-12)
}

func TestSumRoundsOnlyOnce(t *testing.T) {
	require.InDelta(t, 0.30, Sum(0.1, 0.1, 0.1), 1e-12)
	require.InDelta(t, 40.00, Sum(20, 20), 1e-12)
}

func TestSub(t *testing.T) {
	require.InDelta(t, 16.00, Sub(40, 24), 1e-12)
	require.InDelta(t, -5.50, Sub(10, 15.5), 1e-12)
}

func TestFixed2(t *testing.T) {
	require.Equal(t, "30.00", Fixed2(30))
	require.Equal(t, "12.35", Fixed2(12.345))
}

func TestRound2(t *testing.T) {
	require.InDelta(t, 12.35, Round2(12.345), 1e-12)
	require.InDelta(t, 12.34, Round2(12.344), 1e-12)
}
