package utils_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/ChiaYuChang/pwsscraper/pkgs/utils"
	"github.com/stretchr/testify/require"
)

func TestNormalizeString(t *testing.T) {
	tcs := []struct {
		Name   string
		Input  string
		Output string
	}{
		{
			Name:   "Double space",
			Input:  "Elev  -107507 ft",
			Output: "Elev -107507 ft",
		},
		{
			Name:   "Non-breaking spaces and newlines",
			Input:  "\n\u00a0 49.38\u00a0°N \t",
			Output: "49.38 °N",
		},
		{
			Name:   "Zero width",
			Input:  "NNW\u200b",
			Output: "NNW",
		},
		{
			Name:   "Empty",
			Input:  "   ",
			Output: "",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.Name, func(t *testing.T) {
			require.Equal(t, tc.Output, utils.NormalizeString(tc.Input))
		})
	}
}

func TestRound(t *testing.T) {
	tcs := []struct {
		Input  float64
		Places int
		Output float64
	}{
		{5 * 0.868976, 2, 4.34},
		{8 * 0.868976, 2, 6.95},
		{12.5 * 0.868976, 2, 10.86},
		{0.005, 2, 0.01},
		{-1.234, 1, -1.2},
		{3, 2, 3},
	}

	for i, tc := range tcs {
		t.Run(fmt.Sprintf("Case %d", i+1), func(t *testing.T) {
			require.Equal(t, tc.Output, utils.Round(tc.Input, tc.Places))
		})
	}
}

func TestClampMin(t *testing.T) {
	require.Equal(t, 0.0, utils.ClampMin(-107507, 0))
	require.Equal(t, 0.0, utils.ClampMin(0, 0))
	require.Equal(t, 312.0, utils.ClampMin(312, 0))
	require.Equal(t, 0.0, utils.ClampMin(math.NaN(), 0))
	require.Equal(t, math.Inf(1), utils.ClampMin(math.Inf(1), 0))
}

func TestDuplicates(t *testing.T) {
	require.Empty(t, utils.Duplicates([]string{"Deep Cove", "Best Point"}))
	require.Equal(t,
		[]string{"Deep Cove"},
		utils.Duplicates([]string{"Deep Cove", "Best Point", "Deep Cove", "Deep Cove"}))
}

func TestMask(t *testing.T) {
	require.Equal(t, "●●●●", utils.Mask("pass"))
	require.Equal(t, "nats:●●●●●●●:4222", utils.Mask("nats:secretx:4222"))
}

func TestDefaultIfZero(t *testing.T) {
	require.Equal(t, "text", utils.DefaultIfZero("", "text"))
	require.Equal(t, "json", utils.DefaultIfZero("json", "text"))
	require.Equal(t, 4, utils.DefaultIfZero(0, 4))
	require.Equal(t, "debug", utils.IfElse(true, "debug", "info"))
}
