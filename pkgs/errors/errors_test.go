package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	ec "github.com/ChiaYuChang/pwsscraper/pkgs/errors"
	"github.com/stretchr/testify/require"
)

func TestCloneMatchesSentinel(t *testing.T) {
	tcs := []struct {
		Name     string
		Err      *ec.Error
		Sentinel *ec.Error
		Match    bool
	}{
		{
			Name:     "Network clone",
			Err:      ec.ErrNetwork.Clone().WithDetails("url: http://example.com"),
			Sentinel: ec.ErrNetwork,
			Match:    true,
		},
		{
			Name:     "Parse clone against network",
			Err:      ec.ErrParse.Clone(),
			Sentinel: ec.ErrNetwork,
			Match:    false,
		},
		{
			Name:     "HTTP status clone",
			Err:      ec.ErrHTTPStatus.Clone().WithMessage("status: 404 Not Found"),
			Sentinel: ec.ErrHTTPStatus,
			Match:    true,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.Name, func(t *testing.T) {
			var err error = tc.Err
			wrapped := fmt.Errorf("station failed: %w", err)
			require.Equal(t, tc.Match, stderrors.Is(wrapped, tc.Sentinel))
		})
	}
}

func TestCloneDoesNotShareDetails(t *testing.T) {
	a := ec.ErrParse.Clone().WithDetails("selector: .dashboard__header")
	b := ec.ErrParse.Clone()
	require.Len(t, a.Details, 1)
	require.Empty(t, b.Details)
	require.Empty(t, ec.ErrParse.Details)
}

func TestWarpKeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := ec.ErrNetwork.Clone().Warp(cause)

	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, ec.ErrNetwork)
	require.Contains(t, err.Error(), "connection refused")
	require.Contains(t, err.ErrorWithDetails(), "Internal Error: connection refused")
}

func TestErrorWithDetails(t *testing.T) {
	err := ec.ErrParse.Clone().
		WithDetails("selector: .dashboard__header", "file: index.html").
		Warp(stderrors.New("EOF"))

	text := err.ErrorWithDetails()
	require.Contains(t, text, "[520] failed to parse webpage")
	require.Contains(t, text, "    - selector: .dashboard__header\n")
	require.Contains(t, text, "    - file: index.html\n")
	require.Contains(t, text, "Internal Error: EOF")

	require.NotContains(t, ec.ErrIO.Clone().ErrorWithDetails(), "Details")
}
