package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	for _, raw := range []string{"1961-09-27", " 1961/09/27 ", "19610927", "1961-9-27", "1961/9/27"} {
		got, err := NormalizeDate(raw)
		require.NoError(t, err, raw)
		require.Equal(t, "1961-09-27", got, raw)
	}

	_, err := NormalizeDate("27.09.1961")
	require.Error(t, err)
	_, err = NormalizeDate("")
	require.Error(t, err)
}
