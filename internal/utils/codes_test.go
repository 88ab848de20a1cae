package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProjectCode(t *testing.T) {
	number, ticker, slug, err := ParseProjectCode("2170.ACM.acme-corp")
	require.NoError(t, err)
	require.Equal(t, 2170, number)
	require.Equal(t, "ACM", ticker)
	require.Equal(t, "acme-corp", slug)

	_, _, _, err = ParseProjectCode("2170.ACM")
	require.Error(t, err)

	_, _, _, err = ParseProjectCode("abcd.ACM.acme")
	require.Error(t, err)
}
