package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeBaseURL(t *testing.T) {
	cases := map[string]string{
		"":                              defaultAPIBase,
		"  ":                            defaultAPIBase,
		"http://localhost:3000/api/":    "http://localhost:3000/api",
		"https://agent.example.com/api": "https://agent.example.com/api",
		"http://127.0.0.1:8080":         "http://127.0.0.1:8080",
	}
	for input, want := range cases {
		got, err := normalizeBaseURL(input)
		require.NoError(t, err, input)
		require.Equal(t, want, got, input)
	}

	for _, bad := range []string{"localhost:3000/api", "ftp://example.com", "http://", "://nope"} {
		_, err := normalizeBaseURL(bad)
		require.Error(t, err, bad)
	}
}

func TestServerOrigin(t *testing.T) {
	require.Equal(t, "http://localhost:3000", serverOrigin("http://localhost:3000/api"))
	require.Equal(t, "https://agent.example.com", serverOrigin("https://agent.example.com/v2/api"))
}

func TestDefaultCasesAreStable(t *testing.T) {
	require.Equal(t, defaultChatCases(), defaultChatCases())
	require.Len(t, defaultChatCases(), 4)
	require.Len(t, defaultToolCases(), 4)
	require.Equal(t, "Order Cancellation (Allowed)", defaultChatCases()[1].Name)
}
