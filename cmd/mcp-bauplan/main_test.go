package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdDefaults(t *testing.T) {
	cmd := newRootCmd()

	transport, err := cmd.Flags().GetString("transport")
	require.NoError(t, err)
	assert.Equal(t, "stdio", transport)

	host, err := cmd.Flags().GetString("host")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", host)

	port, err := cmd.Flags().GetInt("port")
	require.NoError(t, err)
	assert.Equal(t, 8000, port)

	profile, err := cmd.Flags().GetString("profile")
	require.NoError(t, err)
	assert.Empty(t, profile)
}

func TestRootCmdParsesFlags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--transport", "streamable-http",
		"--host", "127.0.0.1",
		"--port", "9000",
		"--profile", "prod",
	}))

	transport, _ := cmd.Flags().GetString("transport")
	assert.Equal(t, "streamable-http", transport)
	host, _ := cmd.Flags().GetString("host")
	assert.Equal(t, "127.0.0.1", host)
	port, _ := cmd.Flags().GetInt("port")
	assert.Equal(t, 9000, port)
	profile, _ := cmd.Flags().GetString("profile")
	assert.Equal(t, "prod", profile)
}
