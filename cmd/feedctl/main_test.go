package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerboseEnablesDebugLogging(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	t.Cleanup(func() { verbose = false })

	verbose = false
	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	assert.Equal(t, "info", os.Getenv("LOG_LEVEL"))

	verbose = true
	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
}

func TestSeedRejectsNegativeFlagsBeforeConnecting(t *testing.T) {
	prev := seedCounts
	t.Cleanup(func() { seedCounts = prev })

	require.NoError(t, seedCmd.Flags().Set("users", "-3"))
	err := seedCmd.RunE(seedCmd, nil)
	assert.EqualError(t, err, "users count must not be negative, got -3")
}
