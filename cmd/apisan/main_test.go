package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestBuildCommandIsWired(t *testing.T) {
	cmd := buildCommand()
	assert.Equal(t, "build", cmd.Name)
	require.NotNil(t, cmd.Action)
}

func TestCheckCommandDeclaresCheckerFlagRequired(t *testing.T) {
	cmd := checkCommand()
	assert.Equal(t, "check", cmd.Name)
	require.NotNil(t, cmd.Action)

	found := false
	for _, f := range cmd.Flags {
		if f.Names()[0] == "checker" {
			found = true
			sf, ok := f.(*cli.StringFlag)
			require.True(t, ok, "--checker must be a string flag")
			assert.True(t, sf.Required, "--checker must be required")
		}
	}
	assert.True(t, found, "check command must declare a --checker flag")
}

func TestCheckCommandDefaultsParallelOn(t *testing.T) {
	cmd := checkCommand()
	for _, f := range cmd.Flags {
		bf, ok := f.(*cli.BoolFlag)
		if !ok || bf.Name != "parallel" {
			continue
		}
		assert.True(t, bf.Value, "--parallel must default to true")
		return
	}
	t.Fatal("check command must declare a --parallel flag")
}
