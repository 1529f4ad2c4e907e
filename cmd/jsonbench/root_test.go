package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run", "list", "compare", "history", "import"} {
		assert.Contains(t, names, want)
	}
}

func TestInitConfig_InvalidConfigExits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsonbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runner:\n  samples: 0\nformat: xml\n"), 0644))

	origExit, origCfg := exit, cfgFile
	defer func() {
		exit, cfgFile = origExit, origCfg
		viper.Reset()
	}()

	code := -1
	exit = func(c int) { code = c }
	cfgFile = path

	initConfig()
	assert.Equal(t, 1, code)
}

func TestInitConfig_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsonbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runner:\n  samples: 3\n"), 0644))

	origExit, origCfg := exit, cfgFile
	defer func() {
		exit, cfgFile = origExit, origCfg
		viper.Reset()
	}()

	code := -1
	exit = func(c int) { code = c }
	cfgFile = path

	initConfig()
	assert.Equal(t, -1, code)
	assert.Equal(t, 3, viper.GetInt("runner.samples"))
}
