package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/graphcoloring/graphcolor/internal/config"
)

func TestLoadAndValidateDefaults(t *testing.T) {
	c, err := config.Load(strings.NewReader("algorithm: dsatur\ninput: graph.col\n"))
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	require.Equal(t, "dimacs", c.Format)
	require.Equal(t, 1, c.NumWorkers)
}

func TestValidateRequiresAlgorithmAndInput(t *testing.T) {
	c := &config.Config{}
	err := c.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "--algorithm")
	require.Contains(t, err.Error(), "--input")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := config.Load(strings.NewReader("algorithm: [this is not\n  a valid yaml document"))
	require.Error(t, err)
}
