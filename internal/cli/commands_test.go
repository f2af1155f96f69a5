package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("API_KEY", "")
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "QuantFlow "+version)
	assert.Contains(t, out, "v2.4.1")
}

func TestConfigShowHidesSecrets(t *testing.T) {
	t.Setenv("QUANTFLOW_WEBHOOK_URL", "https://hooks.example.com/secret-token")
	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "placeholder")
	assert.Contains(t, out, "Webhook:              configured")
	assert.NotContains(t, out, "secret-token")
}

func TestConfigValidate(t *testing.T) {
	t.Setenv("QUANTFLOW_LLM_PROVIDER", "gemini")
	_, err := execute(t, "config", "validate")
	assert.Error(t, err)
}

func TestAdviseUnknownAlgorithm(t *testing.T) {
	_, err := execute(t, "advise", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "algorithm not found")
}

func TestAdviseRequiresOneArgument(t *testing.T) {
	_, err := execute(t, "advise")
	assert.Error(t, err)
}
