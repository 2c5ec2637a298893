package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverFlagWins(t *testing.T) {
	t.Setenv("PULLR_TEST_TOKEN", "from-env")

	result, err := NewResolver().
		WithFlagValue("from-flag").
		WithEnvs("PULLR_TEST_TOKEN").
		Resolve()
	require.NoError(t, err)

	assert.Equal(t, "from-flag", result.Token)
	assert.Equal(t, SourceFlag, result.Source)
}

func TestResolverEnvOrder(t *testing.T) {
	t.Setenv("PULLR_TEST_PRIMARY", "")
	t.Setenv("PULLR_TEST_SECONDARY", "secondary")

	result, err := NewResolver().
		WithFlagValue("").
		WithEnvs("PULLR_TEST_PRIMARY", "PULLR_TEST_SECONDARY").
		Resolve()
	require.NoError(t, err)

	assert.Equal(t, "secondary", result.Token)
	assert.Equal(t, SourceEnv, result.Source)
	assert.Equal(t, "PULLR_TEST_SECONDARY", result.Name)
}

func TestResolverCustomProvider(t *testing.T) {
	result, err := NewResolver().
		WithProvider(func() (string, string, error) {
			return "from-cli", "gh-cli", nil
		}).
		Resolve()
	require.NoError(t, err)

	assert.Equal(t, "from-cli", result.Token)
	assert.Equal(t, SourceGHCLI, result.Source)
}

func TestResolverProviderError(t *testing.T) {
	_, err := NewResolver().
		WithProvider(func() (string, string, error) {
			return "", "", errors.New("keyring unavailable")
		}).
		Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyring unavailable")
}

func TestResolverNoTokenIsNotAnError(t *testing.T) {
	result, err := NewResolver().
		WithFlagValue("").
		WithEnvs("PULLR_TEST_TOKEN_MISSING").
		Resolve()
	require.NoError(t, err)

	assert.Empty(t, result.Token)
	assert.Equal(t, SourceNone, result.Source)
}

func TestResolveGitHubTokenFlag(t *testing.T) {
	result, err := ResolveGitHubToken("explicit")
	require.NoError(t, err)

	assert.Equal(t, "explicit", result.Token)
	assert.Equal(t, SourceFlag, result.Source)
}

func TestResolveGitHubTokenEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")

	result, err := ResolveGitHubToken("")
	require.NoError(t, err)

	assert.Equal(t, "env-token", result.Token)
	assert.Equal(t, SourceEnv, result.Source)
	assert.Equal(t, "GITHUB_TOKEN", result.Name)
}
