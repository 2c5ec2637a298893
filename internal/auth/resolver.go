// Package auth resolves the GitHub credential from multiple sources with a
// fixed priority order.
package auth

import (
	"fmt"
	"os"

	ghauth "github.com/cli/go-gh/v2/pkg/auth"
)

// Source indicates where a token was found
type Source string

const (
	SourceFlag  Source = "flag"
	SourceEnv   Source = "env"
	SourceGHCLI Source = "gh-cli"
	SourceNone  Source = "none"
)

// Result contains the resolved token and its source
type Result struct {
	Token  string
	Source Source
	Name   string // the specific source name (e.g. "GITHUB_TOKEN")
}

// TokenProvider is a function that attempts to provide a token.
// Returns the token and source name if found, or empty string if not
// available. Returns an error only for unexpected failures.
type TokenProvider func() (token string, sourceName string, err error)

// Resolver resolves tokens from multiple sources in priority order
type Resolver struct {
	providers []TokenProvider
}

// NewResolver creates an empty token resolver
func NewResolver() *Resolver {
	return &Resolver{providers: make([]TokenProvider, 0)}
}

// WithFlagValue adds an already-parsed flag value as the source
func (r *Resolver) WithFlagValue(value string) *Resolver {
	r.providers = append(r.providers, func() (string, string, error) {
		if value != "" {
			return value, "flag", nil
		}

		return "", "", nil
	})

	return r
}

// WithEnvs adds environment variables as token sources (checked in order)
func (r *Resolver) WithEnvs(envVars ...string) *Resolver {
	for _, envVar := range envVars {
		name := envVar

		r.providers = append(r.providers, func() (string, string, error) {
			if token := os.Getenv(name); token != "" {
				return token, name, nil
			}

			return "", "", nil
		})
	}

	return r
}

// WithProvider adds a custom token provider
func (r *Resolver) WithProvider(provider TokenProvider) *Resolver {
	r.providers = append(r.providers, provider)

	return r
}

// Resolve returns the first token found across the configured sources.
// A fully exhausted chain is not an error: the result carries SourceNone
// and an empty token, letting callers proceed unauthenticated.
func (r *Resolver) Resolve() (*Result, error) {
	for _, provider := range r.providers {
		token, sourceName, err := provider()
		if err != nil {
			return nil, fmt.Errorf("token provider error: %w", err)
		}

		if token != "" {
			return &Result{
				Token:  token,
				Source: categorizeSource(sourceName),
				Name:   sourceName,
			}, nil
		}
	}

	return &Result{Source: SourceNone}, nil
}

// ResolveGitHubToken finds a GitHub token.
// Priority order:
//  1. flagToken (explicit --token flag)
//  2. GITHUB_TOKEN environment variable
//  3. GH_TOKEN environment variable
//  4. gh CLI auth (if authenticated via 'gh auth login')
func ResolveGitHubToken(flagToken string) (*Result, error) {
	return NewResolver().
		WithFlagValue(flagToken).
		WithEnvs("GITHUB_TOKEN", "GH_TOKEN").
		WithProvider(ghCLIProvider).
		Resolve()
}

// ghCLIProvider reads the token the gh CLI stored for github.com.
func ghCLIProvider() (string, string, error) {
	if token, _ := ghauth.TokenForHost("github.com"); token != "" {
		return token, "gh-cli", nil
	}

	return "", "", nil
}

// categorizeSource determines the Source category from a source name
func categorizeSource(name string) Source {
	switch name {
	case "flag":
		return SourceFlag
	case "gh-cli":
		return SourceGHCLI
	case "":
		return SourceNone
	default:
		return SourceEnv
	}
}
