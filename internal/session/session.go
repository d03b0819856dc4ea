// internal/session/session.go
//
// The auth provider lives outside this client: something else issues and
// refreshes the bearer token and drops it in a file (or the environment).
// Tokens are read fresh for every request so a mid-session refresh is
// always picked up without restarting the TUI.

package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// EnvToken overrides the token file when set.
const EnvToken = "SCRIBE_TOKEN"

// ErrNoToken means no credential could be found anywhere.
var ErrNoToken = errors.New("session: no access token configured")

// TokenSource supplies the current bearer token. Implementations must not
// cache beyond a single call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// FileTokenSource re-reads a token file on every call.
type FileTokenSource struct {
	Path string
}

func (s FileTokenSource) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w (expected at %s)", ErrNoToken, s.Path)
		}
		return "", fmt.Errorf("session: read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("%w (empty file at %s)", ErrNoToken, s.Path)
	}
	return token, nil
}

// StaticTokenSource returns a fixed token. Used in tests and one-shot
// commands that take a token flag.
type StaticTokenSource struct {
	Value string
}

func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(s.Value) == "" {
		return "", ErrNoToken
	}
	return strings.TrimSpace(s.Value), nil
}

// envFallbackSource prefers SCRIBE_TOKEN, falling back to the wrapped source.
type envFallbackSource struct {
	fallback TokenSource
}

func (s envFallbackSource) Token(ctx context.Context) (string, error) {
	if token := strings.TrimSpace(os.Getenv(EnvToken)); token != "" {
		return token, nil
	}
	return s.fallback.Token(ctx)
}

// Default builds the standard source: SCRIBE_TOKEN when set, otherwise the
// configured token file.
func Default(tokenPath string) TokenSource {
	return envFallbackSource{fallback: FileTokenSource{Path: tokenPath}}
}
