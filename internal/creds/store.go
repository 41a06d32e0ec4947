// ABOUTME: Store interface and key names for durable client credentials
// ABOUTME: Defines the narrow key-value capability shared by the API client and session layer

package creds

import (
	"context"
	"errors"
)

// Storage keys for the persisted token pair.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("credential store closed")

// Store persists the client's credential pair between runs. A missing
// entry reads as the empty string, not an error; absence is a normal
// state (logged out). Writes happen only on explicit login, logout, or
// invalidation events, never speculatively.
type Store interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)

	// SetTokens replaces both entries atomically. A login that fails
	// halfway must not leave a partial pair behind.
	SetTokens(ctx context.Context, access, refresh string) error

	// Clear removes both entries. Clearing an empty store succeeds.
	Clear(ctx context.Context) error

	Close() error
}
