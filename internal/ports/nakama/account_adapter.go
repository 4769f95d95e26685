package nakama

import (
	"context"

	"president/internal/ports"
)

type profileAPI interface {
	AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error
}

// NakamaProfileAdapter implements ports.ProfilePort using Nakama's account API.
type NakamaProfileAdapter struct {
	nk profileAPI
}

// NewNakamaProfileAdapter creates a new profile adapter.
func NewNakamaProfileAdapter(nk profileAPI) *NakamaProfileAdapter {
	return &NakamaProfileAdapter{nk: nk}
}

// UpdateProfile updates the account username and display name in Nakama.
// An empty username keeps the current one.
func (a *NakamaProfileAdapter) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	return a.nk.AccountUpdateId(ctx, userID, username, nil, displayName, "", "", "", "")
}

var _ ports.ProfilePort = (*NakamaProfileAdapter)(nil)
