package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/supabase-community/supabase-go"
)

// SupabaseVerifier asks the Supabase auth server who owns a token. It is used
// when the project JWT secret is not available to the API.
type SupabaseVerifier struct {
	client *supabase.Client
}

// NewSupabaseVerifier wraps an existing Supabase client.
func NewSupabaseVerifier(client *supabase.Client) *SupabaseVerifier {
	return &SupabaseVerifier{client: client}
}

// Verify implements TokenVerifier.
func (v *SupabaseVerifier) Verify(_ context.Context, token string) (*UserContext, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, ErrMissingToken
	}

	user, err := v.client.Auth.WithToken(token).GetUser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID := user.ID.String()
	if userID == "00000000-0000-0000-0000-000000000000" {
		return nil, fmt.Errorf("%w: missing user ID", ErrInvalidClaims)
	}

	return &UserContext{
		UserID: userID,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}
