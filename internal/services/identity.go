package services

import (
	"context"
	"strings"

	"elevateu-backend/internal/models"
)

type userFinder interface {
	FindByExternalID(ctx context.Context, externalID string) (*models.User, error)
	FindByID(ctx context.Context, hexID string) (*models.User, error)
}

// ResolvedUser is a user record plus every id form historical data may have
// been keyed by. Downstream joins match against IDForms, never a single key.
type ResolvedUser struct {
	User    *models.User
	RawRef  string
	IDForms []string
}

// IdentityResolver maps an ambiguous external user reference (external id,
// internal id as hex, or a session-scoped id) to a canonical user record.
type IdentityResolver struct {
	users userFinder
}

func NewIdentityResolver(users userFinder) *IdentityResolver {
	return &IdentityResolver{users: users}
}

// Resolve tries the external id first, then the internal id. The ordering
// matters: legacy records rely on external-id matches taking precedence.
func (r *IdentityResolver) Resolve(ctx context.Context, rawRef string) (*ResolvedUser, error) {
	rawRef = strings.TrimSpace(rawRef)
	if rawRef == "" {
		return nil, &NotFoundError{Message: "User not found"}
	}

	user, err := r.users.FindByExternalID(ctx, rawRef)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = r.users.FindByID(ctx, rawRef)
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, &NotFoundError{Message: "User not found"}
	}

	forms := []string{rawRef}
	for _, form := range []string{user.ID.Hex(), user.ExternalID} {
		if form == "" {
			continue
		}
		seen := false
		for _, f := range forms {
			if f == form {
				seen = true
				break
			}
		}
		if !seen {
			forms = append(forms, form)
		}
	}

	return &ResolvedUser{User: user, RawRef: rawRef, IDForms: forms}, nil
}
