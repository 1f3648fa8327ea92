package valueobject

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// IdentityKind discriminates the two kinds of shopper identity
type IdentityKind string

const (
	// IdentityKindUser is an authenticated, registered user
	IdentityKindUser IdentityKind = "user"
	// IdentityKindGuest is an anonymous guest tracked by session ID
	IdentityKindGuest IdentityKind = "guest"
)

// Identity is a tagged union identifying the owner of a cart, reservation or
// order: exactly one of an authenticated user ID or a guest session ID.
// The two kinds can never cross-match - a lookup by a user identity never
// returns guest-owned rows and vice versa.
type Identity struct {
	kind      IdentityKind
	userID    uuid.UUID
	sessionID string
}

// UserIdentity creates an identity for an authenticated user
func UserIdentity(userID uuid.UUID) (Identity, error) {
	if userID == uuid.Nil {
		return Identity{}, errors.New("user ID cannot be empty")
	}
	return Identity{kind: IdentityKindUser, userID: userID}, nil
}

// GuestIdentity creates an identity for a guest session
func GuestIdentity(sessionID string) (Identity, error) {
	if sessionID == "" {
		return Identity{}, errors.New("session ID cannot be empty")
	}
	return Identity{kind: IdentityKindGuest, sessionID: sessionID}, nil
}

// MustUserIdentity creates a user identity or panics (test helper)
func MustUserIdentity(userID uuid.UUID) Identity {
	id, err := UserIdentity(userID)
	if err != nil {
		panic(err)
	}
	return id
}

// MustGuestIdentity creates a guest identity or panics (test helper)
func MustGuestIdentity(sessionID string) Identity {
	id, err := GuestIdentity(sessionID)
	if err != nil {
		panic(err)
	}
	return id
}

// Kind returns the identity kind
func (i Identity) Kind() IdentityKind {
	return i.kind
}

// IsUser returns true for an authenticated user identity
func (i Identity) IsUser() bool {
	return i.kind == IdentityKindUser
}

// IsGuest returns true for a guest session identity
func (i Identity) IsGuest() bool {
	return i.kind == IdentityKindGuest
}

// IsZero returns true if the identity was never initialized
func (i Identity) IsZero() bool {
	return i.kind == ""
}

// UserID returns the user ID and true when the identity is an authenticated user
func (i Identity) UserID() (uuid.UUID, bool) {
	if i.kind != IdentityKindUser {
		return uuid.Nil, false
	}
	return i.userID, true
}

// SessionID returns the session ID and true when the identity is a guest
func (i Identity) SessionID() (string, bool) {
	if i.kind != IdentityKindGuest {
		return "", false
	}
	return i.sessionID, true
}

// Key returns a stable storage/cache key that cannot collide across kinds
func (i Identity) Key() string {
	switch i.kind {
	case IdentityKindUser:
		return "user:" + i.userID.String()
	case IdentityKindGuest:
		return "guest:" + i.sessionID
	default:
		return ""
	}
}

// Equal returns true if both identities are the same kind and value
func (i Identity) Equal(other Identity) bool {
	return i.kind == other.kind && i.userID == other.userID && i.sessionID == other.sessionID
}

// String returns a human-readable representation
func (i Identity) String() string {
	return fmt.Sprintf("Identity(%s)", i.Key())
}
