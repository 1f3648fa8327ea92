package persistence

import (
	"gorm.io/gorm"

	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// scopeToIdentity narrows a query to rows owned by the given identity.
// User and guest rows live in distinct columns so the two kinds can never
// cross-match.
func scopeToIdentity(q *gorm.DB, identity valueobject.Identity) *gorm.DB {
	if userID, ok := identity.UserID(); ok {
		return q.Where("user_id = ?", userID)
	}
	if sessionID, ok := identity.SessionID(); ok {
		return q.Where("session_id = ?", sessionID)
	}
	// Zero identity matches nothing rather than everything.
	return q.Where("1 = 0")
}
