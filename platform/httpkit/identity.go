// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RoleAdmin is the role that unlocks team management and cross-owner filters.
const RoleAdmin = "admin"

// Identity represents the authenticated user's identity.
// Handlers read it here and pass it explicitly to services.
type Identity interface {
	// UserID returns the authenticated user's profile ID.
	UserID() uuid.UUID
	// Roles returns the user's assigned roles.
	Roles() []string
	// HasRole checks if the user has a specific role.
	HasRole(role string) bool
	// IsAdmin is HasRole(RoleAdmin).
	IsAdmin() bool
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
}

type identity struct {
	userID        uuid.UUID
	roles         []string
	authenticated bool
}

func (i *identity) UserID() uuid.UUID        { return i.userID }
func (i *identity) Roles() []string          { return i.roles }
func (i *identity) HasRole(role string) bool { return slices.Contains(i.roles, role) }
func (i *identity) IsAdmin() bool            { return i.HasRole(RoleAdmin) }
func (i *identity) IsAuthenticated() bool    { return i.authenticated }

// NewIdentity builds an authenticated identity. Used by tests and by
// non-HTTP entrypoints that act on behalf of a known profile.
func NewIdentity(userID uuid.UUID, roles ...string) Identity {
	return &identity{userID: userID, roles: roles, authenticated: true}
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	if !userOK {
		return &identity{}
	}

	uid, ok := userID.(uuid.UUID)
	if !ok {
		return &identity{}
	}

	var roleList []string
	if roles, rolesOK := c.Get(ContextRolesKey); rolesOK {
		roleList, _ = roles.([]string)
	}

	return &identity{userID: uid, roles: roleList, authenticated: true}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the user is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return nil
	}
	return id
}
