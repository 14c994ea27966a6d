// internal/models/viewer.go
package models

import "github.com/google/uuid"

// ViewerContext carries the identity of the current viewer through every
// mailbox and workflow call. It is built once by the auth middleware and
// passed explicitly; services never read session state on their own.
type ViewerContext struct {
	Role     Role
	UserID   *uuid.UUID
	Username string
}

// AnonymousViewer is the context used for sessions without credentials.
func AnonymousViewer() ViewerContext {
	return ViewerContext{Role: RoleVisitor}
}

func NewViewerContext(role Role, userID uuid.UUID, username string) ViewerContext {
	return ViewerContext{Role: role, UserID: &userID, Username: username}
}

func (v ViewerContext) Authenticated() bool {
	return v.UserID != nil
}

func (v ViewerContext) IsAdmin() bool {
	return v.Role == RoleAdmin
}

func (v ViewerContext) IsMerchant() bool {
	return v.Role == RoleMerchant
}
