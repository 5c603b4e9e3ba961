package auth

import (
	"context"
	"fmt"
)

// Owns reports whether the user owns a resource carrying the given owner
// id. A strict equality check: no roles, no groups, no delegation.
func Owns(user *User, resourceOwnerID int64) bool {
	return user != nil && user.ID == resourceOwnerID
}

// ValidateCategoryRef validates a todo's category reference against the
// caller's ownership scope. A nil categoryID always passes. A non-nil id
// must resolve to a category owned by the caller; otherwise the operation
// fails with ErrInvalidReference rather than silently clearing the
// reference or attaching to another user's category.
func ValidateCategoryRef(ctx context.Context, categories CategoryResolver, user *User, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}

	owned, err := categories.CategoryOwnedBy(ctx, *categoryID, user.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve category reference: %w", err)
	}
	if !owned {
		return ErrInvalidReference
	}
	return nil
}
