package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeCategoryResolver struct {
	owned map[int64]int64 // category id -> owner id
	err   error
}

func (f *fakeCategoryResolver) CategoryOwnedBy(_ context.Context, categoryID, userID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	owner, ok := f.owned[categoryID]
	return ok && owner == userID, nil
}

func TestOwns(t *testing.T) {
	alice := &User{ID: 1, Username: "alice"}

	assert.True(t, Owns(alice, 1))
	assert.False(t, Owns(alice, 2))
	assert.False(t, Owns(nil, 1))
}

func TestValidateCategoryRef(t *testing.T) {
	ctx := context.Background()
	alice := &User{ID: 1, Username: "alice"}
	categories := &fakeCategoryResolver{owned: map[int64]int64{
		10: 1, // alice's
		20: 2, // bob's
	}}

	ownID := int64(10)
	otherID := int64(20)
	missingID := int64(99)

	// nil reference always passes regardless of ownership
	assert.NoError(t, ValidateCategoryRef(ctx, categories, alice, nil))

	assert.NoError(t, ValidateCategoryRef(ctx, categories, alice, &ownID))

	// Another user's category must fail, never silently attach
	assert.ErrorIs(t, ValidateCategoryRef(ctx, categories, alice, &otherID), ErrInvalidReference)

	assert.ErrorIs(t, ValidateCategoryRef(ctx, categories, alice, &missingID), ErrInvalidReference)
}

func TestValidateCategoryRef_LookupError(t *testing.T) {
	ctx := context.Background()
	alice := &User{ID: 1}
	boom := errors.New("db down")
	categories := &fakeCategoryResolver{err: boom}

	id := int64(10)
	err := ValidateCategoryRef(ctx, categories, alice, &id)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidReference)
}
