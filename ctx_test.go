package actions_test

import (
	"context"
	"testing"

	actions "github.com/goliatone/go-account-actions"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserContextRoundTrip(t *testing.T) {
	user := &actions.User{ID: uuid.New(), Username: "anna", Role: actions.RoleUser}

	ctx := actions.WithContext(context.Background(), user)

	found, ok := actions.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, user, found)
}

func TestFromContextEmpty(t *testing.T) {
	found, ok := actions.FromContext(context.Background())
	assert.False(t, ok)
	assert.Nil(t, found)
}

func TestIdentityFromContext(t *testing.T) {
	t.Run("stored user becomes an authenticated identity", func(t *testing.T) {
		user := &actions.User{ID: uuid.New(), Username: "anna", Role: actions.RoleUser}
		ctx := actions.WithContext(context.Background(), user)

		identity := actions.IdentityFromContext(ctx)
		assert.False(t, actions.IsGuest(identity))
		assert.Equal(t, user.ID.String(), identity.ID())
	})

	t.Run("empty context yields the guest identity", func(t *testing.T) {
		identity := actions.IdentityFromContext(context.Background())
		assert.True(t, actions.IsGuest(identity))
	})
}

func TestCanFromContext(t *testing.T) {
	user := &actions.User{ID: uuid.New(), Role: actions.RoleUser}
	ctx := actions.WithContext(context.Background(), user)

	assert.True(t, actions.CanFromContext(ctx, actions.PermUpload))
	assert.False(t, actions.CanFromContext(ctx, actions.PermAdminister))
	assert.False(t, actions.CanFromContext(context.Background(), actions.PermFollow))
}
