package actions_test

import (
	"testing"

	actions "github.com/goliatone/go-account-actions"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewIdentityFromUser(t *testing.T) {
	t.Run("wraps a user", func(t *testing.T) {
		user := &actions.User{
			ID:       uuid.New(),
			Username: "anna",
			Email:    "anna@example.com",
			Role:     actions.RoleUser,
		}

		identity := actions.NewIdentityFromUser(user)

		assert.Equal(t, user.ID.String(), identity.ID())
		assert.Equal(t, "anna", identity.Username())
		assert.Equal(t, "anna@example.com", identity.Email())
		assert.Equal(t, string(actions.RoleUser), identity.Role())
		assert.False(t, actions.IsGuest(identity))
	})

	t.Run("nil user yields the guest identity", func(t *testing.T) {
		identity := actions.NewIdentityFromUser(nil)

		assert.True(t, actions.IsGuest(identity))
		assert.Empty(t, identity.ID())
		assert.Equal(t, string(actions.RoleGuest), identity.Role())
	})
}

func TestGuestIdentity(t *testing.T) {
	guest := actions.GuestIdentity{}

	assert.Empty(t, guest.ID())
	assert.Empty(t, guest.Username())
	assert.Empty(t, guest.Email())
	assert.Equal(t, string(actions.RoleGuest), guest.Role())
	assert.False(t, guest.Confirmed())

	// guests never hold capabilities
	assert.False(t, guest.Can(actions.PermFollow))
	assert.False(t, guest.Can(actions.PermAdminister))
}

func TestIsGuest(t *testing.T) {
	assert.True(t, actions.IsGuest(nil))
	assert.True(t, actions.IsGuest(actions.GuestIdentity{}))

	user := &actions.User{ID: uuid.New(), Role: actions.RoleUser}
	assert.False(t, actions.IsGuest(actions.NewIdentityFromUser(user)))
}
