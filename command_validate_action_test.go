package actions_test

import (
	"context"
	"testing"
	"time"

	actions "github.com/goliatone/go-account-actions"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var actionSigningKey = []byte("validate-action-test-key")

func issueActionToken(t *testing.T, userID uuid.UUID, op actions.Operation, extra map[string]string) string {
	t.Helper()

	service := actions.NewActionTokens(actionSigningKey, "test-issuer", testLogger{})

	identity := &MockIdentity{}
	identity.On("ID").Return(userID.String())

	tokenString, err := service.Issue(identity, op, time.Hour, extra)
	require.NoError(t, err)

	return tokenString
}

func actionDecoder() actions.TokenDecoder {
	return actions.NewActionTokens(actionSigningKey, "test-issuer", testLogger{})
}

func TestValidateActionHandlerConfirm(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	users := &MockUsers{}
	repo := &fakeRepoManager{users: users}
	sink := &MockActivitySink{}

	user := &actions.User{ID: userID, Email: "user@example.com", Role: actions.RoleUser}

	users.On("GetByIDTx", mock.Anything, mock.Anything, userID).
		Return(user, nil).Once()
	users.On("ConfirmTx", mock.Anything, mock.Anything, userID).
		Return(nil).Once()

	sink.On("Record", mock.Anything, mock.MatchedBy(func(evt actions.ActivityEvent) bool {
		return evt.EventType == actions.ActivityEventAccountConfirmed &&
			evt.UserID == userID.String()
	})).Return(nil).Once()

	handler := actions.NewValidateActionHandler(repo, actionDecoder()).
		WithActivitySink(sink).
		WithLogger(testLogger{})

	var resp *actions.ValidateActionResponse
	event := actions.ValidateActionMessage{
		UserID:    userID,
		Token:     issueActionToken(t, userID, actions.OperationConfirm, nil),
		Operation: actions.OperationConfirm,
		OnResponse: func(r *actions.ValidateActionResponse) {
			resp = r
		},
	}

	err := handler.Execute(ctx, event)
	require.NoError(t, err)

	require.NotNil(t, resp)
	assert.True(t, resp.Success)
	assert.Equal(t, actions.OperationConfirm, resp.Operation)
	require.NotNil(t, resp.User)
	assert.True(t, resp.User.Confirmed)

	users.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestValidateActionHandlerOperationMismatch(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	users := &MockUsers{}
	repo := &fakeRepoManager{users: users}

	handler := actions.NewValidateActionHandler(repo, actionDecoder()).
		WithLogger(testLogger{})

	// token minted for confirm, presented as reset-password
	event := actions.ValidateActionMessage{
		UserID:    userID,
		Token:     issueActionToken(t, userID, actions.OperationConfirm, nil),
		Operation: actions.OperationResetPassword,
	}

	err := handler.Execute(ctx, event)
	require.Error(t, err)
	assert.True(t, actions.IsTokenInvalidError(err))

	users.AssertNotCalled(t, "GetByIDTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateActionHandlerSubjectMismatch(t *testing.T) {
	ctx := context.Background()

	users := &MockUsers{}
	repo := &fakeRepoManager{users: users}

	handler := actions.NewValidateActionHandler(repo, actionDecoder()).
		WithLogger(testLogger{})

	// token minted for one user, presented for another
	event := actions.ValidateActionMessage{
		UserID:    uuid.New(),
		Token:     issueActionToken(t, uuid.New(), actions.OperationConfirm, nil),
		Operation: actions.OperationConfirm,
	}

	err := handler.Execute(ctx, event)
	require.Error(t, err)
	assert.True(t, actions.IsTokenInvalidError(err))

	users.AssertNotCalled(t, "GetByIDTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateActionHandlerUnknownSubject(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	users := &MockUsers{}
	repo := &fakeRepoManager{users: users}

	users.On("GetByIDTx", mock.Anything, mock.Anything, userID).
		Return(nil, repository.NewRecordNotFound()).Once()

	handler := actions.NewValidateActionHandler(repo, actionDecoder()).
		WithLogger(testLogger{})

	event := actions.ValidateActionMessage{
		UserID:    userID,
		Token:     issueActionToken(t, userID, actions.OperationConfirm, nil),
		Operation: actions.OperationConfirm,
	}

	err := handler.Execute(ctx, event)
	require.Error(t, err)
	assert.True(t, actions.IsTokenInvalidError(err))

	users.AssertExpectations(t)
	users.AssertNotCalled(t, "ConfirmTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateActionHandlerResetPassword(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	users := &MockUsers{}
	repo := &fakeRepoManager{users: users}

	user := &actions.User{ID: userID, Email: "user@example.com", Role: actions.RoleUser}

	var capturedHash string
	users.On("GetByIDTx", mock.Anything, mock.Anything, userID).
		Return(user, nil).Once()
	users.On("ResetPasswordTx", mock.Anything, mock.Anything, userID, mock.AnythingOfType("string")).
		Return(nil).
		Run(func(args mock.Arguments) {
			capturedHash = args.String(3)
		}).Once()

	handler := actions.NewValidateActionHandler(repo, actionDecoder()).
		WithLogger(testLogger{})

	newPassword := "hunter2hunter2"
	event := actions.ValidateActionMessage{
		UserID:      userID,
		Token:       issueActionToken(t, userID, actions.OperationResetPassword, nil),
		Operation:   actions.OperationResetPassword,
		NewPassword: newPassword,
	}

	err := handler.Execute(ctx, event)
	require.NoError(t, err)

	require.NotEmpty(t, capturedHash)
	assert.NoError(t, actions.ComparePasswordAndHash(newPassword, capturedHash))

	users.AssertExpectations(t)
}

func TestValidateActionHandlerResetPasswordMissingValue(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	users := &MockUsers{}
	repo := &fakeRepoManager{users: users}

	user := &actions.User{ID: userID, Email: "user@example.com", Role: actions.RoleUser}

	users.On("GetByIDTx", mock.Anything, mock.Anything, userID).
		Return(user, nil).Once()

	handler := actions.NewValidateActionHandler(repo, actionDecoder()).
		WithLogger(testLogger{})

	event := actions.ValidateActionMessage{
		UserID:    userID,
		Token:     issueActionToken(t, userID, actions.OperationResetPassword, nil),
		Operation: actions.OperationResetPassword,
	}

	err := handler.Execute(ctx, event)
	require.Error(t, err)
	assert.True(t, actions.IsMissingFieldError(err))

	users.AssertNotCalled(t, "ResetPasswordTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateActionHandlerChangeEmail(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	users := &MockUsers{}
	repo := &fakeRepoManager{users: users}

	user := &actions.User{ID: userID, Email: "old@example.com", Role: actions.RoleUser}

	users.On("GetByIDTx", mock.Anything, mock.Anything, userID).
		Return(user, nil).Once()
	users.On("GetByEmailTx", mock.Anything, mock.Anything, "new@example.com").
		Return(nil, repository.NewRecordNotFound()).Once()
	users.On("UpdateEmailTx", mock.Anything, mock.Anything, userID, "new@example.com").
		Return(nil).Once()

	handler := actions.NewValidateActionHandler(repo, actionDecoder()).
		WithLogger(testLogger{})

	var resp *actions.ValidateActionResponse
	event := actions.ValidateActionMessage{
		UserID: userID,
		Token: issueActionToken(t, userID, actions.OperationChangeEmail, map[string]string{
			actions.ExtraNewEmail: "new@example.com",
		}),
		Operation: actions.OperationChangeEmail,
		OnResponse: func(r *actions.ValidateActionResponse) {
			resp = r
		},
	}

	err := handler.Execute(ctx, event)
	require.NoError(t, err)

	require.NotNil(t, resp)
	assert.Equal(t, "new@example.com", resp.User.Email)

	users.AssertExpectations(t)
}

func TestValidateActionHandlerChangeEmailTaken(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	users := &MockUsers{}
	repo := &fakeRepoManager{users: users}

	user := &actions.User{ID: userID, Email: "old@example.com", Role: actions.RoleUser}
	other := &actions.User{ID: uuid.New(), Email: "new@example.com", Role: actions.RoleUser}

	users.On("GetByIDTx", mock.Anything, mock.Anything, userID).
		Return(user, nil).Once()
	users.On("GetByEmailTx", mock.Anything, mock.Anything, "new@example.com").
		Return(other, nil).Once()

	handler := actions.NewValidateActionHandler(repo, actionDecoder()).
		WithLogger(testLogger{})

	event := actions.ValidateActionMessage{
		UserID: userID,
		Token: issueActionToken(t, userID, actions.OperationChangeEmail, map[string]string{
			actions.ExtraNewEmail: "new@example.com",
		}),
		Operation: actions.OperationChangeEmail,
	}

	err := handler.Execute(ctx, event)
	require.Error(t, err)
	assert.True(t, actions.IsConflictError(err))

	users.AssertNotCalled(t, "UpdateEmailTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateActionHandlerChangeEmailMissingPayload(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	users := &MockUsers{}
	repo := &fakeRepoManager{users: users}

	user := &actions.User{ID: userID, Email: "old@example.com", Role: actions.RoleUser}

	users.On("GetByIDTx", mock.Anything, mock.Anything, userID).
		Return(user, nil).Once()

	handler := actions.NewValidateActionHandler(repo, actionDecoder()).
		WithLogger(testLogger{})

	event := actions.ValidateActionMessage{
		UserID:    userID,
		Token:     issueActionToken(t, userID, actions.OperationChangeEmail, nil),
		Operation: actions.OperationChangeEmail,
	}

	err := handler.Execute(ctx, event)
	require.Error(t, err)
	assert.True(t, actions.IsMissingFieldError(err))

	users.AssertNotCalled(t, "UpdateEmailTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateActionHandlerReplayGuard(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	users := &MockUsers{}
	consumed := &MockConsumedTokens{}
	repo := &fakeRepoManager{users: users, consumed: consumed}

	user := &actions.User{ID: userID, Email: "user@example.com", Role: actions.RoleUser}

	users.On("GetByIDTx", mock.Anything, mock.Anything, userID).
		Return(user, nil).Once()
	users.On("ConfirmTx", mock.Anything, mock.Anything, userID).
		Return(nil).Once()

	consumed.On("ConsumeTx", mock.Anything, mock.Anything, mock.Anything).
		Return(true, nil).Once()
	consumed.On("ConsumeTx", mock.Anything, mock.Anything, mock.Anything).
		Return(false, nil).Once()

	handler := actions.NewValidateActionHandler(repo, actionDecoder()).
		WithReplayGuard(consumed).
		WithLogger(testLogger{})

	event := actions.ValidateActionMessage{
		UserID:    userID,
		Token:     issueActionToken(t, userID, actions.OperationConfirm, nil),
		Operation: actions.OperationConfirm,
	}

	require.NoError(t, handler.Execute(ctx, event))

	err := handler.Execute(ctx, event)
	require.Error(t, err)
	assert.True(t, actions.IsTokenInvalidError(err))

	users.AssertExpectations(t)
	consumed.AssertExpectations(t)
}

func TestValidateActionHandlerCancelledContext(t *testing.T) {
	userID := uuid.New()

	users := &MockUsers{}
	repo := &fakeRepoManager{users: users}

	handler := actions.NewValidateActionHandler(repo, actionDecoder()).
		WithLogger(testLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	event := actions.ValidateActionMessage{
		UserID:    userID,
		Token:     issueActionToken(t, userID, actions.OperationConfirm, nil),
		Operation: actions.OperationConfirm,
	}

	err := handler.Execute(ctx, event)
	require.Error(t, err)

	users.AssertNotCalled(t, "GetByIDTx", mock.Anything, mock.Anything, mock.Anything)
}
