package actions

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ValidateActionMessage carries one token presentation: the user the caller
// believes the token belongs to, the token string, the expected operation,
// and the replacement password for reset flows.
type ValidateActionMessage struct {
	UserID      uuid.UUID `json:"user_id" doc:"Subject the token is presented for."`
	Token       string    `json:"token" doc:"Opaque action token from the emailed link."`
	Operation   Operation `json:"operation" doc:"Operation the caller expects the token to authorize."`
	NewPassword string    `json:"new_password,omitempty" doc:"Replacement password, reset-password only."`
	OnResponse  func(resp *ValidateActionResponse)
}

func (m ValidateActionMessage) Type() string { return "account.validate_action" }

type ValidateActionResponse struct {
	Operation Operation
	User      *User
	Success   bool
}

// ValidateActionHandler applies the mutation an action token authorizes.
// The whole sequence runs inside one transaction: either exactly one
// mutation commits or nothing does.
type ValidateActionHandler struct {
	repo     RepositoryManager
	tokens   TokenDecoder
	consumed ConsumedTokens
	activity ActivitySink
	logger   Logger
}

// NewValidateActionHandler creates a handler with sane defaults. The replay
// guard starts disabled: a token stays valid until it expires, matching the
// stateless design. Opt in with WithReplayGuard.
func NewValidateActionHandler(repo RepositoryManager, tokens TokenDecoder) *ValidateActionHandler {
	return &ValidateActionHandler{
		repo:     repo,
		tokens:   tokens,
		consumed: noopConsumedTokens{},
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

// WithReplayGuard enables single-use enforcement through the given store.
func (h *ValidateActionHandler) WithReplayGuard(store ConsumedTokens) *ValidateActionHandler {
	if store != nil {
		h.consumed = store
	}
	return h
}

// WithActivitySink sets the sink used to emit account action events.
func (h *ValidateActionHandler) WithActivitySink(sink ActivitySink) *ValidateActionHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *ValidateActionHandler) WithLogger(logger Logger) *ValidateActionHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ValidateActionHandler) Execute(ctx context.Context, event ValidateActionMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during action validation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ValidateActionHandler) execute(ctx context.Context, event ValidateActionMessage) error {
	resp := &ValidateActionResponse{Operation: event.Operation}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		claims, err := h.tokens.Decode(event.Token)
		if err != nil {
			return err
		}

		if claims.Operation() != event.Operation {
			h.logger.Debug("action token operation mismatch: minted=%s expected=%s",
				claims.Op, event.Operation)
			return ErrTokenInvalid
		}

		if claims.Subject() != event.UserID.String() {
			h.logger.Debug("action token subject mismatch")
			return ErrTokenInvalid
		}

		digest, err := TokenDigest(event.Token)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to derive token digest")
		}

		fresh, err := h.consumed.ConsumeTx(ctx, tx, &ConsumedToken{
			ID:        digest,
			UserID:    &event.UserID,
			Operation: string(event.Operation),
		})
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to record token consumption")
		}
		if !fresh {
			h.logger.Debug("action token replayed after consumption")
			return ErrTokenInvalid
		}

		user, err := h.repo.Users().GetByIDTx(ctx, tx, event.UserID)
		if err != nil {
			if goerrors.IsNotFound(err) {
				h.logger.Debug("action token subject no longer exists")
				return ErrTokenInvalid
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for action validation")
		}

		if err := h.applyOperation(ctx, tx, claims, event, user); err != nil {
			return err
		}

		resp.User = user
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to validate account action")
	}

	resp.Success = true
	h.recordActivity(ctx, event, resp)

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

func (h *ValidateActionHandler) applyOperation(ctx context.Context, tx bun.Tx, claims *ActionClaims, event ValidateActionMessage, user *User) error {
	switch event.Operation {
	case OperationConfirm:
		if err := h.repo.Users().ConfirmTx(ctx, tx, user.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark user confirmed")
		}
		user.Confirmed = true
		return nil

	case OperationResetPassword:
		if event.NewPassword == "" {
			return ErrMissingRequiredField
		}

		passwordHash, err := HashPassword(event.NewPassword)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
		}

		if err := h.repo.Users().ResetPasswordTx(ctx, tx, user.ID, passwordHash); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user password")
		}
		user.PasswordHash = passwordHash
		return nil

	case OperationChangeEmail:
		newEmail, ok := claims.ExtraValue(ExtraNewEmail)
		if !ok || newEmail == "" {
			return ErrMissingRequiredField
		}

		owner, err := h.repo.Users().GetByEmailTx(ctx, tx, newEmail)
		if err != nil && !goerrors.IsNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email ownership")
		}
		if owner != nil && err == nil && owner.ID != user.ID {
			return ErrEmailTaken
		}

		if err := h.repo.Users().UpdateEmailTx(ctx, tx, user.ID, newEmail); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user email")
		}
		user.Email = newEmail
		return nil

	default:
		// unreachable while Operation stays a closed enum
		h.logger.Debug("action validation requested unknown operation: %q", event.Operation)
		return ErrTokenInvalid
	}
}

func (h *ValidateActionHandler) recordActivity(ctx context.Context, event ValidateActionMessage, resp *ValidateActionResponse) {
	eventType := ActivityEventAccountConfirmed
	switch event.Operation {
	case OperationResetPassword:
		eventType = ActivityEventPasswordReset
	case OperationChangeEmail:
		eventType = ActivityEventEmailChanged
	}

	activityEvent := ActivityEvent{
		EventType:  eventType,
		UserID:     event.UserID.String(),
		Operation:  event.Operation,
		OccurredAt: time.Now(),
	}

	if err := normalizeActivitySink(h.activity).Record(ctx, activityEvent); err != nil {
		h.logger.Error("activity sink error during action validation: %v", err)
	}
}
