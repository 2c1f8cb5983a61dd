package actions

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Notifier appends user-facing event rows: one row per triggering event,
// committed immediately, always unread.
type Notifier struct {
	repo   RepositoryManager
	logger Logger
}

// NewNotifier creates a notifier over the given repositories.
func NewNotifier(repo RepositoryManager) *Notifier {
	return &Notifier{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the notifier.
func (n *Notifier) WithLogger(logger Logger) *Notifier {
	if logger != nil {
		n.logger = logger
	}
	return n
}

// NotifyFollow records that follower started following receiver.
func (n *Notifier) NotifyFollow(ctx context.Context, follower, receiver *User) (*Notification, error) {
	if follower == nil || receiver == nil {
		return nil, goerrors.New("follower and receiver are required", goerrors.CategoryBadInput)
	}

	message := fmt.Sprintf(
		`User <a href="/users/%s">%s</a> followed you.`,
		follower.Username, follower.Username,
	)

	return n.push(ctx, message, receiver.ID)
}

// NotifyComment records that a photo owned by receiver got a new comment or
// reply. The page parameter points the link at the comment page.
func (n *Notifier) NotifyComment(ctx context.Context, photoID uuid.UUID, receiver *User, page int) (*Notification, error) {
	if receiver == nil {
		return nil, goerrors.New("receiver is required", goerrors.CategoryBadInput)
	}

	if page < 1 {
		page = 1
	}

	message := fmt.Sprintf(
		`<a href="/photos/%s?page=%d#comments">This photo</a> has new comment/reply.`,
		photoID, page,
	)

	return n.push(ctx, message, receiver.ID)
}

// NotifyCollect records that collector collected one of receiver's photos.
func (n *Notifier) NotifyCollect(ctx context.Context, collector *User, photoID uuid.UUID, receiver *User) (*Notification, error) {
	if collector == nil || receiver == nil {
		return nil, goerrors.New("collector and receiver are required", goerrors.CategoryBadInput)
	}

	message := fmt.Sprintf(
		`User <a href="/users/%s">%s</a> collected your <a href="/photos/%s">photo</a>`,
		collector.Username, collector.Username, photoID,
	)

	return n.push(ctx, message, receiver.ID)
}

func (n *Notifier) push(ctx context.Context, message string, receiverID uuid.UUID) (*Notification, error) {
	record := &Notification{
		Message:    message,
		ReceiverID: receiverID,
		IsRead:     false,
	}

	err := n.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := n.repo.Notifications().CreateTx(ctx, tx, record)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to append notification")
		}
		record = created
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "notification transaction failed")
	}

	return record, nil
}
