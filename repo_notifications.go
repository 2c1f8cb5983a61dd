package actions

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Notifications is the append-only store of user-facing events.
type Notifications interface {
	Create(ctx context.Context, record *Notification) (*Notification, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Notification) (*Notification, error)
	ListByReceiver(ctx context.Context, receiverID uuid.UUID, limit, offset int) ([]*Notification, error)
	CountUnread(ctx context.Context, receiverID uuid.UUID) (int, error)
	MarkReadTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type notifications struct {
	repository.Repository[*Notification]
	db *bun.DB
}

var _ Notifications = (*notifications)(nil)

// NewNotificationsRepository builds the Bun-backed notification store.
func NewNotificationsRepository(db *bun.DB) Notifications {
	repo := repository.NewRepository[*Notification](db, repository.ModelHandlers[*Notification]{
		NewRecord: func() *Notification { return &Notification{} },
		GetID: func(n *Notification) uuid.UUID {
			if n == nil {
				return uuid.Nil
			}
			return n.ID
		},
		SetID: func(n *Notification, id uuid.UUID) {
			if n != nil {
				n.ID = id
			}
		},
	})

	return &notifications{
		Repository: repo,
		db:         db,
	}
}

func (r *notifications) Create(ctx context.Context, record *Notification) (*Notification, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *notifications) CreateTx(ctx context.Context, tx bun.IDB, record *Notification) (*Notification, error) {
	return r.Repository.CreateTx(ctx, tx, record)
}

func (r *notifications) ListByReceiver(ctx context.Context, receiverID uuid.UUID, limit, offset int) ([]*Notification, error) {
	records := []*Notification{}

	q := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.receiver_id = ?", receiverID).
		OrderExpr("?TableAlias.created_at ASC")

	if limit > 0 {
		q = q.Limit(limit)
	}

	if offset > 0 {
		q = q.Offset(offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *notifications) CountUnread(ctx context.Context, receiverID uuid.UUID) (int, error) {
	return r.db.NewSelect().
		Model((*Notification)(nil)).
		Where("?TableAlias.receiver_id = ?", receiverID).
		Where("?TableAlias.is_read = ?", false).
		Count(ctx)
}

func (r *notifications) MarkReadTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	res, err := tx.NewUpdate().
		Model((*Notification)(nil)).
		Set("is_read = ?", true).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}
