package actions

import (
	"context"
	"time"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ConsumedTokens is the optional replay guard: recording a digest must
// succeed exactly once, so the first validation of a token wins and every
// replay fails closed.
type ConsumedTokens interface {
	ConsumeTx(ctx context.Context, tx bun.IDB, record *ConsumedToken) (bool, error)
}

// TokenDigest derives the deterministic identifier a token is consumed
// under. The opaque token string never touches storage, only its digest.
func TokenDigest(token string) (uuid.UUID, error) {
	return hashid.NewUUID(token)
}

type consumedTokens struct {
	db *bun.DB
}

var _ ConsumedTokens = (*consumedTokens)(nil)

// NewConsumedTokensRepository builds the Bun-backed replay guard store.
func NewConsumedTokensRepository(db *bun.DB) ConsumedTokens {
	return &consumedTokens{db: db}
}

// ConsumeTx inserts the digest row, reporting false when another validation
// already claimed it. The conflict target is the digest primary key, so two
// concurrent validations of one token cannot both succeed.
func (r *consumedTokens) ConsumeTx(ctx context.Context, tx bun.IDB, record *ConsumedToken) (bool, error) {
	if record.ConsumedAt == nil {
		now := time.Now()
		record.ConsumedAt = &now
	}

	res, err := tx.NewInsert().
		Model(record).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)

	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// noopConsumedTokens disables the guard, preserving the original semantics
// where a captured token stays valid until it expires.
type noopConsumedTokens struct{}

func (noopConsumedTokens) ConsumeTx(context.Context, bun.IDB, *ConsumedToken) (bool, error) {
	return true, nil
}
