package store

import (
	"context"
	"fmt"
	"time"

	"stipendia/internal/utils"
	"stipendia/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const proofTableName = "stipendia.proof_submissions"

var proofColumns = utils.StructTagValues(types.ProofSubmission{})

type ProofRepository struct {
	pool *pgxpool.Pool
}

func NewProofRepository(pool *pgxpool.Pool) *ProofRepository {
	return &ProofRepository{pool: pool}
}

func (r *ProofRepository) Create(ctx context.Context, p *types.ProofSubmission) error {

	proofMap := utils.StructToMap(p)

	query, args, err := psql().Insert(proofTableName).SetMap(proofMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert proof query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create proof submission")

}

func (r *ProofRepository) Get(ctx context.Context, proofID string) (*types.ProofSubmission, error) {

	query, args, err := psql().Select(proofColumns...).From(proofTableName).
		Where(sq.Eq{"id": proofID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate proof query: %w", err)
	}

	var p = new(types.ProofSubmission)
	err = pgxscan.Get(ctx, r.pool, p, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrProofNotFound
	}

	return p, nil

}

func (r *ProofRepository) ListPending(ctx context.Context) ([]*types.ProofSubmission, error) {

	query, args, err := psql().Select(proofColumns...).From(proofTableName).
		Where(sq.Eq{"status": types.ProofStatusPendingApproval}).
		OrderBy("created_at asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pending proofs query: %w", err)
	}

	var proofs = make([]*types.ProofSubmission, 0)
	err = pgxscan.Select(ctx, r.pool, &proofs, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to list pending proofs")
	}

	return proofs, nil
}

// ApproveAndSettle flips the proof and its fee entry together inside one
// transaction. The proof update is guarded on PENDING_APPROVAL; losing
// the guard rolls the whole thing back, so an approved proof can never
// coexist with an unsettled fee entry.
func (r *ProofRepository) ApproveAndSettle(ctx context.Context, proofID, feeEntryID, reviewerID string, at time.Time) error {

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin approve transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args, err := psql().Update(proofTableName).
		SetMap(map[string]any{
			"status":      types.ProofStatusApproved,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
		}).
		Where(sq.Eq{"id": proofID, "status": types.ProofStatusPendingApproval}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate approve proof query for proof %s: %w", proofID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return utils.ErrorWrapOrNil(err, "failed to approve proof")
	}

	if tag.RowsAffected() == 0 {
		return r.missingOrChanged(ctx, proofID)
	}

	query, args, err = psql().Update(feeTableName).
		SetMap(map[string]any{
			"status":     types.FeeStatusAccepted,
			"updated_at": at,
		}).
		Where(sq.Eq{"id": feeEntryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate settle fee query for entry %s: %w", feeEntryID, err)
	}

	tag, err = tx.Exec(ctx, query, args...)
	if err != nil {
		return utils.ErrorWrapOrNil(err, "failed to settle fee entry")
	}

	if tag.RowsAffected() == 0 {
		return types.ErrFeeEntryNotFound
	}

	return tx.Commit(ctx)
}

func (r *ProofRepository) Reject(ctx context.Context, proofID, reviewerID, reason string, at time.Time) error {

	query, args, err := psql().Update(proofTableName).
		SetMap(map[string]any{
			"status":        types.ProofStatusRejected,
			"reject_reason": reason,
			"reviewed_by":   reviewerID,
			"reviewed_at":   at,
		}).
		Where(sq.Eq{"id": proofID, "status": types.ProofStatusPendingApproval}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate reject proof query for proof %s: %w", proofID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return utils.ErrorWrapOrNil(err, "failed to reject proof")
	}

	if tag.RowsAffected() == 0 {
		return r.missingOrChanged(ctx, proofID)
	}

	return nil
}

func (r *ProofRepository) missingOrChanged(ctx context.Context, proofID string) error {
	if _, err := r.Get(ctx, proofID); err != nil {
		return types.ErrProofNotFound
	}
	return types.ErrStatusChanged
}
