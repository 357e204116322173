package store

import (
	"context"
	"fmt"
	"time"

	"stipendia/internal/utils"
	"stipendia/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const caseTableName = "stipendia.cases"

var caseColumns = utils.StructTagValues(types.Case{})

type CaseRepository struct {
	pool *pgxpool.Pool
}

func NewCaseRepository(pool *pgxpool.Pool) *CaseRepository {
	return &CaseRepository{pool: pool}
}

func (r *CaseRepository) Create(ctx context.Context, c *types.Case) error {

	caseMap := utils.StructToMap(c)

	query, args, err := psql().Insert(caseTableName).SetMap(caseMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert case query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create case")

}

func (r *CaseRepository) Get(ctx context.Context, caseID string) (*types.Case, error) {

	query, args, err := psql().Select(caseColumns...).From(caseTableName).
		Where(sq.Eq{"id": caseID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate case query: %w", err)
	}

	var c = new(types.Case)
	err = pgxscan.Get(ctx, r.pool, c, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrCaseNotFound
	}

	return c, nil

}

func (r *CaseRepository) ListByStatus(ctx context.Context, status types.CaseStatus) ([]*types.Case, error) {

	query, args, err := psql().Select(caseColumns...).From(caseTableName).
		Where(sq.Eq{"status": status}).
		OrderBy("created_at asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate case list query: %w", err)
	}

	var cases = make([]*types.Case, 0)
	err = pgxscan.Select(ctx, r.pool, &cases, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to list cases")
	}

	return cases, nil
}

func (r *CaseRepository) ActiveByApplicant(ctx context.Context, applicantID string) (*types.Case, error) {

	query, args, err := psql().Select(caseColumns...).From(caseTableName).
		Where(sq.Eq{
			"applicant_id": applicantID,
			"status":       []types.CaseStatus{types.CaseStatusPending, types.CaseStatusAccepted},
		}).
		OrderBy("created_at desc").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate active case query: %w", err)
	}

	var c = new(types.Case)
	err = pgxscan.Get(ctx, r.pool, c, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrCaseNotFound
	}

	return c, nil
}

func (r *CaseRepository) LatestByContact(ctx context.Context, applicantContact string) (*types.Case, error) {

	query, args, err := psql().Select(caseColumns...).From(caseTableName).
		Where(sq.Eq{"applicant_contact": applicantContact}).
		OrderBy("created_at desc").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate latest case query: %w", err)
	}

	var c = new(types.Case)
	err = pgxscan.Get(ctx, r.pool, c, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrCaseNotFound
	}

	return c, nil
}

// Transition is a compare-and-set on the current status so two
// concurrent reviewers cannot both land a decision.
func (r *CaseRepository) Transition(ctx context.Context, caseID string, from, to types.CaseStatus, reviewerID string, reason *string, at time.Time) error {

	query, args, err := psql().Update(caseTableName).
		SetMap(map[string]any{
			"status":        to,
			"reviewed_by":   reviewerID,
			"reviewed_at":   at,
			"reject_reason": reason,
			"updated_at":    at,
		}).
		Where(sq.Eq{"id": caseID, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate case transition query for case %s: %w", caseID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return utils.ErrorWrapOrNil(err, "failed to transition case")
	}

	if tag.RowsAffected() == 0 {
		if _, getErr := r.Get(ctx, caseID); getErr != nil {
			return types.ErrCaseNotFound
		}
		return types.ErrStatusChanged
	}

	return nil
}
