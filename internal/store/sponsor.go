package store

import (
	"context"
	"errors"
	"fmt"

	"stipendia/internal/utils"
	"stipendia/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	sponsorTableName    = "stipendia.sponsors"
	assignmentTableName = "stipendia.sponsor_assignments"
)

var (
	sponsorColumns    = utils.StructTagValues(types.Sponsor{})
	assignmentColumns = utils.StructTagValues(types.AssignmentRecord{})
)

// uniqueViolation is the postgres error code raised by the
// (sponsor_id, applicant_id) unique index on sponsor_assignments.
const uniqueViolation = "23505"

type SponsorRepository struct {
	pool *pgxpool.Pool
}

func NewSponsorRepository(pool *pgxpool.Pool) *SponsorRepository {
	return &SponsorRepository{pool: pool}
}

func (r *SponsorRepository) Create(ctx context.Context, s *types.Sponsor) error {

	sponsorMap := utils.StructToMap(s)

	query, args, err := psql().Insert(sponsorTableName).SetMap(sponsorMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert sponsor query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create sponsor")

}

func (r *SponsorRepository) Get(ctx context.Context, sponsorID string) (*types.Sponsor, error) {

	query, args, err := psql().Select(sponsorColumns...).From(sponsorTableName).
		Where(sq.Eq{"id": sponsorID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate sponsor query: %w", err)
	}

	var s = new(types.Sponsor)
	err = pgxscan.Get(ctx, r.pool, s, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrSponsorNotFound
	}

	return s, nil

}

func (r *SponsorRepository) AppendAssignment(ctx context.Context, rec *types.AssignmentRecord) error {

	recMap := utils.StructToMap(rec)

	query, args, err := psql().Insert(assignmentTableName).SetMap(recMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert assignment query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return types.ErrDuplicateAssignment
	}

	return utils.ErrorWrapOrNil(err, "failed to append assignment")

}

func (r *SponsorRepository) AssignmentsBySponsor(ctx context.Context, sponsorID string) ([]*types.AssignmentRecord, error) {

	query, args, err := psql().Select(assignmentColumns...).From(assignmentTableName).
		Where(sq.Eq{"sponsor_id": sponsorID}).
		OrderBy("created_at asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate assignments query: %w", err)
	}

	var records = make([]*types.AssignmentRecord, 0)
	err = pgxscan.Select(ctx, r.pool, &records, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to list assignments")
	}

	return records, nil
}

func (r *SponsorRepository) Assignment(ctx context.Context, sponsorID, applicantID string) (*types.AssignmentRecord, error) {

	query, args, err := psql().Select(assignmentColumns...).From(assignmentTableName).
		Where(sq.Eq{"sponsor_id": sponsorID, "applicant_id": applicantID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate assignment query: %w", err)
	}

	var rec = new(types.AssignmentRecord)
	err = pgxscan.Get(ctx, r.pool, rec, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrAssignmentNotFound
	}

	return rec, nil
}
