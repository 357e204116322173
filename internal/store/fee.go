package store

import (
	"context"
	"fmt"

	"stipendia/internal/utils"
	"stipendia/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const feeTableName = "stipendia.fee_entries"

var feeColumns = utils.StructTagValues(types.FeeEntry{})

type FeeRepository struct {
	pool *pgxpool.Pool
}

func NewFeeRepository(pool *pgxpool.Pool) *FeeRepository {
	return &FeeRepository{pool: pool}
}

func (r *FeeRepository) Create(ctx context.Context, entry *types.FeeEntry) error {

	feeMap := utils.StructToMap(entry)

	query, args, err := psql().Insert(feeTableName).SetMap(feeMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert fee entry query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create fee entry")

}

func (r *FeeRepository) Get(ctx context.Context, entryID string) (*types.FeeEntry, error) {

	query, args, err := psql().Select(feeColumns...).From(feeTableName).
		Where(sq.Eq{"id": entryID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate fee entry query: %w", err)
	}

	var entry = new(types.FeeEntry)
	err = pgxscan.Get(ctx, r.pool, entry, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrFeeEntryNotFound
	}

	return entry, nil

}

func (r *FeeRepository) Update(ctx context.Context, entry *types.FeeEntry) error {

	feeMap := utils.StructToMap(entry)

	query, args, err := psql().Update(feeTableName).SetMap(feeMap).Where(sq.Eq{"id": entry.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update fee entry query for entry %s: %w", entry.ID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to update fee entry")

}

func (r *FeeRepository) ListByApplicant(ctx context.Context, applicantContact string) ([]*types.FeeEntry, error) {

	query, args, err := psql().Select(feeColumns...).From(feeTableName).
		Where(sq.Eq{"applicant_contact": applicantContact}).
		OrderBy("created_at asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate fee entries query: %w", err)
	}

	var entries = make([]*types.FeeEntry, 0)
	err = pgxscan.Select(ctx, r.pool, &entries, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to list fee entries")
	}

	return entries, nil
}
