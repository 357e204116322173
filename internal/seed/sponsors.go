package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stipendia/internal/store"
	"stipendia/pkg/types"
)

// SeedSponsors inserts the fixed sponsor accounts below if they are
// missing. IDs are pinned so the other seeders and local test logins can
// reference them across runs.
//
// To generate new IDs: `go run ./cmd/stipendia nanoid`
func SeedSponsors(ctx context.Context, repo *store.SponsorRepository) error {
	sponsors := []types.Sponsor{
		{
			ID:      "qW3qUfrjYLbQNSaH1zefKXg0mB2dTCyJ",
			Name:    "Harbor Light Foundation",
			Contact: "grants@harborlight.example.org",
		},
		{
			ID:      "jM8vRwQp5TZxCKdYF2noLs7eHhU4GaBi",
			Name:    "Meridian Scholars Fund",
			Contact: "sponsorship@meridianscholars.example.org",
		},
		{
			ID:      "x2DnVhEb9JcKPmWqA6rtUz0fYgL5oSiN",
			Name:    "Cedar & Vine Trust",
			Contact: "office@cedarvine.example.org",
		},
	}

	for _, sponsor := range sponsors {
		_, err := repo.Get(ctx, sponsor.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrSponsorNotFound) {
			return fmt.Errorf("failed to look up sponsor %s: %w", sponsor.ID, err)
		}

		sponsor.CreatedAt = time.Now()
		if err := repo.Create(ctx, &sponsor); err != nil {
			return fmt.Errorf("failed to create sponsor %s: %w", sponsor.Name, err)
		}
	}

	return nil
}

func seedSponsorIDs() []string {
	return []string{
		"qW3qUfrjYLbQNSaH1zefKXg0mB2dTCyJ",
		"jM8vRwQp5TZxCKdYF2noLs7eHhU4GaBi",
		"x2DnVhEb9JcKPmWqA6rtUz0fYgL5oSiN",
	}
}
