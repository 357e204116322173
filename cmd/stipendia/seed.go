package main

import (
	"context"
	"fmt"

	"stipendia/internal/db"
	"stipendia/internal/seed"
	"stipendia/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with initial data",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of fake cases to create",
			Value:   25,
		},
		&cli.BoolFlag{
			Name:  "reset",
			Usage: "Delete previously seeded fake data first",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		caseRepo := store.NewCaseRepository(pool)
		sponsorRepo := store.NewSponsorRepository(pool)
		feeRepo := store.NewFeeRepository(pool)

		logrus.Info("Seeding sponsors...")
		if err := seed.SeedSponsors(ctx, sponsorRepo); err != nil {
			return fmt.Errorf("failed to seed sponsors: %w", err)
		}

		logrus.Info("Seeding fake cases...")
		if err := seed.SeedFakeCases(ctx, pool, caseRepo, sponsorRepo, feeRepo, c.Int("count"), c.Bool("reset")); err != nil {
			return fmt.Errorf("failed to seed fake cases: %w", err)
		}

		logrus.Info("Seed completed successfully")

		return nil
	},
}
