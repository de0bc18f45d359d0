package roundmigrations

import (
	"context"
	"fmt"

	rounddb "github.com/fairway-collective/foursome/app/modules/round/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating rounds table...")

		_, err := db.NewCreateTable().Model((*rounddb.Round)(nil)).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create rounds table: %w", err)
		}

		fmt.Println("Creating entries table...")

		_, err = db.NewCreateTable().Model((*rounddb.Entry)(nil)).
			IfNotExists().
			ForeignKey(`("round_id") REFERENCES "rounds" ("id")`).
			ForeignKey(`("player_id") REFERENCES "players" ("id")`).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create entries table: %w", err)
		}

		// The proposal path dedupes on exact (course, date).
		_, err = db.NewCreateIndex().
			Model((*rounddb.Round)(nil)).
			Index("rounds_course_date_idx").
			Unique().
			Column("course", "date").
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create rounds course/date index: %w", err)
		}

		// Promotion scans the waitlist ordered by arrival.
		_, err = db.NewCreateIndex().
			Model((*rounddb.Entry)(nil)).
			Index("entries_round_status_created_idx").
			Column("round_id", "status", "created_at").
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create entries promotion index: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back rounds and entries tables...")

		_, err := db.NewDropTable().Model((*rounddb.Entry)(nil)).IfExists().Cascade().Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop entries table: %w", err)
		}

		_, err = db.NewDropTable().Model((*rounddb.Round)(nil)).IfExists().Cascade().Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop rounds table: %w", err)
		}

		return nil
	})
}
