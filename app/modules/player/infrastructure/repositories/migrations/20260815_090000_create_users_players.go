package playermigrations

import (
	"context"
	"fmt"

	playerdb "github.com/fairway-collective/foursome/app/modules/player/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating players table...")

		_, err := db.NewCreateTable().Model((*playerdb.Player)(nil)).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create players table: %w", err)
		}

		fmt.Println("Creating users table...")

		_, err = db.NewCreateTable().Model((*playerdb.User)(nil)).
			IfNotExists().
			ForeignKey(`("player_id") REFERENCES "players" ("id")`).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create users table: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back users and players tables...")

		_, err := db.NewDropTable().Model((*playerdb.User)(nil)).IfExists().Cascade().Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop users table: %w", err)
		}

		_, err = db.NewDropTable().Model((*playerdb.Player)(nil)).IfExists().Cascade().Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop players table: %w", err)
		}

		return nil
	})
}
