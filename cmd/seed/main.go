// Command seed populates the database with sample users and metrics so the
// list and chart endpoints have data to serve during development.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	errs "github.com/Schera-ole/tracking-metrics/internal/errors"
	"github.com/Schera-ole/tracking-metrics/internal/migration"
	"github.com/Schera-ole/tracking-metrics/internal/repository"
	"github.com/Schera-ole/tracking-metrics/internal/units"
)

func main() {
	dsn := flag.String("d", "", "database dsn")
	userCount := flag.Int("users", 5, "number of users to create")
	daysBack := flag.Int("days", 60, "days of metric history per user")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	if envDSN := os.Getenv("DATABASE_DSN"); envDSN != "" {
		*dsn = envDSN
	}
	if *dsn == "" {
		sugar.Fatal("database dsn is required, pass -d or set DATABASE_DSN")
	}

	if err := migration.RunMigrations(*dsn, sugar); err != nil {
		sugar.Fatalf("failed to run migrations: %v", err)
	}
	storage, err := repository.NewDBStorage(*dsn)
	if err != nil {
		sugar.Fatalf("failed to connect to database: %v", err)
	}
	defer storage.Close()

	ctx := context.Background()
	if err := seed(ctx, storage, *userCount, *daysBack, sugar); err != nil {
		sugar.Fatalf("seeding failed: %v", err)
	}
	sugar.Info("seeding completed")
}

func seed(ctx context.Context, storage repository.Repository, userCount, daysBack int, sugar *zap.SugaredLogger) error {
	distanceUnits := units.ValidUnits(units.Distance)
	temperatureUnits := units.ValidUnits(units.Temperature)

	today := time.Now().UTC()
	total := 0

	for i := 1; i <= userCount; i++ {
		name := fmt.Sprintf("seed_user_%d", i)
		user, err := storage.CreateUser(ctx, name)
		if errors.Is(err, errs.ErrUserAlreadyExists) {
			sugar.Infof("user %s already exists, skipping", name)
			continue
		}
		if err != nil {
			return fmt.Errorf("creating user %s: %w", name, err)
		}
		sugar.Infof("created user %s", user.Name)

		for day := 0; day < daysBack; day++ {
			date := today.AddDate(0, 0, -day)

			// Roughly two thirds of the days get a distance entry,
			// every day gets a temperature reading.
			if rand.Intn(3) > 0 {
				unit := distanceUnits[rand.Intn(len(distanceUnits))]
				value := 0.5 + rand.Float64()*9.5
				_, err = storage.UpsertMetric(ctx, user.ID, units.Distance, round4(value), unit, date)
				if err != nil {
					return fmt.Errorf("seeding distance for %s: %w", name, err)
				}
				total++
			}

			unit := temperatureUnits[rand.Intn(len(temperatureUnits))]
			value := -10 + rand.Float64()*45
			if unit == units.Fahrenheit {
				value = value*9/5 + 32
			}
			if unit == units.Kelvin {
				value += 273.15
			}
			_, err = storage.UpsertMetric(ctx, user.ID, units.Temperature, round4(value), unit, date)
			if err != nil {
				return fmt.Errorf("seeding temperature for %s: %w", name, err)
			}
			total++
		}
	}

	sugar.Infof("seeded %d metrics for %d users", total, userCount)
	return nil
}

func round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}
