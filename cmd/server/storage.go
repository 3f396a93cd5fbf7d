package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/clinic-appointments/internal/config"
	"github.com/iliyamo/clinic-appointments/internal/database"
	"github.com/iliyamo/clinic-appointments/internal/repository"
)

// storage is the set of handles built for the configured driver.
type storage struct {
	treatments   repository.TreatmentStore
	appointments repository.AppointmentStore
	ping         func(ctx context.Context) error
	close        func(ctx context.Context) error
}

// openStorage connects to the backend named by cfg.StorageDriver and
// confirms it is reachable. SQL backends get their tables created.
func openStorage(ctx context.Context, cfg config.Config) (*storage, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		m, err := database.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return &storage{
			treatments:   repository.NewMongoTreatmentRepo(m.DB),
			appointments: repository.NewMongoAppointmentRepo(m.DB),
			ping:         m.Ping,
			close:        m.Close,
		}, nil
	case config.DriverMySQL:
		db, err := database.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, err
		}
		return sqlStorage(ctx, db, database.DialectMySQL)
	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlStorage(ctx, db, database.DialectSQLite)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func sqlStorage(ctx context.Context, db *sql.DB, dialect string) (*storage, error) {
	if err := database.ApplySchema(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &storage{
		treatments:   repository.NewSQLTreatmentRepo(db),
		appointments: repository.NewSQLAppointmentRepo(db),
		ping:         db.PingContext,
		close:        func(context.Context) error { return db.Close() },
	}, nil
}
