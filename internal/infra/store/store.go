// Package store picks the benefit repository implementation from configuration.
package store

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"yutai_notification_bot/internal/domain/benefit"
	"yutai_notification_bot/internal/infra/config"
	idb "yutai_notification_bot/internal/infra/database"
	"yutai_notification_bot/internal/infra/supabase"

	"github.com/sirupsen/logrus"
)

const supabaseRequestTimeout = 15 * time.Second

// Open builds the repository selected by cfg.StoreBackend. The returned close
// function releases whatever connection the store holds.
func Open(ctx context.Context, cfg *config.AppConfig, logger *logrus.Entry) (benefit.Repository, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendSupabase:
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.ResponseHeaderTimeout = supabaseRequestTimeout
		client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, transport)
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("table", cfg.SupabaseTable).Info("Using Supabase benefit store")
		return supabase.NewBenefitRepository(client, cfg.SupabaseTable), func() error { return nil }, nil

	case config.BackendPostgres:
		db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to database: %w", err)
		}
		logger.Info("Database connection established successfully.")

		if cfg.AutoMigrate() {
			if err := idb.RunMigrations(ctx, db); err != nil {
				db.Close()
				return nil, nil, err
			}
			logger.Info("Database migrations applied.")
		}
		return idb.NewPostgresBenefitRepository(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
