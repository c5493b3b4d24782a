package main

import (
	"context"
	"time"

	"github.com/vinoteca/enrich-cli/internal/enrich"
	"github.com/vinoteca/enrich-cli/internal/settings"
	"github.com/vinoteca/enrich-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store)
}

func initSettings() *settings.FileStore {
	return settings.NewFileStore(cfg.Settings.Path)
}

func initFiles() (*enrich.FileStore, error) {
	return enrich.NewFileStore(cfg.Files.Dir, time.Duration(cfg.Files.RetentionHours)*time.Hour)
}
