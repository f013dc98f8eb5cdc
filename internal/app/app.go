// Package app assembles the share service from configuration. Both
// commands build their dependencies through it.
package app

import (
	"net/http"

	"discord-share/internal/config"
	"discord-share/internal/crawler"
	"discord-share/internal/history"
	"discord-share/internal/kvstore"
	"discord-share/internal/parser"
	"discord-share/internal/share"
	"discord-share/internal/webhook"
	"discord-share/pkg/logger"
)

// Options tweak how Build picks its stores.
type Options struct {
	// Ephemeral keeps everything in memory and ignores db_path.
	Ephemeral bool
}

// App is the assembled service plus whatever must be closed on exit.
type App struct {
	Service *share.Service
	Log     *logger.Logger

	db *kvstore.DB
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func Build(cfg config.Config, log *logger.Logger, opts Options) (*App, error) {
	if log == nil {
		log = logger.Discard()
	}

	var (
		syncStore  history.Store
		localStore history.Store
		db         *kvstore.DB
	)
	if opts.Ephemeral {
		syncStore = history.NewMemoryStore()
		localStore = history.NewMemoryStore()
		log.Debugf("using in-memory stores")
	} else {
		var err error
		db, err = kvstore.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		syncStore = db.Scope(kvstore.ScopeSync)
		localStore = db.Scope(kvstore.ScopeLocal)
		log.Debugf("opened %s", cfg.DBPath)
	}

	if cfg.UseKeyring && !opts.Ephemeral {
		if kvstore.KeyringAvailable(cfg.KeyringService) {
			syncStore = kvstore.NewKeyring(cfg.KeyringService)
			log.Debugf("settings kept in keychain service %q", cfg.KeyringService)
		} else {
			log.Warnf("keychain unavailable, settings stay in %s", cfg.DBPath)
		}
	}

	sendClient := &http.Client{
		Transport: crawler.NewTransport(cfg.DialTimeout()),
		Timeout:   cfg.SendTimeout(),
	}

	svc := share.NewService(share.Options{
		Fetcher:   crawler.NewHTTPClient(cfg.FetchTimeout(), cfg.DialTimeout(), cfg.MaxBodyBytes),
		Extractor: parser.New(),
		Sender:    webhook.NewClient(sendClient, cfg.FooterText),
		Recorder:  history.NewRecorder(localStore),
		Settings:  share.NewSettings(syncStore, cfg.WebhookURL),
		Logger:    log,
		Footer:    cfg.FooterText,
	})
	return &App{Service: svc, Log: log, db: db}, nil
}
