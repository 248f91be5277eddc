package cmd

import (
	"fmt"

	"boardgame-sync/core/config"
	"boardgame-sync/core/database"
	"boardgame-sync/core/logger"
	"boardgame-sync/core/reconcile"
	"boardgame-sync/core/storage"
	"boardgame-sync/feature/collection"
	"boardgame-sync/feature/matcher"
	"boardgame-sync/feature/matches"
	"boardgame-sync/feature/sources/bgg"
	"boardgame-sync/feature/sources/jsonapi"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds the collaborators shared by the commands.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	store   *matches.Store
	client  storage.Client
	archive *collection.Archive
	engine  *reconcile.Engine
}

// bootstrap loads the configuration and connects the match store. Object
// storage and the fuzzy matcher are optional and only wired when enabled.
func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	resolveAccounts(cfg)
	if cfg.Sync.AccountA == "" || cfg.Sync.AccountB == "" {
		return nil, fmt.Errorf("both sync.account_a and sync.account_b must be set")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	store := matches.NewStore(db, l)
	if err := store.Migrate(); err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, logger: l, db: db, store: store}

	opts := []reconcile.Option{}
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		rt.client = client
		rt.archive = collection.NewArchive(client, cfg.Storage.Bucket)
		opts = append(opts, reconcile.WithArchive(rt.archive))
	}

	if cfg.Matcher.Enabled {
		var recorder matcher.Recorder
		if rt.client != nil {
			recorder = matcher.NewAuditLog(rt.client, cfg.Storage.Bucket)
		}
		completer := matcher.NewOpenAICompleter(cfg.Matcher, l)
		opts = append(opts, reconcile.WithMatcher(matcher.NewGateway(completer, recorder, cfg.Matcher, l)))
	}

	if ttl := cfg.Sync.CacheTTL(); ttl > 0 {
		opts = append(opts, reconcile.WithCache(reconcile.NewSnapshotCache(ttl)))
	}

	rt.engine = reconcile.NewEngine(
		bgg.NewClient(cfg.BGG, l),
		jsonapi.NewClient(cfg.JSONAPI, l),
		store,
		cfg.Sync,
		l,
		opts...,
	)
	return rt, nil
}

// resolveAccounts makes the sync scope and the source usernames agree. An
// explicit sync account wins over a source username.
func resolveAccounts(cfg *config.Config) {
	if cfg.Sync.AccountA == "" {
		cfg.Sync.AccountA = cfg.BGG.Username
	}
	cfg.BGG.Username = cfg.Sync.AccountA

	if cfg.Sync.AccountB == "" {
		cfg.Sync.AccountB = cfg.JSONAPI.Username
	}
	cfg.JSONAPI.Username = cfg.Sync.AccountB
}

// collectionService returns the sync service of the runtime.
func (rt *runtime) collectionService() *collection.Service {
	return collection.NewService(rt.engine, rt.store, rt.archive, rt.logger)
}

// matchesService returns the housekeeping service of the runtime.
func (rt *runtime) matchesService() *matches.Service {
	return matches.NewService(rt.store, rt.engine.Scope(), rt.logger)
}
