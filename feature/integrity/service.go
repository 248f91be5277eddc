package integrity

import (
	"context"
	"errors"

	"boardgame-sync/core/storage"
	"boardgame-sync/feature/integrity/checks"
	"boardgame-sync/feature/matches"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrStorageDisabled is returned by storage checks without object storage.
	ErrStorageDisabled = errors.New("object storage is not configured")
	// ErrDatabaseDisabled is returned by schema checks without a database.
	ErrDatabaseDisabled = errors.New("database is not configured")
)

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new integrity service. client and db may be nil.
func NewService(client storage.Client, bucket string, db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		db:     db,
		logger: logger,
	}
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	return checks.CheckStructure(ctx, s.client, s.bucket)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	if s.client == nil {
		return ErrStorageDisabled
	}
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckSchema verifies the match table and its unique indexes.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.db == nil {
		return nil, ErrDatabaseDisabled
	}
	return checks.CheckSchema(s.db, matches.MatchModel{})
}
