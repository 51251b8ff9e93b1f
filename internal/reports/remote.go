package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"purity/internal/apperr"
	"purity/internal/model"
)

// Postgres error codes that mean the store was never set up.
const (
	pgUndefinedTable    = "42P01"
	pgInvalidCatalog    = "3D000" // database does not exist
	sqliteMissingTable  = "no such table"
	defaultRemoteDriver = "postgres"
)

// reportRecord is one report document in the remote database.
type reportRecord struct {
	ID               string    `gorm:"primaryKey;size:64"`
	ReporterName     string    `gorm:"not null"`
	FoodName         string    `gorm:"not null"`
	AdulterantName   string    `gorm:"not null"`
	BrandName        string
	DateOfPurchase   string
	DateOfSubmission time.Time `gorm:"not null;index"`
	Observation      string    `gorm:"type:text;not null"`
	ImageBase64      string    `gorm:"type:text"`
}

func (reportRecord) TableName() string { return "reports" }

// RemoteStore keeps reports in a shared SQL database through gorm, one row
// per report.
type RemoteStore struct {
	db     *gorm.DB
	limit  int
	logger *zap.Logger
	newID  func() string
	now    func() time.Time
}

// OpenRemote connects to the remote database. driver is "postgres" or
// "sqlite". The connection is established lazily so an unreachable server
// surfaces on first use as STORE_UNREACHABLE instead of failing startup.
func OpenRemote(driver, dsn string, limit int, logger *zap.Logger) (*RemoteStore, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "", defaultRemoteDriver:
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported remote driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               gormlogger.Discard,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open remote store: %w", err)
	}
	return NewRemoteStore(db, limit, logger), nil
}

// NewRemoteStore wraps an open gorm handle. A non-positive limit means
// DefaultRemoteLimit.
func NewRemoteStore(db *gorm.DB, limit int, logger *zap.Logger) *RemoteStore {
	if limit <= 0 {
		limit = DefaultRemoteLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteStore{db: db, limit: limit, logger: logger, newID: uuid.NewString, now: time.Now}
}

// Mode implements Store.
func (s *RemoteStore) Mode() Mode { return ModeRemote }

// Provision creates the reports table. It is idempotent.
func (s *RemoteStore) Provision(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&reportRecord{}); err != nil {
		return classify(err)
	}
	s.logger.Info("Provisioned remote report store")
	return nil
}

// Save inserts r as a new document. The database copy gets its own id; the
// returned report carries it.
func (s *RemoteStore) Save(ctx context.Context, r model.Report) (model.Report, error) {
	rec := toRecord(r, s.now)
	rec.ID = s.newID()

	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return model.Report{}, classify(err)
	}
	s.logger.Debug("Saved report remotely", zap.String("client_id", r.ID), zap.String("id", rec.ID))
	return fromRecord(rec), nil
}

// List returns the most recent reports, newest first, capped at the limit.
func (s *RemoteStore) List(ctx context.Context) ([]model.Report, error) {
	var recs []reportRecord
	err := s.db.WithContext(ctx).
		Order("date_of_submission DESC").
		Order("id DESC").
		Limit(s.limit).
		Find(&recs).Error
	if err != nil {
		return nil, classify(err)
	}

	out := make([]model.Report, len(recs))
	for i, rec := range recs {
		out[i] = fromRecord(rec)
	}
	return out, nil
}

// Close releases the database handle.
func (s *RemoteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// classify converts a database error into DB_NOT_CREATED or STORE_UNREACHABLE.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == pgUndefinedTable || pgErr.Code == pgInvalidCatalog) {
		return apperr.Unprovisioned(err)
	}
	if strings.Contains(err.Error(), sqliteMissingTable) {
		return apperr.Unprovisioned(err)
	}
	return apperr.Unreachable(err)
}

func toRecord(r model.Report, now func() time.Time) reportRecord {
	submitted, err := time.Parse(time.RFC3339Nano, r.DateOfSubmission)
	if err != nil {
		submitted = now()
	}
	return reportRecord{
		ID:               r.ID,
		ReporterName:     r.ReporterName,
		FoodName:         r.FoodName,
		AdulterantName:   r.AdulterantName,
		BrandName:        r.BrandName,
		DateOfPurchase:   r.DateOfPurchase,
		DateOfSubmission: submitted.UTC(),
		Observation:      r.Observation,
		ImageBase64:      r.ImageBase64,
	}
}

func fromRecord(rec reportRecord) model.Report {
	return model.Report{
		ID:               rec.ID,
		ReporterName:     rec.ReporterName,
		FoodName:         rec.FoodName,
		AdulterantName:   rec.AdulterantName,
		BrandName:        rec.BrandName,
		DateOfPurchase:   rec.DateOfPurchase,
		DateOfSubmission: rec.DateOfSubmission.UTC().Format(time.RFC3339Nano),
		Observation:      rec.Observation,
		ImageBase64:      rec.ImageBase64,
	}
}
