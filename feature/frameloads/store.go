package frameloads

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"frameload-sync/core/database"
	"frameload-sync/core/reconcile"
	"frameload-sync/feature/frameloads/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrFrameNotFound is returned when a frame is absent from the model.
var ErrFrameNotFound = errors.New("frame not found")

// requiredColumns are checked before a session is opened.
var requiredColumns = map[string][]string{
	"frames":          {"name", "length"},
	"frame_loads":     {"frame", "pattern", "type", "direction", "csys", "rel_dist1", "rel_dist2", "abs_dist1", "abs_dist2", "value1", "value2"},
	"model_revisions": {"revision"},
}

// Store is the structural model database.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a model store over db.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Migrate creates the model tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// Open starts a model session after verifying the schema.
func (s *Store) Open(ctx context.Context) (reconcile.Session, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("no database connection")
	}
	missing, err := s.CheckSchema(ctx)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		tables := make([]string, 0, len(missing))
		for t, cols := range missing {
			tables = append(tables, fmt.Sprintf("%s(%s)", t, strings.Join(cols, ",")))
		}
		sort.Strings(tables)
		return nil, fmt.Errorf("model schema incomplete: missing %s", strings.Join(tables, " "))
	}
	return &session{db: s.db.WithContext(ctx), logger: s.logger}, nil
}

// CheckSchema returns the required model columns that are absent, by table.
func (s *Store) CheckSchema(ctx context.Context) (map[string][]string, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("no database connection")
	}
	missing, err := database.MissingColumns(s.db.WithContext(ctx), requiredColumns)
	if err != nil {
		return nil, fmt.Errorf("inspect schema: %w", err)
	}
	return missing, nil
}

// Loads returns every stored load ordered by frame and pattern.
func (s *Store) Loads(ctx context.Context) ([]models.FrameLoad, error) {
	var loads []models.FrameLoad
	err := s.db.WithContext(ctx).Order("frame, pattern, id").Find(&loads).Error
	if err != nil {
		return nil, fmt.Errorf("list frame loads: %w", err)
	}
	return loads, nil
}

// Revision returns the current model revision, zero before the first write.
func (s *Store) Revision(ctx context.Context) (int64, error) {
	var rev models.ModelRevision
	err := s.db.WithContext(ctx).Where("id = ?", 1).Limit(1).Find(&rev).Error
	if err != nil {
		return 0, fmt.Errorf("model revision: %w", err)
	}
	return rev.Revision, nil
}

// session is one run against the model. Calls are sequential.
type session struct {
	db     *gorm.DB
	logger *zap.Logger
	writes int
}

func (s *session) ExistingNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&models.Frame{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	return names, nil
}

func (s *session) Length(ctx context.Context, name string) (float64, error) {
	var frame models.Frame
	err := s.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).Take(&frame).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: %s", ErrFrameNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("frame length %s: %w", name, err)
	}
	return frame.Length, nil
}

func (s *session) Apply(ctx context.Context, a reconcile.PreparedAssignment, replace bool) error {
	load := models.FrameLoad{
		Frame:     a.Key.Name,
		Pattern:   a.Key.Classifier,
		Type:      a.Type,
		Direction: a.Direction,
		CSys:      a.CSys,
		RelDist1:  a.Relative.Start,
		RelDist2:  a.Relative.End,
		AbsDist1:  a.Absolute.Start,
		AbsDist2:  a.Absolute.End,
		Value1:    a.Value1,
		Value2:    a.Value2,
		SourceRow: a.Row,
		UpdatedAt: time.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replace {
			if err := byKey(tx, a.Key).Delete(&models.FrameLoad{}).Error; err != nil {
				return err
			}
		}
		return tx.Create(&load).Error
	})
	if err != nil {
		return fmt.Errorf("apply %s: %w", a.Key, err)
	}
	s.writes++
	return nil
}

func (s *session) Remove(ctx context.Context, key reconcile.IdentityKey) error {
	res := byKey(s.db.WithContext(ctx), key).Delete(&models.FrameLoad{})
	if res.Error != nil {
		return fmt.Errorf("remove %s: %w", key, res.Error)
	}
	s.logger.Debug("Frame loads removed", zap.Stringer("key", key), zap.Int64("rows", res.RowsAffected))
	s.writes++
	return nil
}

// RefreshView bumps the model revision.
func (s *session) RefreshView(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rev models.ModelRevision
		if err := tx.Where(models.ModelRevision{ID: 1}).FirstOrCreate(&rev).Error; err != nil {
			return err
		}
		return tx.Model(&rev).Updates(map[string]any{
			"revision":   gorm.Expr("revision + 1"),
			"updated_at": time.Now(),
		}).Error
	})
}

func (s *session) Close() error {
	s.logger.Debug("Model session closed", zap.Int("writes", s.writes))
	return nil
}

func byKey(db *gorm.DB, key reconcile.IdentityKey) *gorm.DB {
	return db.Where("LOWER(frame) = LOWER(?) AND LOWER(pattern) = LOWER(?)", key.Name, key.Classifier)
}
