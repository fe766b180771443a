package frameloads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"frameload-sync/core/reconcile"
	"frameload-sync/feature/frameloads/models"

	"gorm.io/gorm"
)

// SnapshotStore persists the desired set of the last applied run per entity type.
type SnapshotStore struct {
	db *gorm.DB
}

// NewSnapshotStore creates a snapshot store over db.
func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Load returns the baseline for entity, or nil when no snapshot was taken yet.
func (s *SnapshotStore) Load(ctx context.Context, entity string) (*reconcile.KeySet, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("no database connection")
	}
	db := s.db.WithContext(ctx)

	var head models.Snapshot
	err := db.Where("entity = ?", entity).Take(&head).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", entity, err)
	}

	var entries []models.SnapshotEntry
	if err := db.Where("entity = ?", entity).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load snapshot entries %s: %w", entity, err)
	}

	set := reconcile.NewKeySet()
	for _, e := range entries {
		set.Add(reconcile.IdentityKey{Name: e.Frame, Classifier: e.Pattern})
	}
	return set, nil
}

// Save replaces the baseline for entity.
func (s *SnapshotStore) Save(ctx context.Context, entity, runID string, keys []reconcile.IdentityKey) error {
	if s == nil || s.db == nil {
		return errors.New("no database connection")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entity = ?", entity).Delete(&models.SnapshotEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entity = ?", entity).Delete(&models.Snapshot{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Snapshot{Entity: entity, RunID: runID, TakenAt: time.Now()}).Error; err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		entries := make([]models.SnapshotEntry, len(keys))
		for i, k := range keys {
			entries[i] = models.SnapshotEntry{Entity: entity, Frame: k.Name, Pattern: k.Classifier}
		}
		return tx.CreateInBatches(entries, 500).Error
	})
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", entity, err)
	}
	return nil
}
