package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pkgdb "github.com/anandbhagyawant/messconnect-backend/pkg/db"
	"github.com/anandbhagyawant/messconnect-backend/pkg/db/models"
	pkgerrors "github.com/anandbhagyawant/messconnect-backend/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists JSON records addressed by (entity type, key), with a
// per-type index of existing keys kept in insertion order. The record row
// and its index entry are always written in one transaction, so the two can
// never diverge.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by the provided GORM connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create persists a new record. The insert is put-if-absent: when the key is
// already present it reports AlreadyExists without touching the stored state,
// and concurrent creates racing on one key yield exactly one winner.
func (s *Store) Create(ctx context.Context, entityType, key string, state json.RawMessage) error {
	return s.withTx(ctx, func(tx *gorm.DB) error {
		record := models.EntityRecord{
			EntityType: entityType,
			EntityKey:  key,
			State:      state,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entity_type"}, {Name: "entity_key"}},
			DoNothing: true,
		}).Create(&record)
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "persist record")
		}
		if res.RowsAffected == 0 {
			return alreadyExists(entityType, key)
		}

		entry := models.EntityIndexEntry{
			EntityType: entityType,
			EntityKey:  key,
		}
		if err := tx.Create(&entry).Error; err != nil {
			if pkgdb.IsUniqueViolation(err) {
				return alreadyExists(entityType, key)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist index entry")
		}
		return nil
	})
}

// Get returns the stored state for the key.
func (s *Store) Get(ctx context.Context, entityType, key string) (json.RawMessage, error) {
	var record models.EntityRecord
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_key = ?", entityType, key).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(entityType, key)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load record")
	}
	return record.State, nil
}

// Exists reports whether the key is present.
func (s *Store) Exists(ctx context.Context, entityType, key string) (bool, error) {
	_, err := s.Get(ctx, entityType, key)
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// Patch merges partial fields into the existing state. It is not an upsert:
// a missing key reports NotFound and nothing is written.
func (s *Store) Patch(ctx context.Context, entityType, key string, partial map[string]any) (json.RawMessage, error) {
	var merged json.RawMessage
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		query := tx.Where("entity_type = ? AND entity_key = ?", entityType, key)
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var record models.EntityRecord
		if err := query.First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(entityType, key)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load record")
		}

		var state map[string]any
		if err := json.Unmarshal(record.State, &state); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode stored state")
		}
		for field, value := range partial {
			state[field] = value
		}
		next, err := json.Marshal(state)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode merged state")
		}

		if err := tx.Model(&models.EntityRecord{}).
			Where("entity_type = ? AND entity_key = ?", entityType, key).
			Update("state", json.RawMessage(next)).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist merged state")
		}
		merged = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete removes the record and its index entry. A missing key reports
// NotFound.
func (s *Store) Delete(ctx context.Context, entityType, key string) error {
	return s.withTx(ctx, func(tx *gorm.DB) error {
		res := tx.Where("entity_type = ? AND entity_key = ?", entityType, key).
			Delete(&models.EntityRecord{})
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "delete record")
		}
		if res.RowsAffected == 0 {
			return notFound(entityType, key)
		}
		if err := tx.Where("entity_type = ? AND entity_key = ?", entityType, key).
			Delete(&models.EntityIndexEntry{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete index entry")
		}
		return nil
	})
}

// List returns every stored state of the type, walking the key index in
// insertion order.
func (s *Store) List(ctx context.Context, entityType string) ([]json.RawMessage, error) {
	var records []models.EntityRecord
	err := s.db.WithContext(ctx).
		Table("entity_records").
		Select("entity_records.*").
		Joins("JOIN entity_index_entries ON entity_index_entries.entity_type = entity_records.entity_type AND entity_index_entries.entity_key = entity_records.entity_key").
		Where("entity_records.entity_type = ?", entityType).
		Order("entity_index_entries.position ASC").
		Find(&records).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list records")
	}
	states := make([]json.RawMessage, 0, len(records))
	for _, record := range records {
		states = append(states, record.State)
	}
	return states, nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, tx.Error, "begin transaction")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit transaction")
	}
	return nil
}

// IsNotFound reports whether err carries the store's NotFound code.
func IsNotFound(err error) bool {
	typed := pkgerrors.As(err)
	return typed != nil && typed.Code() == pkgerrors.CodeNotFound
}

// IsAlreadyExists reports whether err carries the store's AlreadyExists code.
func IsAlreadyExists(err error) bool {
	typed := pkgerrors.As(err)
	return typed != nil && typed.Code() == pkgerrors.CodeAlreadyExists
}

func notFound(entityType, key string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s %q not found", entityType, key))
}

func alreadyExists(entityType, key string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeAlreadyExists, fmt.Sprintf("%s %q already exists", entityType, key))
}
