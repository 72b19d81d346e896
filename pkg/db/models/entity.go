package models

import (
	"encoding/json"
	"time"
)

// EntityRecord is one stored document, addressed by (type, key). The state
// column holds the record's full JSON body.
type EntityRecord struct {
	EntityType string          `gorm:"column:entity_type;primaryKey"`
	EntityKey  string          `gorm:"column:entity_key;primaryKey"`
	State      json.RawMessage `gorm:"column:state;type:jsonb;not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (EntityRecord) TableName() string { return "entity_records" }

// EntityIndexEntry enumerates the keys that exist for a type, in insertion
// order. Every record has exactly one index entry; the two are written in
// the same transaction so they cannot diverge.
type EntityIndexEntry struct {
	Position   int64  `gorm:"column:position;primaryKey;autoIncrement"`
	EntityType string `gorm:"column:entity_type;not null;uniqueIndex:idx_entity_index_type_key"`
	EntityKey  string `gorm:"column:entity_key;not null;uniqueIndex:idx_entity_index_type_key"`
}

func (EntityIndexEntry) TableName() string { return "entity_index_entries" }
