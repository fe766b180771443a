package models

import "time"

// Frame is a frame member of the structural model.
type Frame struct {
	ID     uint    `gorm:"column:id;primaryKey"`
	Name   string  `gorm:"column:name;size:191;uniqueIndex"`
	Length float64 `gorm:"column:length"`
}

// TableName overrides the table name.
func (Frame) TableName() string {
	return "frames"
}

// FrameLoad is a distributed load assigned to a frame for one load pattern.
type FrameLoad struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Frame     string    `gorm:"column:frame;size:191;index:idx_frame_pattern" json:"frame"`
	Pattern   string    `gorm:"column:pattern;size:191;index:idx_frame_pattern" json:"pattern"`
	Type      int       `gorm:"column:type" json:"type"`
	Direction int       `gorm:"column:direction" json:"direction"`
	CSys      string    `gorm:"column:csys;size:64" json:"csys"`
	RelDist1  float64   `gorm:"column:rel_dist1" json:"rel_dist1"`
	RelDist2  float64   `gorm:"column:rel_dist2" json:"rel_dist2"`
	AbsDist1  float64   `gorm:"column:abs_dist1" json:"abs_dist1"`
	AbsDist2  float64   `gorm:"column:abs_dist2" json:"abs_dist2"`
	Value1    float64   `gorm:"column:value1" json:"value1"`
	Value2    float64   `gorm:"column:value2" json:"value2"`
	SourceRow int       `gorm:"column:source_row" json:"source_row"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name.
func (FrameLoad) TableName() string {
	return "frame_loads"
}

// ModelRevision is bumped after each batch of writes so model viewers redraw.
type ModelRevision struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Revision  int64     `gorm:"column:revision"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (ModelRevision) TableName() string {
	return "model_revisions"
}

// Snapshot marks that a baseline exists for an entity type.
type Snapshot struct {
	Entity  string    `gorm:"column:entity;size:64;primaryKey"`
	RunID   string    `gorm:"column:run_id;size:64"`
	TakenAt time.Time `gorm:"column:taken_at"`
}

// TableName overrides the table name.
func (Snapshot) TableName() string {
	return "snapshots"
}

// SnapshotEntry is one identity key of a baseline.
type SnapshotEntry struct {
	ID      uint   `gorm:"column:id;primaryKey"`
	Entity  string `gorm:"column:entity;size:64;index"`
	Frame   string `gorm:"column:frame;size:191"`
	Pattern string `gorm:"column:pattern;size:191"`
}

// TableName overrides the table name.
func (SnapshotEntry) TableName() string {
	return "snapshot_entries"
}

// All lists every model for migrations.
func All() []any {
	return []any{&Frame{}, &FrameLoad{}, &ModelRevision{}, &Snapshot{}, &SnapshotEntry{}}
}
