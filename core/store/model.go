package store

import (
	"context"

	"feature-merge/core/gff"

	"gorm.io/gorm"
)

const tableName = "features"

// mysqlTableOptions makes MySQL compare ids, seqids and types byte for byte,
// matching SQLite. The server default collation folds case and trailing spaces.
const mysqlTableOptions = " DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin"

// featureRow is the persisted form of a gff.Feature.
type featureRow struct {
	ID          string         `gorm:"column:id;primaryKey;size:191"`
	SeqID       string         `gorm:"column:seqid;size:191;not null;index:idx_features_order,priority:1"`
	FeatureType string         `gorm:"column:featuretype;size:191;not null;index:idx_features_order,priority:2"`
	Strand      string         `gorm:"column:strand;size:1;not null;index:idx_features_order,priority:3"`
	StartPos    int            `gorm:"column:start_pos;not null;index:idx_features_order,priority:4"`
	EndPos      int            `gorm:"column:end_pos;not null"`
	Source      string         `gorm:"column:source;size:255"`
	Score       string         `gorm:"column:score;size:32"`
	Frame       string         `gorm:"column:frame;size:1"`
	Attributes  gff.Attributes `gorm:"column:attributes;type:text;serializer:json"`
}

func (featureRow) TableName() string { return tableName }

// migrate creates the feature table or brings its columns up to date.
// Table options only apply when the table is created.
func migrate(ctx context.Context, db *gorm.DB) error {
	if db.Dialector.Name() == "mysql" {
		db = db.Set("gorm:table_options", mysqlTableOptions)
	}
	return db.WithContext(ctx).AutoMigrate(&featureRow{})
}

// requiredColumns are the columns queries rely on.
var requiredColumns = []string{"id", "seqid", "featuretype", "strand", "start_pos", "end_pos", "attributes"}

func toRow(f *gff.Feature) *featureRow {
	return &featureRow{
		ID:          f.ID,
		SeqID:       f.SeqID,
		FeatureType: f.Type,
		Strand:      f.Strand,
		StartPos:    f.Start,
		EndPos:      f.End,
		Source:      f.Source,
		Score:       f.Score,
		Frame:       f.Frame,
		Attributes:  f.Attributes.Clone(),
	}
}

func (r *featureRow) toFeature() *gff.Feature {
	return &gff.Feature{
		ID:         r.ID,
		SeqID:      r.SeqID,
		Type:       r.FeatureType,
		Strand:     r.Strand,
		Start:      r.StartPos,
		End:        r.EndPos,
		Source:     r.Source,
		Score:      r.Score,
		Frame:      r.Frame,
		Attributes: r.Attributes,
	}
}
