package pgstore

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cadena-service/internal/model"
)

// ChainRow is the cadenas table. Participants live in a jsonb column so the
// row keeps the document shape of a chain.
type ChainRow struct {
	ID           string                                `gorm:"primarykey;type:varchar(36)"`
	Slug         string                                `gorm:"type:varchar(255);index"`
	Title        string                                `gorm:"type:varchar(255);not null"`
	StartDate    time.Time                             `gorm:"not null"`
	EndDate      time.Time                             `gorm:"not null"`
	NoticeDays   int                                   `gorm:"not null"`
	Active       bool                                  `gorm:"not null;index"`
	Message      string                                `gorm:"type:text"`
	SubDivision  int                                   `gorm:"not null"`
	Participants datatypes.JSONSlice[model.Participant] `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time
}

// TableName keeps the collection name used by the document store
func (ChainRow) TableName() string {
	return "cadenas"
}

// BeforeCreate assigns the record ID
func (r *ChainRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

func newRow(c *model.Chain) *ChainRow {
	return &ChainRow{
		Slug:         c.Slug,
		Title:        c.Title,
		StartDate:    c.StartDate.UTC(),
		EndDate:      c.EndDate.UTC(),
		NoticeDays:   c.NoticeDays,
		Active:       c.Active,
		Message:      c.Message,
		SubDivision:  c.SubDivision,
		Participants: datatypes.JSONSlice[model.Participant](append([]model.Participant{}, c.Participants...)),
	}
}

func (r *ChainRow) toModel() *model.Chain {
	return &model.Chain{
		ID:           r.ID,
		Slug:         r.Slug,
		Title:        r.Title,
		StartDate:    r.StartDate.UTC(),
		EndDate:      r.EndDate.UTC(),
		NoticeDays:   r.NoticeDays,
		Active:       r.Active,
		Message:      r.Message,
		SubDivision:  r.SubDivision,
		Participants: append([]model.Participant{}, r.Participants...),
	}
}
