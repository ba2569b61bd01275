package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cadena-service/internal/model"
)

// chainDocument is the persisted shape of a chain in the cadenas collection
type chainDocument struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty"`
	Slug         string              `bson:"slug,omitempty"`
	Title        string              `bson:"titulo"`
	StartDate    time.Time           `bson:"fecha_inicio"`
	EndDate      time.Time           `bson:"fecha_fin"`
	NoticeDays   int                 `bson:"aviso"`
	Active       bool                `bson:"activo"`
	Message      string              `bson:"mensaje"`
	SubDivision  int                 `bson:"sub_div"`
	Participants []model.Participant `bson:"participantes"`
}

func newDocument(c *model.Chain) chainDocument {
	return chainDocument{
		Slug:         c.Slug,
		Title:        c.Title,
		StartDate:    c.StartDate.UTC(),
		EndDate:      c.EndDate.UTC(),
		NoticeDays:   c.NoticeDays,
		Active:       c.Active,
		Message:      c.Message,
		SubDivision:  c.SubDivision,
		Participants: c.Participants,
	}
}

func (d *chainDocument) toModel() *model.Chain {
	participants := d.Participants
	if participants == nil {
		participants = []model.Participant{}
	}
	return &model.Chain{
		ID:           d.ID.Hex(),
		Slug:         d.Slug,
		Title:        d.Title,
		StartDate:    d.StartDate.UTC(),
		EndDate:      d.EndDate.UTC(),
		NoticeDays:   d.NoticeDays,
		Active:       d.Active,
		Message:      d.Message,
		SubDivision:  d.SubDivision,
		Participants: participants,
	}
}
