package model

import "time"

// DefaultMessage is the reminder sent to participants when a chain has no custom message
const DefaultMessage = "¡Saludos! Este mensaje es para recordar el pago de la cadena."

// Chain represents one rotating-payment group ("cadena")
type Chain struct {
	ID           string        `json:"_id"`
	Slug         string        `json:"slug"`
	Title        string        `json:"titulo" validate:"required"`
	StartDate    time.Time     `json:"fecha_inicio"`
	EndDate      time.Time     `json:"fecha_fin"`
	NoticeDays   int           `json:"aviso" validate:"gte=0"`
	Active       bool          `json:"activo"`
	Message      string        `json:"mensaje"`
	SubDivision  int           `json:"sub_div" validate:"oneof=1 2"`
	Participants []Participant `json:"participantes" validate:"min=1"`
}

// Participant is one member of a chain. It carries exactly these three fields.
type Participant struct {
	Name          string   `json:"nombre" bson:"nombre"`
	ContactNumber string   `json:"numero" bson:"numero"`
	Position      Position `json:"puesto" bson:"puesto"`
}

// ChainFilter narrows a chain listing
type ChainFilter struct {
	Active *bool
}
