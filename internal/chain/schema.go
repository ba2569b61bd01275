package chain

import "cadena-service/internal/model"

// Wire keys of a chain payload
const (
	fieldSlug         = "slug"
	fieldTitle        = "titulo"
	fieldStartDate    = "fecha_inicio"
	fieldEndDate      = "fecha_fin"
	fieldNoticeDays   = "aviso"
	fieldActive       = "activo"
	fieldMessage      = "mensaje"
	fieldSubDivision  = "sub_div"
	fieldParticipants = "participantes"

	fieldParticipantName    = "nombre"
	fieldParticipantContact = "numero"
	fieldParticipantPos     = "puesto"
)

// chainFields is the fixed normalization order. The title comes before the
// fields that depend on it.
var chainFields = []string{
	fieldSlug,
	fieldTitle,
	fieldStartDate,
	fieldEndDate,
	fieldNoticeDays,
	fieldActive,
	fieldMessage,
	fieldSubDivision,
	fieldParticipants,
}

// requiredFields are checked in this order so the reported field is stable
var requiredFields = []string{
	fieldTitle,
	fieldStartDate,
	fieldEndDate,
	fieldParticipants,
}

var participantFields = []string{
	fieldParticipantName,
	fieldParticipantContact,
	fieldParticipantPos,
}

// Defaults for the optional chain fields
const (
	DefaultNoticeDays  = 2
	DefaultActive      = true
	DefaultSubDivision = 1
)

// NewDraft returns a chain holding only the defaults of the optional fields
func NewDraft() model.Chain {
	return model.Chain{
		NoticeDays:   DefaultNoticeDays,
		Active:       DefaultActive,
		Message:      model.DefaultMessage,
		SubDivision:  DefaultSubDivision,
		Participants: []model.Participant{},
	}
}
