package documents

import (
	"strings"
	"time"

	"github.com/khryztiam/loans-app/internal/assignments"
)

// Fixed template values of the acta form.
const (
	orgTitle       = "YNCA Business Management Systems"
	deptBox        = "YNCA / Information Technology"
	formTitle      = "Assigning IT Assets to Associates Form"
	formCode       = "AA-IT-xx-F-002"
	revisionDate   = "2016-OCT-07"
	assetTagPrefix = "WS-"

	confidentialText = "CONFIDENTIAL: This information is Yazaki property and can only be " +
		"distributed to formal business partners or parties authorized by the signing of " +
		"non-disclosure agreements. Copies are uncontrolled and subject to YA-01-01 " +
		"Documentation and Records Policy."

	acknowledgedText = "I acknowledge the receipt of the following equipment from the Department " +
		"of Information Technology for which I am responsible for. These responsibilities include " +
		"but are not limited to following the guidelines listed in corporate policy AA-IT-xx-Y-017 " +
		"IT Equipment and Network Access Policy. I also understand I must present this equipment " +
		"for all physical inventory processes and software audits, assure computer will be on the " +
		"network to receive service packs and virus updates a minimum of every 30 days, and to " +
		"report the theft or loss of equipment to the IT Department. In the event you cannot " +
		"produce physical verification of an asset (after two physical inventories) you are " +
		"responsible to complete an asset disposal form."
)

// printedDateLayout is the localized short date (es-ES, dd/mm/yyyy).
const printedDateLayout = "02/01/2006"

// Fields is the full variable content of the acta. Both delivery modes
// (PDF download and in-page preview) render from the same Fields value,
// which is what makes their field content identical.
type Fields struct {
	AssignmentID    uint64
	Modelo          string
	Serie           string
	AssetTag        string // serial prefixed with the fixed-asset marker
	Accesorios      string // catalog names joined by ", "
	Nombre          string
	Departamento    string
	Localidad       string
	FechaAsignacion string // dd/mm/yyyy
	PrintDate       string // dd/mm/yyyy
}

// BuildFields projects an assignment plus its resolved employee into the
// acta content. The employee projection is mandatory: an acta without an
// acknowledging person is meaningless.
func BuildFields(a *assignments.AssignmentResponse, now time.Time) (Fields, error) {
	if a.Usuario == nil {
		return Fields{}, ErrNotFound("employee information is unavailable for this assignment")
	}

	fecha, err := time.Parse(assignments.DateLayout, a.FechaAsignacion)
	if err != nil {
		return Fields{}, ErrInternal("assignment carries an unparseable fecha_asignacion")
	}

	return Fields{
		AssignmentID:    a.AssignmentID,
		Modelo:          a.Modelo,
		Serie:           a.Serie,
		AssetTag:        assetTagPrefix + a.Serie,
		Accesorios:      strings.Join(a.Accesorios, ", "),
		Nombre:          a.Usuario.Nombre,
		Departamento:    a.Usuario.Departamento,
		Localidad:       a.Localidad,
		FechaAsignacion: fecha.Format(printedDateLayout),
		PrintDate:       now.Format(printedDateLayout),
	}, nil
}
