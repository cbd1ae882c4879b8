package assignments

import "time"

// Assignment is one row of asignaciones_permanentes: equipment
// permanently issued to an employee. No lifecycle state, no soft delete;
// edits overwrite in place and last write wins.
type Assignment struct {
	AssignmentID    uint64
	AssignmentULID  string
	SAPID           string // fixed at creation, never re-editable
	Modelo          string
	Serie           string
	Accesorios      []string // stored as a JSON array
	Localidad       string
	FechaAsignacion time.Time // DATE
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Catalogs offered by the assignment form.
var (
	EquipmentModels = []string{
		"LATITUDE 5420",
		"LATITUDE 5430",
		"LATITUDE 5440",
		"LATITUDE 5450",
		"LATITUDE 5480",
		"LATITUDE 5490",
		"OPTIPLEX 3000",
		"OPTIPLEX 7010",
		"OPTIPLEX 7020",
	}

	Locations = []string{"Santa Ana", "Rinconcito", "Intercomplex"}

	AccessoryCatalog = []string{
		"MOUSE WIRELESS",
		"KEYBOARD WIRELESS",
		"CARGADOR",
		"MOCHILA",
		"MOUSE",
		"TECLADO",
		"COVER",
		"STYLUS",
	}
)

func validLocation(l string) bool {
	for _, v := range Locations {
		if v == l {
			return true
		}
	}
	return false
}

func invalidAccessories(list []string) []string {
	valid := make(map[string]struct{}, len(AccessoryCatalog))
	for _, a := range AccessoryCatalog {
		valid[a] = struct{}{}
	}
	var bad []string
	for _, a := range list {
		if _, ok := valid[a]; !ok {
			bad = append(bad, a)
		}
	}
	return bad
}
