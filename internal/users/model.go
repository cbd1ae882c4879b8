package users

// User is one row of the users table. Source of truth is the bulk
// import; rows may go stale between imports.
type User struct {
	SAPID       string
	Nombre      string
	Descripcion string // department, shown as "departamento" in responses
	Grupo       string
	Puesto      string
	Supervisor  string
}
