package users

// UserResponse is the identity projection returned by GET /usuario/:id.
// The stored "descripcion" column is what the forms call "departamento".
type UserResponse struct {
	SAPID        string `json:"sapid"`
	Nombre       string `json:"nombre"`
	Puesto       string `json:"puesto"`
	Departamento string `json:"departamento"`
}

type ImportSummary struct {
	Strategy  string `json:"strategy"`
	TotalRows int    `json:"total_rows"`
	Unique    int    `json:"unique"`
	Upserted  int64  `json:"upserted"`
	Deleted   int64  `json:"deleted"`
}

func (u *User) toResponse() UserResponse {
	return UserResponse{
		SAPID:        u.SAPID,
		Nombre:       u.Nombre,
		Puesto:       u.Puesto,
		Departamento: u.Descripcion,
	}
}
