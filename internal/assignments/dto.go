package assignments

import (
	"time"

	"github.com/khryztiam/loans-app/internal/users"
)

const DateLayout = "2006-01-02"

type CreateAssignmentRequest struct {
	SAPID      string   `json:"sapid" binding:"required"`
	Modelo     string   `json:"modelo" binding:"required"`
	Serie      string   `json:"serie" binding:"required"`
	Accesorios []string `json:"accesorios,omitempty"`
	Localidad  string   `json:"localidad" binding:"required"`
	// "2006-01-02"; defaults to today, must not be in the future.
	FechaAsignacion *string `json:"fecha_asignacion,omitempty"`
}

// UpdateAssignmentRequest carries every editable field. The employee
// identity is fixed at creation and deliberately absent here.
type UpdateAssignmentRequest struct {
	Modelo          string   `json:"modelo" binding:"required"`
	Serie           string   `json:"serie" binding:"required"`
	Accesorios      []string `json:"accesorios,omitempty"`
	Localidad       string   `json:"localidad" binding:"required"`
	FechaAsignacion *string  `json:"fecha_asignacion,omitempty"`
}

type AssignmentResponse struct {
	AssignmentID    uint64    `json:"assignment_id"`
	AssignmentULID  string    `json:"assignment_ulid"`
	SAPID           string    `json:"sapid"`
	Modelo          string    `json:"modelo"`
	Serie           string    `json:"serie"`
	Accesorios      []string  `json:"accesorios"`
	Localidad       string    `json:"localidad"`
	FechaAsignacion string    `json:"fecha_asignacion"` // YYYY-MM-DD
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Re-resolved employee projection for display; omitted when the
	// employee has disappeared from the directory between imports.
	Usuario *users.UserResponse `json:"usuario,omitempty"`
}

func buildAssignmentResponse(a *Assignment, u *users.UserResponse) AssignmentResponse {
	acc := a.Accesorios
	if acc == nil {
		acc = []string{}
	}
	return AssignmentResponse{
		AssignmentID:    a.AssignmentID,
		AssignmentULID:  a.AssignmentULID,
		SAPID:           a.SAPID,
		Modelo:          a.Modelo,
		Serie:           a.Serie,
		Accesorios:      acc,
		Localidad:       a.Localidad,
		FechaAsignacion: a.FechaAsignacion.Format(DateLayout),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		Usuario:         u,
	}
}
