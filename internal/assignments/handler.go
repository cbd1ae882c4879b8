package assignments

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ActaRenderer produces the acknowledgment-of-receipt PDF for a freshly
// created assignment. Implemented by the documents service.
type ActaRenderer interface {
	RenderActa(a *AssignmentResponse) (pdf []byte, filename string, err error)
}

type Handler struct {
	svc  *Service
	acta ActaRenderer
}

func RegisterRoutes(r gin.IRoutes, svc *Service, acta ActaRenderer) {
	h := &Handler{svc: svc, acta: acta}

	// POST /asignar (create + acta download)
	r.POST("/asignar", h.CreateAssignment)
	// GET /asignaciones
	r.GET("/asignaciones", h.ListAssignments)
	// GET /asignaciones/:id
	r.GET("/asignaciones/:id", h.GetAssignment)
	// PUT /asignaciones/:id (edit mode; sapid not editable)
	r.PUT("/asignaciones/:id", h.UpdateAssignment)
}

// CreateAssignment persists the assignment and streams the acta PDF. If
// the PDF step fails the row stays persisted and the caller is told to
// re-request the document by id.
func (h *Handler) CreateAssignment(c *gin.Context) {
	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}

	loc := "/asignaciones/" + strconv.FormatUint(res.AssignmentID, 10)
	c.Header("Location", loc)

	pdf, filename, err := h.acta.RenderActa(&res)
	if err != nil {
		log.Printf("[ERROR] acta generation failed for assignment %d: %v", res.AssignmentID, err)
		c.JSON(http.StatusCreated, gin.H{
			"assignment":     res,
			"document_error": "assignment saved but acta generation failed; retry via document endpoint",
			"document_url":   "/pdf/" + strconv.FormatUint(res.AssignmentID, 10),
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename=`+filename)
	c.Data(http.StatusCreated, "application/pdf", pdf)
}

func (h *Handler) GetAssignment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "assignment id must be a positive integer"))
		return
	}

	res, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListAssignments(c *gin.Context) {
	limit := parseIntDefault(c.Query("limit"), 50)
	offset := parseIntDefault(c.Query("offset"), 0)

	res, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) UpdateAssignment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "assignment id must be a positive integer"))
		return
	}

	var req UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	res, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// ---------- helpers ----------

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

type errorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorBody(code Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errorDTO {
	var msg string
	var code Code = CodeInternal
	if api, ok := err.(*APIError); ok {
		code, msg = api.Code, api.Message
	} else {
		msg = err.Error()
	}
	return errorBody(code, msg)
}
