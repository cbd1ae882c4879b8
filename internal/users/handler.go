package users

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// GET /usuario/:id (interactive search and scan-as-you-type lookup)
	r.GET("/usuario/:id", h.GetUser)

	// POST /usuarios/import?strategy=upsert|replace
	r.POST("/usuarios/import", h.ImportUsers)
}

func (h *Handler) GetUser(c *gin.Context) {
	res, err := h.svc.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ImportUsers(c *gin.Context) {
	strategy, err := ParseStrategy(c.Query("strategy"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "multipart field 'file' is required"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "could not open uploaded file"))
		return
	}
	defer f.Close()

	summary, err := h.svc.Import(c.Request.Context(), f, strategy)
	if err != nil {
		log.Printf("[WARN] user import failed: %v", err)
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ---------- helpers ----------

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
