package handler

import (
	"net/http"

	"condocaja/internal/apierror"
	"condocaja/internal/dto"
	"condocaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CierresHandler struct{ svc service.CierreService }

func NewCierresHandler(svc service.CierreService) *CierresHandler {
	return &CierresHandler{svc: svc}
}

// Crear godoc
// @Summary Registra un cierre (arqueo) contra el saldo teorico actual
// @Tags cierres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearCierreRequest true "Conteo fisico"
// @Success 201 {object} dto.CierreResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja-chica/cierres [post]
func (h *CierresHandler) Crear(c *gin.Context) {
	var req dto.CrearCierreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), actorDe(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista los cierres de un periodo
// @Tags cierres
// @Produce json
// @Security BearerAuth
// @Param caja_chica_id query string false "Periodo (por defecto el activo)"
// @Param estado query string false "pendiente | aprobado | rechazado"
// @Success 200 {array} dto.CierreResponse
// @Router /v1/caja-chica/cierres [get]
func (h *CierresHandler) Listar(c *gin.Context) {
	f := dto.CierreFilter{
		CajaChicaID: c.Query("caja_chica_id"),
		Estado:      c.Query("estado"),
	}
	resp, err := h.svc.Listar(c.Request.Context(), f)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene un cierre por ID
// @Tags cierres
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del cierre"
// @Success 200 {object} dto.CierreResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja-chica/cierres/{id} [get]
func (h *CierresHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Aprobar godoc
// @Summary Aprueba un cierre pendiente, opcionalmente creando el ajuste
// @Tags cierres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del cierre"
// @Param body body dto.AprobarCierreRequest true "Opciones de aprobacion"
// @Success 200 {object} dto.CierreResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja-chica/cierres/{id}/aprobar [post]
func (h *CierresHandler) Aprobar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AprobarCierreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Aprobar(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Rechazar godoc
// @Summary Rechaza un cierre pendiente con motivo
// @Tags cierres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del cierre"
// @Param body body dto.RechazarCierreRequest true "Motivo del rechazo"
// @Success 200 {object} dto.CierreResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja-chica/cierres/{id}/rechazar [post]
func (h *CierresHandler) Rechazar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.RechazarCierreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Rechazar(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Acta godoc
// @Summary Descarga el acta en PDF de un cierre procesado
// @Tags cierres
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "ID del cierre"
// @Success 200 {file} file
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja-chica/cierres/{id}/acta [get]
func (h *CierresHandler) Acta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	ruta, err := h.svc.Acta(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.FileAttachment(ruta, "acta-cierre-"+id.String()+".pdf")
}
