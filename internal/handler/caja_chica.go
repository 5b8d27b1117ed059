package handler

import (
	"net/http"
	"strconv"

	"condocaja/internal/apierror"
	"condocaja/internal/dto"
	"condocaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajaChicaHandler struct {
	svc        service.CajaChicaService
	renovacion service.RenovacionService
}

func NewCajaChicaHandler(svc service.CajaChicaService, renovacion service.RenovacionService) *CajaChicaHandler {
	return &CajaChicaHandler{svc: svc, renovacion: renovacion}
}

// Configurar godoc
// @Summary Configura la caja chica inicial del condominio
// @Tags caja-chica
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ConfigurarCajaRequest true "Configuracion inicial"
// @Success 201 {object} dto.CajaChicaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja-chica [post]
func (h *CajaChicaHandler) Configurar(c *gin.Context) {
	var req dto.ConfigurarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Configurar(c.Request.Context(), actorDe(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerActiva godoc
// @Summary Obtiene la configuracion de la caja chica activa
// @Tags caja-chica
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CajaChicaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja-chica [get]
func (h *CajaChicaHandler) ObtenerActiva(c *gin.Context) {
	resp, err := h.svc.ObtenerActiva(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("No hay una caja chica configurada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualiza la configuracion de la caja chica activa
// @Tags caja-chica
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ActualizarCajaRequest true "Campos a actualizar"
// @Success 200 {object} dto.CajaChicaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja-chica [patch]
func (h *CajaChicaHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarConfiguracion(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Saldo godoc
// @Summary Saldo teorico actual de la caja chica
// @Tags caja-chica
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SaldoResponse
// @Router /v1/caja-chica/saldo [get]
func (h *CajaChicaHandler) Saldo(c *gin.Context) {
	resp, err := h.svc.Saldo(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Registrar godoc
// @Summary Registra un gasto, reposicion o ajuste en la caja chica
// @Tags caja-chica
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarTransaccionRequest true "Transaccion"
// @Success 201 {object} dto.TransaccionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja-chica/transacciones [post]
func (h *CajaChicaHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarTransaccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), actorDe(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista las transacciones del periodo activo
// @Tags caja-chica
// @Produce json
// @Security BearerAuth
// @Param tipo query string false "Filtrar por tipo"
// @Param desde query string false "Fecha desde (YYYY-MM-DD)"
// @Param hasta query string false "Fecha hasta (YYYY-MM-DD)"
// @Success 200 {object} dto.TransaccionListResponse
// @Router /v1/caja-chica/transacciones [get]
func (h *CajaChicaHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	f := dto.TransaccionFilter{
		Tipo:  c.Query("tipo"),
		Page:  page,
		Limit: limit,
	}
	if desde := c.Query("desde"); desde != "" {
		f.Desde = &desde
	}
	if hasta := c.Query("hasta"); hasta != "" {
		f.Hasta = &hasta
	}

	resp, err := h.svc.ListarTransacciones(c.Request.Context(), f)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Renovar godoc
// @Summary Cierra el periodo activo y abre el sucesor con el saldo traspasado
// @Tags caja-chica
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RenovarCajaRequest true "Datos de renovacion"
// @Success 200 {object} dto.RenovacionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja-chica/renovar [post]
func (h *CajaChicaHandler) Renovar(c *gin.Context) {
	var req dto.RenovarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.renovacion.Renovar(c.Request.Context(), actorDe(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary Reconstruye un periodo historico: configuracion, libro y cierres
// @Tags caja-chica
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del periodo"
// @Success 200 {object} dto.HistorialCajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja-chica/{id}/historial [get]
func (h *CajaChicaHandler) Historial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Historial(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cadena godoc
// @Summary Recorre la cadena de periodos hacia atras desde el indicado
// @Tags caja-chica
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del periodo de partida"
// @Success 200 {array} dto.EslabonCadena
// @Router /v1/caja-chica/{id}/cadena [get]
func (h *CajaChicaHandler) Cadena(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Cadena(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Incompletas lists closed periods whose successor never materialized.
func (h *CajaChicaHandler) Incompletas(c *gin.Context) {
	resp, err := h.renovacion.DetectarIncompletas(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
