package handler

import (
	"errors"
	"net/http"
	"reflect"

	"condocaja/internal/apierror"
	"condocaja/internal/middleware"
	"condocaja/internal/money"
	"condocaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// actorDe resolves the acting user from the JWT claims in the context.
func actorDe(c *gin.Context) service.Actor {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Actor{}
	}
	id, _ := uuid.Parse(claims.UserID)
	return service.Actor{ID: id, Nombre: claims.Nombre}
}

// responderError maps core errors to HTTP statuses. Not-found is 404,
// state conflicts are 409, everything else falls back to 400.
func responderError(c *gin.Context, err error) {
	var saldoErr *service.SaldoInsuficienteError
	if errors.As(err, &saldoErr) {
		c.JSON(http.StatusConflict, apierror.New(
			"Saldo insuficiente en la caja chica (saldo actual: $"+
				money.APesos(saldoErr.SaldoActual).StringFixed(2)+")"))
		return
	}

	switch {
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCajaNoActiva),
		errors.Is(err, service.ErrCajaYaActiva),
		errors.Is(err, service.ErrCierreTerminal),
		errors.Is(err, service.ErrActaPendiente),
		errors.Is(err, service.ErrSinCierreAprobado),
		errors.Is(err, service.ErrCierrePendiente),
		errors.Is(err, service.ErrSaldoNegativo),
		errors.Is(err, service.ErrRenovacionIncompleta):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
