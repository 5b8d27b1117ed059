package service_test

import (
	"testing"

	"condocaja/internal/model"
	"condocaja/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestCalcularSaldoVacio(t *testing.T) {
	assert.Equal(t, int64(0), service.CalcularSaldo(nil))
}

func TestCalcularSaldoFold(t *testing.T) {
	trans := []model.Transaccion{
		{Tipo: "inicial", Monto: 100000},
		{Tipo: "gasto", Monto: 15050},
		{Tipo: "reposicion", Monto: 10000},
		{Tipo: "ajuste", Monto: -950}, // faltante
		{Tipo: "ajuste", Monto: 200},  // sobrante
	}
	assert.Equal(t, int64(94200), service.CalcularSaldo(trans))
}

func TestCalcularSaldoOrdenIndependiente(t *testing.T) {
	a := []model.Transaccion{
		{Tipo: "inicial", Monto: 50000},
		{Tipo: "gasto", Monto: 12345},
		{Tipo: "reposicion", Monto: 700},
	}
	b := []model.Transaccion{a[2], a[0], a[1]}
	assert.Equal(t, service.CalcularSaldo(a), service.CalcularSaldo(b))
}
