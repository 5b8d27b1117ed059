package model_test

import (
	"testing"

	"condocaja/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestEtiquetaCategoria(t *testing.T) {
	assert.Equal(t, "Mantenimiento", model.EtiquetaCategoria("mantenimiento"))
	assert.Equal(t, "Servicios (agua, luz, gas)", model.EtiquetaCategoria("servicios"))
	// Unknown keys render as themselves
	assert.Equal(t, "alberca", model.EtiquetaCategoria("alberca"))
}

func TestCategoriaValida(t *testing.T) {
	assert.True(t, model.CategoriaValida("limpieza"))
	assert.True(t, model.CategoriaValida("otros"))
	assert.False(t, model.CategoriaValida("alberca"))
	assert.False(t, model.CategoriaValida(""))
}
