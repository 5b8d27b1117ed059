package money_test

import (
	"testing"

	"condocaja/internal/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestACentavos(t *testing.T) {
	assert.Equal(t, int64(15050), money.ACentavos(decimal.NewFromFloat(150.50)))
	assert.Equal(t, int64(100000), money.ACentavos(decimal.NewFromInt(1000)))
	assert.Equal(t, int64(-950), money.ACentavos(decimal.NewFromFloat(-9.50)))
	// Sub-centavo input rounds instead of truncating
	assert.Equal(t, int64(1001), money.ACentavos(decimal.NewFromFloat(10.009)))
}

func TestAPesos(t *testing.T) {
	assert.Equal(t, "849.5", money.APesos(84950).String())
	assert.Equal(t, "-9.5", money.APesos(-950).String())
	assert.True(t, money.APesos(0).IsZero())
}

func TestIdaYVuelta(t *testing.T) {
	for _, v := range []float64{0, 0.01, 150.50, 999999.99, -42.42} {
		d := decimal.NewFromFloat(v)
		assert.True(t, d.Equal(money.APesos(money.ACentavos(d))), "valor %v", v)
	}
}
