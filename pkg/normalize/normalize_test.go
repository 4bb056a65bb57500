package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/erp-inventario/pkg/normalize"
)

func TestFold_QuitaAcentosYMayusculas(t *testing.T) {
	assert.Equal(t, "SN-N001", normalize.Fold("  sn-ñ001 "))
	assert.Equal(t, "CAMION-03", normalize.Fold("camión-03"))
	assert.Equal(t, "", normalize.Fold("   "))
}

func TestEqual_ComparaNormalizado(t *testing.T) {
	assert.True(t, normalize.Equal("  ñu-01 ", "NU-01"))
	assert.False(t, normalize.Equal("NU-01", "NU-02"))
}
