package freight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegionLabels(t *testing.T) {
	t.Parallel()

	// État : état → macro-région → national
	assert.Equal(t, []string{"SP", "SUDESTE", "BR"}, RegionLabels("sp"))
	assert.Equal(t, []string{"BA", "NORDESTE", "BR"}, RegionLabels(" BA "))

	// Macro-région directe
	assert.Equal(t, []string{"SUL", "BR"}, RegionLabels("SUL"))

	// Indice vide ou national : repli national seul
	assert.Equal(t, []string{"BR"}, RegionLabels(""))
	assert.Equal(t, []string{"BR"}, RegionLabels("BR"))

	// Libellé inconnu interrogé tel quel avant le repli
	assert.Equal(t, []string{"XX", "BR"}, RegionLabels("XX"))
}

func TestCarrierSLADays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, CarrierSLADays("SEDEX"))
	assert.Equal(t, 3, CarrierSLADays(" sedex "))
	assert.Equal(t, 7, CarrierSLADays("TRANSPORTADORA_INCONNUE"))
}
