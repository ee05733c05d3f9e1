package freight

import (
	"strings"

	"farmavida_back_end/internal/models"
)

// macroRegions - macro-région de chacun des 27 états, pour le repli
// état → macro-région → national lors de la résolution des règles.
var macroRegions = map[string]string{
	"AC": "NORTE", "AP": "NORTE", "AM": "NORTE", "PA": "NORTE",
	"RO": "NORTE", "RR": "NORTE", "TO": "NORTE",
	"AL": "NORDESTE", "BA": "NORDESTE", "CE": "NORDESTE", "MA": "NORDESTE",
	"PB": "NORDESTE", "PE": "NORDESTE", "PI": "NORDESTE", "RN": "NORDESTE",
	"SE": "NORDESTE",
	"DF": "CENTRO-OESTE", "GO": "CENTRO-OESTE", "MT": "CENTRO-OESTE", "MS": "CENTRO-OESTE",
	"ES": "SUDESTE", "MG": "SUDESTE", "RJ": "SUDESTE", "SP": "SUDESTE",
	"PR": "SUL", "RS": "SUL", "SC": "SUL",
}

func isMacroRegion(label string) bool {
	for _, macro := range macroRegions {
		if macro == label {
			return true
		}
	}
	return false
}

// RegionLabels retourne les libellés à interroger, du plus précis au plus
// large. Un libellé inconnu est interrogé tel quel avant le repli national.
func RegionLabels(hint string) []string {
	label := strings.ToUpper(strings.TrimSpace(hint))

	switch {
	case label == "" || label == models.RegionCountryWide:
		return []string{models.RegionCountryWide}
	case isMacroRegion(label):
		return []string{label, models.RegionCountryWide}
	default:
		labels := []string{label}
		if macro, ok := macroRegions[label]; ok {
			labels = append(labels, macro)
		}
		return append(labels, models.RegionCountryWide)
	}
}

// carrierDefaultSLA - délais par défaut par transporteur, utilisés pour
// départager des règles au même prix et pour les expéditions issues de la
// table de règles (qui ne porte pas de délai).
var carrierDefaultSLA = map[string]int{
	"SEDEX":    3,
	"PAC":      8,
	"JADLOG":   5,
	"LOGGI":    2,
	"CORREIOS": 7,
}

const defaultSLADays = 7

// CarrierSLADays retourne le délai par défaut du transporteur.
func CarrierSLADays(carrier string) int {
	if days, ok := carrierDefaultSLA[strings.ToUpper(strings.TrimSpace(carrier))]; ok {
		return days
	}
	return defaultSLADays
}
