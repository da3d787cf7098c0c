package schema

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	ZoneBarrio    = "Barrio"
	ZoneCompania  = "Compañía / Localidad"
	ZoneAsent     = "Asentamiento"
	ZoneIndigena  = "Comunidad Indígena"
	DefaultStatus = "nuevo"
	DefaultOrigin = "web_modal"
	UnderAgeRange = "16–17"
)

// ZoneTypes mantém a ordem de exibição das categorias de localidade.
var ZoneTypes = []string{ZoneBarrio, ZoneCompania, ZoneAsent, ZoneIndigena}

var zones = map[string][]string{
	ZoneBarrio: {
		"7 de Agosto", "Alegre", "Caacupemi", "Defensores del Chaco", "El Progreso",
		"Maestro Fermín López", "Maestro Fermín López Sub-Urbano", "Niño Jesús",
		"Residencial", "San Antonio de Padua", "San Francisco", "San Isidro",
		"San Isidro 2", "San Lorenzo", "San Lorenzo Sub-Urbano", "San Pedro",
		"San Roque", "San Valentín", "Santa Librada", "Tirol", "Virgen del Carmen",
	},
	ZoneCompania: {
		"Cruce Kimex", "Kressburgo", "Kressburgo Sub-Urbano", "Puerto López",
	},
	ZoneAsent: {
		"Asentamiento Guarapay", "Asentamiento Palmital", "Asentamiento Santa Catalina 7 de Agosto",
	},
	ZoneIndigena: {
		"Comunidad Indígena Arasa Poty", "Comunidad Indígena Kressburgo",
		"Comunidad Indígena Macutinga", "Comunidad Indígena Y’aka Marangatu",
	},
}

// FamilySizes são as faixas de tamanho de família oferecidas.
var FamilySizes = []string{"1–2", "3–4", "5–6", "7+"}

// AgeRanges são as faixas etárias oferecidas.
var AgeRanges = []string{UnderAgeRange, "18–25", "26–40", "41–60", "60+"}

// Neighborhoods devolve a lista fechada de localidades do tipo informado.
func Neighborhoods(zoneType string) []string {
	key, ok := CanonicalZoneType(zoneType)
	if !ok {
		return nil
	}
	out := make([]string, len(zones[key]))
	copy(out, zones[key])
	return out
}

// CanonicalZoneType resolve variações de escrita ("Compañía/Localidad") para o rótulo canônico.
func CanonicalZoneType(zoneType string) (string, bool) {
	needle := zoneKey(zoneType)
	if needle == "" {
		return "", false
	}
	for _, t := range ZoneTypes {
		if zoneKey(t) == needle {
			return t, true
		}
	}
	return "", false
}

// IsNeighborhoodOf indica se a localidade pertence à lista do tipo.
func IsNeighborhoodOf(zoneType, neighborhood string) bool {
	key, ok := CanonicalZoneType(zoneType)
	if !ok {
		return false
	}
	neighborhood = normalizeText(neighborhood)
	for _, n := range zones[key] {
		if n == neighborhood {
			return true
		}
	}
	return false
}

// IsFamilySize indica se o valor é uma das faixas de família.
func IsFamilySize(v string) bool {
	return contains(FamilySizes, normalizeBucket(v))
}

// IsAgeRange indica se o valor é uma das faixas etárias.
func IsAgeRange(v string) bool {
	return contains(AgeRanges, normalizeBucket(v))
}

func zoneKey(s string) string {
	s = normalizeText(s)
	s = strings.ReplaceAll(s, " ", "")
	return strings.ToLower(s)
}

func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// faixas digitadas com hífen comum viram travessão, como nas listas
func normalizeBucket(s string) string {
	return strings.ReplaceAll(normalizeText(s), "-", "–")
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
