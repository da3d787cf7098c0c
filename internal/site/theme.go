package site

import (
	"strings"

	"github.com/gestaozabele/campanha/internal/schema"
)

// Theme é a paleta usada na renderização; é sempre passada explicitamente
// para o template.
type Theme struct {
	Name      string
	Label     string
	Primary   string
	Secondary string
	Accent    string
}

var themes = map[string]Theme{
	schema.ThemeColorado: {
		Name:      schema.ThemeColorado,
		Label:     "Colorado (Rojo)",
		Primary:   "#dc2626",
		Secondary: "#7f1d1d",
		Accent:    "#fef2f2",
	},
	schema.ThemeAlianza: {
		Name:      schema.ThemeAlianza,
		Label:     "Alianza (Naranja y Navy)",
		Primary:   "#f97316",
		Secondary: "#0f172a",
		Accent:    "#fff7ed",
	},
}

// ResolveTheme escolhe a paleta salva no conteúdo ou, se vazia ou
// desconhecida, a paleta padrão; por fim, colorado.
func ResolveTheme(saved, fallback string) Theme {
	for _, name := range []string{saved, fallback} {
		if t, ok := themes[strings.ToLower(strings.TrimSpace(name))]; ok {
			return t
		}
	}
	return themes[schema.ThemeColorado]
}
