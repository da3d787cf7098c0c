package schema

import "strings"

const (
	ThemeColorado = "colorado"
	ThemeAlianza  = "alianza"
)

// Themes lista as paletas suportadas pelo site.
var Themes = []string{ThemeColorado, ThemeAlianza}

// IsTheme indica se a paleta existe.
func IsTheme(theme string) bool {
	return contains(Themes, strings.ToLower(strings.TrimSpace(theme)))
}

// DefaultHomeContent devolve os textos usados enquanto nada foi salvo.
func DefaultHomeContent() HomeContent {
	return HomeContent{
		HeroTitle:           "CONSTRUYENDO EL FUTURO JUNTOS.",
		HeroSubtitle:        "Unimos fuerzas por un Carlos Antonio López transparente, moderno y lleno de oportunidades para cada familia.",
		AllianceName:        "ALIANZA POR EL CAMBIO",
		AllianceMovement:    "ALIANZA POR EL PROGRESO 2026",
		CandidateName:       "Candidato Lista 1",
		CandidateRole:       "Opción a Concejal Municipal",
		CandidateListNumber: "AL",
		Theme:               ThemeColorado,
		CandidateBio:        "Vecino de toda la vida, comprometido con el desarrollo de nuestras compañías y barrios. Creo en una gestión cercana, transparente y con resultados concretos.",
		TransparencyText:    "Publicaremos informes trimestrales de gestión accesibles a todos los vecinos.",
	}
}

// Validate confere o conteúdo completo antes do upsert.
func (h *HomeContent) Validate() error {
	h.HeroTitle = normalizeText(h.HeroTitle)
	h.HeroSubtitle = normalizeText(h.HeroSubtitle)
	h.AllianceName = normalizeText(h.AllianceName)
	h.AllianceMovement = normalizeText(h.AllianceMovement)
	h.CandidateName = normalizeText(h.CandidateName)
	h.CandidateRole = normalizeText(h.CandidateRole)
	h.CandidateListNumber = normalizeText(h.CandidateListNumber)
	h.CandidateBio = normalizeText(h.CandidateBio)
	h.TransparencyText = normalizeText(h.TransparencyText)
	h.HeroImage = optionalText(h.HeroImage)
	h.CandidateImage = optionalText(h.CandidateImage)
	h.Theme = strings.ToLower(normalizeText(h.Theme))

	if err := firstError(
		required("heroTitle", h.HeroTitle, "El título principal es obligatorio"),
		required("heroSubtitle", h.HeroSubtitle, "El subtítulo es obligatorio"),
		required("allianceName", h.AllianceName, "El nombre de la alianza es obligatorio"),
		required("allianceMovement", h.AllianceMovement, "El movimiento es obligatorio"),
		required("candidateName", h.CandidateName, "El nombre del candidato es obligatorio"),
		required("candidateRole", h.CandidateRole, "El cargo es obligatorio"),
		required("candidateListNumber", h.CandidateListNumber, "El número de lista es obligatorio"),
		required("candidateBio", h.CandidateBio, "La biografía es obligatoria"),
		required("transparencyText", h.TransparencyText, "El texto de transparencia es obligatorio"),
	); err != nil {
		return err
	}
	if !IsTheme(h.Theme) {
		return invalid("theme", "Tema desconocido")
	}
	return nil
}
