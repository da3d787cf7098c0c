package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/campanha/internal/repo"
	"github.com/gestaozabele/campanha/internal/schema"
	"github.com/gestaozabele/campanha/internal/stats"
)

// CreateSupporter recebe a inscrição do assistente público.
func (h *Handler) CreateSupporter(w http.ResponseWriter, r *http.Request) {
	var in schema.SupporterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if h.cfg.StrictNeighborhoods {
		if err := in.ValidateZone(); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	supporter, err := h.store.CreateSupporter(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info().Int64("supporter_id", supporter.ID).Str("neighborhood", supporter.Neighborhood).Msg("nuevo simpatizante")
	WriteJSON(w, http.StatusCreated, supporter)
}

// CountSupporters devolve o total atual.
func (h *Handler) CountSupporters(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.CountSupporters(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"count": n})
}

// ListSupporters lista com filtros opcionais q, neighborhood e ageRange.
func (h *Handler) ListSupporters(w http.ResponseWriter, r *http.Request) {
	supporters, err := h.store.ListSupporters(r.Context(), supporterFilter(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, supporters)
}

// SupporterStats devolve o resumo do painel.
func (h *Handler) SupporterStats(w http.ResponseWriter, r *http.Request) {
	supporters, err := h.store.ListSupporters(r.Context(), repo.SupporterFilter{})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats.Compute(supporters))
}

type supporterCSV struct {
	Name             string `csv:"Nombre"`
	Neighborhood     string `csv:"Barrio"`
	NeighborhoodType string `csv:"Tipo de Zona"`
	Phone            string `csv:"Teléfono"`
	Cedula           string `csv:"Cédula"`
	AgeRange         string `csv:"Edad"`
	FamilySize       string `csv:"Familia"`
	Message          string `csv:"Mensaje"`
	CreatedAt        string `csv:"Fecha"`
}

// ExportSupporters baixa a planilha de simpatizantes (respeita os filtros da listagem).
func (h *Handler) ExportSupporters(w http.ResponseWriter, r *http.Request) {
	supporters, err := h.store.ListSupporters(r.Context(), supporterFilter(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	rows := make([]supporterCSV, 0, len(supporters))
	for _, s := range supporters {
		row := supporterCSV{
			Name:             s.Name,
			Neighborhood:     s.Neighborhood,
			NeighborhoodType: s.NeighborhoodType,
			Phone:            s.Phone,
			Cedula:           s.Cedula,
			AgeRange:         s.AgeRange,
			FamilySize:       s.FamilySize,
		}
		if s.Message != nil {
			row.Message = *s.Message
		}
		if s.CreatedAt != nil {
			row.CreatedAt = s.CreatedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, row)
	}

	filename := "simpatizantes_" + h.now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := gocsv.Marshal(rows, w); err != nil {
		log.Error().Err(err).Msg("export csv")
	}
}

// Zones devolve as listas fechadas usadas pelo assistente.
func (h *Handler) Zones(w http.ResponseWriter, r *http.Request) {
	type zone struct {
		Type          string   `json:"type"`
		Neighborhoods []string `json:"neighborhoods"`
	}
	zones := make([]zone, 0, len(schema.ZoneTypes))
	for _, t := range schema.ZoneTypes {
		zones = append(zones, zone{Type: t, Neighborhoods: schema.Neighborhoods(t)})
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"zones":       zones,
		"familySizes": schema.FamilySizes,
		"ageRanges":   schema.AgeRanges,
	})
}

func supporterFilter(r *http.Request) repo.SupporterFilter {
	q := r.URL.Query()
	pick := func(key string) string {
		v := strings.TrimSpace(q.Get(key))
		if strings.EqualFold(v, "all") {
			return ""
		}
		return v
	}
	return repo.SupporterFilter{
		Search:       pick("q"),
		Neighborhood: pick("neighborhood"),
		AgeRange:     pick("ageRange"),
	}
}
