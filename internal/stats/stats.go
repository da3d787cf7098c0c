// Package stats agrega os simpatizantes para o painel administrativo.
package stats

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gestaozabele/campanha/internal/schema"
)

// TopLimit é o tamanho do ranking de bairros.
const TopLimit = 5

// familyMidpoints aproxima cada faixa de tamanho de família pelo ponto médio.
var familyMidpoints = map[string]float64{
	"1–2": 1.5,
	"3–4": 3.5,
	"5–6": 5.5,
	"7+":  8,
}

// NeighborhoodCount é uma barra do gráfico por bairro.
type NeighborhoodCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Summary é o resumo exibido no painel.
type Summary struct {
	Total            int                 `json:"total"`
	Over18           int                 `json:"over18"`
	Under18          int                 `json:"under18"`
	AvgFamilySize    float64             `json:"avgFamilySize"`
	ByNeighborhood   []NeighborhoodCount `json:"neighborhoodData"`
	TopNeighborhoods []NeighborhoodCount `json:"topNeighborhoods"`
	Neighborhoods    []string            `json:"neighborhoods"`
}

// Compute calcula o resumo. Toda faixa etária diferente de 16–17 conta como
// habilitada a votar, inclusive cadastros sem faixa.
func Compute(supporters []schema.Supporter) Summary {
	sum := Summary{
		Total:            len(supporters),
		ByNeighborhood:   []NeighborhoodCount{},
		TopNeighborhoods: []NeighborhoodCount{},
		Neighborhoods:    []string{},
	}

	counts := make(map[string]int)
	var familyTotal float64
	var familyCount int

	for _, s := range supporters {
		counts[s.Neighborhood]++

		if bucket(s.AgeRange) == schema.UnderAgeRange {
			sum.Under18++
		} else {
			sum.Over18++
		}

		if mid, ok := familyMidpoints[bucket(s.FamilySize)]; ok {
			familyTotal += mid
			familyCount++
		}
	}

	if familyCount > 0 {
		sum.AvgFamilySize = math.Round(familyTotal/float64(familyCount)*10) / 10
	}

	col := collate.New(language.Spanish)
	for name, value := range counts {
		sum.ByNeighborhood = append(sum.ByNeighborhood, NeighborhoodCount{Name: name, Value: value})
		if name != "" {
			sum.Neighborhoods = append(sum.Neighborhoods, name)
		}
	}
	sort.Slice(sum.ByNeighborhood, func(i, j int) bool {
		a, b := sum.ByNeighborhood[i], sum.ByNeighborhood[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return col.CompareString(a.Name, b.Name) < 0
	})
	col.SortStrings(sum.Neighborhoods)

	top := sum.ByNeighborhood
	if len(top) > TopLimit {
		top = top[:TopLimit]
	}
	sum.TopNeighborhoods = append(sum.TopNeighborhoods, top...)
	return sum
}

func bucket(v string) string {
	return strings.ReplaceAll(strings.TrimSpace(v), "-", "–")
}
