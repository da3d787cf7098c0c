// Package intake implementa o assistente de inscrição de simpatizantes:
// a máquina de estados, o cliente da API e o contador periódico.
package intake

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gestaozabele/campanha/internal/schema"
)

// Step é uma etapa do assistente.
type Step int

const (
	Step1A Step = iota // tipo de localidade
	Step1B             // localidade dentro do tipo
	Step2              // tamanho da família
	Step3              // faixa etária
	Step4              // identificação e envio
)

func (s Step) String() string {
	switch s {
	case Step1A:
		return "1A"
	case Step1B:
		return "1B"
	case Step2:
		return "2"
	case Step3:
		return "3"
	case Step4:
		return "4"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// ErrNotReady indica envio fora da última etapa.
var ErrNotReady = errors.New("intake: assistente ainda não está na etapa final")

// SupporterCreator envia a inscrição ao servidor.
type SupporterCreator interface {
	CreateSupporter(ctx context.Context, in schema.SupporterInput) (schema.Supporter, error)
}

// Opener abre o link externo de mensagem (navegador, WhatsApp, terminal).
type Opener interface {
	Open(link string) error
}

// CountInvalidator descarta o total de simpatizantes em cache.
type CountInvalidator interface {
	Invalidate()
}

// Submission é o resultado de um envio bem-sucedido.
type Submission struct {
	Supporter schema.Supporter
	Message   string
	URL       string
}

// Wizard guarda o estado acumulado entre as etapas. Não é seguro para uso
// concorrente; cada sessão de inscrição tem o seu.
type Wizard struct {
	step             Step
	neighborhoodType string
	neighborhood     string
	familySize       string
	ageRange         string
	name             string
	cedula           string
	phone            string

	creator     SupporterCreator
	opener      Opener
	counter     CountInvalidator
	phoneNumber string
}

// Config liga o assistente aos colaboradores externos.
type Config struct {
	Creator SupporterCreator
	Opener  Opener
	Counter CountInvalidator
	// WhatsAppNumber é o número da campanha no formato internacional, só dígitos.
	WhatsAppNumber string
}

// ErrNoRecipient indica que não há número de WhatsApp da campanha para o link.
var ErrNoRecipient = errors.New("intake: número de WhatsApp da campanha ausente ou inválido")

// Validate confere os colaboradores obrigatórios. O número precisa ter entre
// 8 e 15 dígitos (E.164 sem o +).
func (c Config) Validate() error {
	if c.Creator == nil {
		return errors.New("intake: Creator obrigatório")
	}
	if n := len(digitsOnly(c.WhatsAppNumber)); n < 8 || n > 15 {
		return ErrNoRecipient
	}
	return nil
}

// New cria um assistente na etapa inicial.
func New(cfg Config) *Wizard {
	return &Wizard{
		creator:     cfg.Creator,
		opener:      cfg.Opener,
		counter:     cfg.Counter,
		phoneNumber: digitsOnly(cfg.WhatsAppNumber),
	}
}

func (w *Wizard) Step() Step               { return w.step }
func (w *Wizard) NeighborhoodType() string { return w.neighborhoodType }
func (w *Wizard) Neighborhood() string     { return w.neighborhood }
func (w *Wizard) FamilySize() string       { return w.familySize }
func (w *Wizard) AgeRange() string         { return w.ageRange }
func (w *Wizard) Name() string             { return w.name }
func (w *Wizard) Cedula() string           { return w.cedula }
func (w *Wizard) Phone() string            { return w.phone }

// Options devolve as escolhas válidas da etapa atual.
func (w *Wizard) Options() []string {
	switch w.step {
	case Step1A:
		return append([]string(nil), schema.ZoneTypes...)
	case Step1B:
		return schema.Neighborhoods(w.neighborhoodType)
	case Step2:
		return append([]string(nil), schema.FamilySizes...)
	case Step3:
		return append([]string(nil), schema.AgeRanges...)
	default:
		return nil
	}
}

// SetNeighborhoodType escolhe o tipo de localidade. Trocar o tipo apaga a
// localidade escolhida antes. Tipos desconhecidos são ignorados.
func (w *Wizard) SetNeighborhoodType(zoneType string) bool {
	canonical, ok := schema.CanonicalZoneType(zoneType)
	if !ok {
		return false
	}
	if canonical != w.neighborhoodType {
		w.neighborhood = ""
	}
	w.neighborhoodType = canonical
	return true
}

// SetNeighborhood só aceita localidades da lista do tipo escolhido.
func (w *Wizard) SetNeighborhood(name string) bool {
	for _, n := range schema.Neighborhoods(w.neighborhoodType) {
		if n == strings.TrimSpace(name) {
			w.neighborhood = n
			return true
		}
	}
	return false
}

func (w *Wizard) SetFamilySize(v string) bool {
	if !schema.IsFamilySize(v) {
		return false
	}
	w.familySize = canonicalBucket(schema.FamilySizes, v)
	return true
}

func (w *Wizard) SetAgeRange(v string) bool {
	if !schema.IsAgeRange(v) {
		return false
	}
	w.ageRange = canonicalBucket(schema.AgeRanges, v)
	return true
}

// SetIdentity grava os campos da etapa final.
func (w *Wizard) SetIdentity(name, cedula, phone string) {
	w.name = name
	w.cedula = cedula
	w.phone = phone
}

// Next avança se o campo da etapa atual estiver preenchido; caso contrário
// não faz nada.
func (w *Wizard) Next() bool {
	switch w.step {
	case Step1A:
		if w.neighborhoodType == "" {
			return false
		}
	case Step1B:
		if w.neighborhood == "" {
			return false
		}
	case Step2:
		if w.familySize == "" {
			return false
		}
	case Step3:
		if w.ageRange == "" {
			return false
		}
	default:
		return false
	}
	w.step++
	return true
}

// Back volta uma etapa; de 1B volta para 1A e de 2 volta para 1B.
func (w *Wizard) Back() bool {
	if w.step == Step1A {
		return false
	}
	w.step--
	return true
}

// Reset descarta tudo e volta para a etapa inicial.
func (w *Wizard) Reset() {
	*w = Wizard{creator: w.creator, opener: w.opener, counter: w.counter, phoneNumber: w.phoneNumber}
}

// Input monta o registro acumulado.
func (w *Wizard) Input() schema.SupporterInput {
	return schema.SupporterInput{
		Name:             w.name,
		NeighborhoodType: w.neighborhoodType,
		Neighborhood:     w.neighborhood,
		Phone:            w.phone,
		Cedula:           w.cedula,
		FamilySize:       w.familySize,
		AgeRange:         w.ageRange,
		Origin:           schema.DefaultOrigin,
	}
}

// Submit valida e envia a inscrição. Em caso de erro o estado é mantido para
// nova tentativa; em caso de sucesso o total em cache é descartado, o link de
// mensagem é aberto e o assistente volta ao início.
func (w *Wizard) Submit(ctx context.Context) (*Submission, error) {
	if w.step != Step4 {
		return nil, ErrNotReady
	}

	in := w.Input()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := in.ValidateZone(); err != nil {
		return nil, err
	}

	supporter, err := w.creator.CreateSupporter(ctx, in)
	if err != nil {
		return nil, err
	}

	if w.counter != nil {
		w.counter.Invalidate()
	}

	msg := Greeting(supporter.Name, supporter.NeighborhoodType, supporter.Neighborhood)
	sub := &Submission{Supporter: supporter, Message: msg, URL: DeepLink(w.phoneNumber, msg)}
	if w.opener != nil {
		// a inscrição já foi gravada; falha ao abrir o link não desfaz o envio
		_ = w.opener.Open(sub.URL)
	}
	w.Reset()
	return sub, nil
}

// Greeting monta a mensagem de apresentação enviada à campanha.
func Greeting(name, neighborhoodType, neighborhood string) string {
	return fmt.Sprintf("Hola, soy %s de %s %s. Quiero sumarme al equipo.", name, neighborhoodType, neighborhood)
}

// DeepLink monta o link wa.me com o texto codificado.
func DeepLink(phone, message string) string {
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + digitsOnly(phone) + "?text=" + text
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func canonicalBucket(list []string, v string) string {
	v = strings.ReplaceAll(strings.TrimSpace(v), "-", "–")
	for _, item := range list {
		if item == v {
			return item
		}
	}
	return v
}
