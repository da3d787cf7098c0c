package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// ValidationError descreve a primeira violação encontrada num payload.
type ValidationError struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// AsValidation extrai um *ValidationError da cadeia de erros.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func required(field, value, message string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, message)
	}
	return nil
}

// firstError devolve o primeiro erro não nulo.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Date aceita "2006-01-02", RFC3339 ou data/hora sem fuso no JSON de entrada.
type Date struct {
	time.Time
	set   bool
	valid bool
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// NewDate monta uma data já validada.
func NewDate(t time.Time) Date {
	return Date{Time: t, set: true, valid: true}
}

// ParseDate converte texto em Date; o resultado é inválido quando nenhum layout casa.
func ParseDate(raw string) Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Date{Time: t.UTC(), set: true, valid: true}
		}
	}
	return Date{set: true}
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		*d = Date{set: true}
		return nil
	}
	*d = ParseDate(raw)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.set || !d.valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

func (d Date) validate(field string) error {
	if !d.set {
		return invalid(field, "La fecha es obligatoria")
	}
	if !d.valid {
		return invalid(field, "Fecha inválida")
	}
	return nil
}

// SupporterInput é o corpo aceito em POST /api/supporters.
type SupporterInput struct {
	Name             string  `json:"name"`
	NeighborhoodType string  `json:"neighborhoodType"`
	Neighborhood     string  `json:"neighborhood"`
	Phone            string  `json:"phone"`
	Cedula           string  `json:"cedula"`
	FamilySize       string  `json:"familySize"`
	AgeRange         string  `json:"ageRange"`
	Status           string  `json:"status"`
	Origin           string  `json:"origin"`
	Message          *string `json:"message,omitempty"`
}

// Normalize aplica trims e os defaults das colunas.
func (in *SupporterInput) Normalize() {
	in.Name = normalizeText(in.Name)
	in.Neighborhood = normalizeText(in.Neighborhood)
	in.Phone = normalizeText(in.Phone)
	in.Cedula = normalizeText(in.Cedula)
	in.FamilySize = normalizeBucket(in.FamilySize)
	in.AgeRange = normalizeBucket(in.AgeRange)
	in.Status = normalizeText(in.Status)
	in.Origin = normalizeText(in.Origin)

	in.NeighborhoodType = normalizeText(in.NeighborhoodType)
	if in.NeighborhoodType == "" {
		in.NeighborhoodType = ZoneBarrio
	} else if canonical, ok := CanonicalZoneType(in.NeighborhoodType); ok {
		in.NeighborhoodType = canonical
	}
	if in.Status == "" {
		in.Status = DefaultStatus
	}
	if in.Origin == "" {
		in.Origin = DefaultOrigin
	}
	if in.Message != nil {
		msg := strings.TrimSpace(*in.Message)
		if msg == "" {
			in.Message = nil
		} else {
			in.Message = &msg
		}
	}
}

// Validate verifica os campos obrigatórios; categorias e faixas ficam abertas neste nível.
func (in *SupporterInput) Validate() error {
	in.Normalize()
	return firstError(
		required("name", in.Name, "El nombre es obligatorio"),
		required("neighborhood", in.Neighborhood, "El barrio o localidad es obligatorio"),
		required("phone", in.Phone, "El teléfono es obligatorio"),
	)
}

// ValidateZone confere a localidade contra a lista fechada do tipo escolhido.
func (in *SupporterInput) ValidateZone() error {
	if _, ok := CanonicalZoneType(in.NeighborhoodType); !ok {
		return invalid("neighborhoodType", "Tipo de zona desconocido")
	}
	if !IsNeighborhoodOf(in.NeighborhoodType, in.Neighborhood) {
		return invalid("neighborhood", "El barrio no corresponde al tipo de zona")
	}
	return nil
}

// ActivityInput é o corpo de criação/edição de atividades.
type ActivityInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        Date    `json:"date"`
	ImageURL    *string `json:"imageUrl"`
}

func (in *ActivityInput) Validate() error {
	in.Title = normalizeText(in.Title)
	in.Description = normalizeText(in.Description)
	in.ImageURL = optionalText(in.ImageURL)
	return firstError(
		required("title", in.Title, "El título es obligatorio"),
		required("description", in.Description, "La descripción es obligatoria"),
		in.Date.validate("date"),
	)
}

// NewsInput é o corpo de criação/edição de notícias; a data é do servidor.
type NewsInput struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"imageUrl"`
}

func (in *NewsInput) Validate() error {
	in.Title = normalizeText(in.Title)
	in.Content = normalizeText(in.Content)
	in.ImageURL = optionalText(in.ImageURL)
	return firstError(
		required("title", in.Title, "El título es obligatorio"),
		required("content", in.Content, "El contenido es obligatorio"),
	)
}

// ProposalInput é o corpo de criação/edição de propostas.
type ProposalInput struct {
	Title    string `json:"title"`
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
	Category string `json:"category"`
}

func (in *ProposalInput) Validate() error {
	in.Title = normalizeText(in.Title)
	in.Problem = normalizeText(in.Problem)
	in.Solution = normalizeText(in.Solution)
	in.Category = normalizeText(in.Category)
	return firstError(
		required("title", in.Title, "El título es obligatorio"),
		required("category", in.Category, "La categoría es obligatoria"),
	)
}

// EventInput é o corpo de criação/edição de eventos.
type EventInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        Date   `json:"date"`
	Location    string `json:"location"`
}

func (in *EventInput) Validate() error {
	in.Title = normalizeText(in.Title)
	in.Description = normalizeText(in.Description)
	in.Location = normalizeText(in.Location)
	return firstError(
		required("title", in.Title, "El título es obligatorio"),
		required("description", in.Description, "La descripción es obligatoria"),
		in.Date.validate("date"),
		required("location", in.Location, "El lugar es obligatorio"),
	)
}

// UserInput é o corpo de registro de contas.
type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (in *UserInput) Validate() error {
	in.Username = strings.ToLower(normalizeText(in.Username))
	if err := required("username", in.Username, "El usuario es obligatorio"); err != nil {
		return err
	}
	if utf8.RuneCountInString(in.Password) < 8 {
		return invalid("password", "La contraseña debe tener al menos 8 caracteres")
	}
	return nil
}

func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	s := normalizeText(*v)
	if s == "" {
		return nil
	}
	return &s
}
