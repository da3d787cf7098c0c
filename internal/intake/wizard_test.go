package intake

import (
	"context"
	"errors"
	"testing"

	"github.com/gestaozabele/campanha/internal/schema"
)

type stubCreator struct {
	got []schema.SupporterInput
	err error
}

func (s *stubCreator) CreateSupporter(ctx context.Context, in schema.SupporterInput) (schema.Supporter, error) {
	if s.err != nil {
		return schema.Supporter{}, s.err
	}
	s.got = append(s.got, in)
	return schema.Supporter{
		ID:               int64(len(s.got)),
		Name:             in.Name,
		NeighborhoodType: in.NeighborhoodType,
		Neighborhood:     in.Neighborhood,
		Phone:            in.Phone,
	}, nil
}

type stubOpener struct {
	links []string
	err   error
}

func (s *stubOpener) Open(link string) error {
	s.links = append(s.links, link)
	return s.err
}

type stubInvalidator struct{ calls int }

func (s *stubInvalidator) Invalidate() { s.calls++ }

// fillToFinalStep percorre o assistente até a etapa de identificação.
func fillToFinalStep(t *testing.T, w *Wizard) {
	t.Helper()
	steps := []func() bool{
		func() bool { return w.SetNeighborhoodType(schema.ZoneBarrio) },
		w.Next,
		func() bool { return w.SetNeighborhood("San Isidro") },
		w.Next,
		func() bool { return w.SetFamilySize("3-4") },
		w.Next,
		func() bool { return w.SetAgeRange("26–40") },
		w.Next,
	}
	for i, step := range steps {
		if !step() {
			t.Fatalf("step %d refused (at %s)", i, w.Step())
		}
	}
	if w.Step() != Step4 {
		t.Fatalf("expected step 4, got %s", w.Step())
	}
}

func TestNextRequiresCurrentField(t *testing.T) {
	w := New(Config{})
	if w.Next() || w.Step() != Step1A {
		t.Fatalf("next without a zone type must stay on 1A")
	}
	if w.SetNeighborhoodType("Ciudad") {
		t.Fatalf("unknown zone type accepted")
	}
	w.SetNeighborhoodType("compañía/localidad")
	if w.NeighborhoodType() != schema.ZoneCompania {
		t.Fatalf("expected canonical zone type, got %q", w.NeighborhoodType())
	}
	w.Next()

	if w.SetNeighborhood("San Isidro") {
		t.Fatalf("barrio accepted under Compañía")
	}
	if w.Next() {
		t.Fatalf("next without neighborhood must not advance")
	}
	if !w.SetNeighborhood("Puerto López") || !w.Next() || w.Step() != Step2 {
		t.Fatalf("expected to reach step 2, at %s", w.Step())
	}
	if w.SetFamilySize("muchos") || w.Next() {
		t.Fatalf("invalid family size advanced the wizard")
	}
}

func TestChangingZoneTypeClearsNeighborhood(t *testing.T) {
	w := New(Config{})
	w.SetNeighborhoodType(schema.ZoneBarrio)
	w.Next()
	w.SetNeighborhood("Tirol")

	w.Back()
	if w.Step() != Step1A {
		t.Fatalf("back from 1B must return to 1A, got %s", w.Step())
	}
	w.SetNeighborhoodType(schema.ZoneBarrio)
	if w.Neighborhood() != "Tirol" {
		t.Fatalf("same type must keep the neighborhood")
	}
	w.SetNeighborhoodType(schema.ZoneAsent)
	if w.Neighborhood() != "" {
		t.Fatalf("type change must clear the neighborhood, got %q", w.Neighborhood())
	}
}

func TestBackTransitions(t *testing.T) {
	w := New(Config{})
	if w.Back() {
		t.Fatalf("back on 1A must be a no-op")
	}
	fillToFinalStep(t, w)
	want := []Step{Step3, Step2, Step1B, Step1A}
	for _, s := range want {
		w.Back()
		if w.Step() != s {
			t.Fatalf("expected %s, got %s", s, w.Step())
		}
	}
	if w.AgeRange() != "26–40" || w.FamilySize() != "3–4" {
		t.Fatalf("going back must keep earlier answers")
	}
}

func TestSubmitBeforeFinalStep(t *testing.T) {
	w := New(Config{Creator: &stubCreator{}})
	if _, err := w.Submit(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestSubmitFailureKeepsState(t *testing.T) {
	creator := &stubCreator{}
	opener := &stubOpener{}
	w := New(Config{Creator: creator, Opener: opener})
	fillToFinalStep(t, w)

	w.SetIdentity("  ", "", "0981")
	_, err := w.Submit(context.Background())
	verr, ok := schema.AsValidation(err)
	if !ok || verr.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}

	creator.err = errors.New("sin conexión")
	w.SetIdentity("Ana Gómez", "", "0981 123456")
	if _, err := w.Submit(context.Background()); err == nil {
		t.Fatalf("expected transport error")
	}
	if w.Step() != Step4 || w.Name() != "Ana Gómez" || w.Neighborhood() != "San Isidro" {
		t.Fatalf("failed submit must keep the state")
	}
	if len(opener.links) != 0 {
		t.Fatalf("link must not open on failure")
	}
}

func TestSubmitSuccess(t *testing.T) {
	creator := &stubCreator{}
	opener := &stubOpener{err: errors.New("sin navegador")}
	counter := &stubInvalidator{}
	w := New(Config{Creator: creator, Opener: opener, Counter: counter, WhatsAppNumber: "+595 981 000 111"})
	fillToFinalStep(t, w)
	w.SetIdentity("Ana Gómez", "1234567", "0981 123456")

	sub, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(creator.got) != 1 {
		t.Fatalf("expected one create call, got %d", len(creator.got))
	}
	in := creator.got[0]
	if in.Origin != schema.DefaultOrigin || in.FamilySize != "3–4" || in.NeighborhoodType != schema.ZoneBarrio {
		t.Fatalf("unexpected payload %+v", in)
	}
	if counter.calls != 1 {
		t.Fatalf("expected count invalidation, got %d", counter.calls)
	}

	wantMsg := "Hola, soy Ana Gómez de Barrio San Isidro. Quiero sumarme al equipo."
	if sub.Message != wantMsg {
		t.Fatalf("unexpected message %q", sub.Message)
	}
	if len(opener.links) != 1 || opener.links[0] != sub.URL {
		t.Fatalf("expected link to be opened once, got %v", opener.links)
	}
	if w.Step() != Step1A || w.Name() != "" || w.NeighborhoodType() != "" {
		t.Fatalf("wizard must reset after success")
	}
}

func TestDeepLinkEncoding(t *testing.T) {
	got := DeepLink("+595 (981) 000-111", "Hola, soy Ana de Barrio Y’aka & más")
	want := "https://wa.me/595981000111?text=Hola%2C%20soy%20Ana%20de%20Barrio%20Y%E2%80%99aka%20%26%20m%C3%A1s"
	if got != want {
		t.Fatalf("DeepLink =\n%s\nwant\n%s", got, want)
	}
}

func TestStepString(t *testing.T) {
	if Step1B.String() != "1B" || Step4.String() != "4" || Step(9).String() != "Step(9)" {
		t.Fatalf("unexpected step labels")
	}
}

func TestConfigRequiresCampaignNumber(t *testing.T) {
	creator := &stubCreator{}
	cases := []struct {
		number string
		err    error
	}{
		{"", ErrNoRecipient},
		{"+595", ErrNoRecipient},
		{"+595 981 000 111", nil},
	}
	for _, tc := range cases {
		err := Config{Creator: creator, WhatsAppNumber: tc.number}.Validate()
		if !errors.Is(err, tc.err) {
			t.Fatalf("%q: expected %v, got %v", tc.number, tc.err, err)
		}
	}
	if err := (Config{WhatsAppNumber: "595981000111"}).Validate(); err == nil {
		t.Fatalf("expected missing creator to be rejected")
	}
}
