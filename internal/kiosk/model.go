// Package kiosk é a interface de terminal do assistente "Sumate", usada em
// pontos de inscrição presenciais.
package kiosk

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gestaozabele/campanha/internal/intake"
	"github.com/gestaozabele/campanha/internal/schema"
	"github.com/gestaozabele/campanha/internal/site"
)

const submitTimeout = 20 * time.Second

// CountMsg traz um novo total de simpatizantes.
type CountMsg int64

type submitMsg struct {
	sub *intake.Submission
	err error
}

var stepTitles = map[intake.Step]string{
	intake.Step1A: "¿Dónde vivís?",
	intake.Step1B: "Elegí tu barrio o localidad",
	intake.Step2:  "¿Cuántos son en tu familia?",
	intake.Step3:  "¿Cuál es tu edad?",
	intake.Step4:  "Tus datos",
}

var fieldLabels = [...]string{"Nombre", "Cédula (opcional)", "Teléfono"}

// Model é o modelo bubbletea que conduz um intake.Wizard.
type Model struct {
	wizard *intake.Wizard
	styles Styles

	cursor     int
	inputs     []textinput.Model
	focus      int
	submitting bool
	toast      string
	result     *intake.Submission
	count      int64
	hasCount   bool
}

// New cria o modelo com o tema informado.
func New(w *intake.Wizard, theme site.Theme) Model {
	inputs := make([]textinput.Model, len(fieldLabels))
	for i, label := range fieldLabels {
		ti := textinput.New()
		ti.Placeholder = label
		ti.CharLimit = 120
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[0].Focus()

	return Model{wizard: w, styles: NewStyles(theme), inputs: inputs}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CountMsg:
		m.count = int64(msg)
		m.hasCount = true
		return m, nil

	case submitMsg:
		m.submitting = false
		if msg.err != nil {
			m.toast = errorText(msg.err)
			return m, nil
		}
		m.result = msg.sub
		m.toast = ""
		m.cursor = 0
		m.resetInputs()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.submitting {
			return m, nil
		}
		if m.result != nil {
			if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
				m.result = nil
			}
			return m, nil
		}
		m.toast = ""
		if m.wizard.Step() == intake.Step4 {
			return m.updateIdentity(msg)
		}
		return m.updateChoice(msg), nil
	}

	if m.submitting {
		return m, nil
	}
	if m.wizard.Step() == intake.Step4 {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateChoice(msg tea.KeyMsg) Model {
	options := m.wizard.Options()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case "esc", "left":
		if m.wizard.Back() {
			m.cursor = 0
		}
	case "enter", "right":
		if len(options) == 0 {
			return m
		}
		if m.choose(options[m.cursor]) && m.wizard.Next() {
			m.cursor = 0
			if m.wizard.Step() == intake.Step4 {
				m.focusInput(0)
			}
		}
	}
	return m
}

func (m Model) choose(option string) bool {
	switch m.wizard.Step() {
	case intake.Step1A:
		return m.wizard.SetNeighborhoodType(option)
	case intake.Step1B:
		return m.wizard.SetNeighborhood(option)
	case intake.Step2:
		return m.wizard.SetFamilySize(option)
	case intake.Step3:
		return m.wizard.SetAgeRange(option)
	}
	return false
}

func (m Model) updateIdentity(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.wizard.Back()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.focusInput((m.focus + 1) % len(m.inputs))
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focusInput((m.focus + len(m.inputs) - 1) % len(m.inputs))
		return m, nil
	case tea.KeyEnter:
		if m.focus < len(m.inputs)-1 {
			m.focusInput(m.focus + 1)
			return m, nil
		}
		m.wizard.SetIdentity(m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value())
		m.submitting = true
		return m, submit(m.wizard)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// submit roda fora do loop de eventos; enquanto submitting estiver ativo o
// modelo não toca no assistente.
func submit(w *intake.Wizard) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		sub, err := w.Submit(ctx)
		return submitMsg{sub: sub, err: err}
	}
}

func (m *Model) focusInput(i int) {
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	m.focus = i
}

func (m *Model) resetInputs() {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.focusInput(0)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Sumate a la Lista 1"))
	if m.hasCount {
		b.WriteString("  " + m.styles.Counter.Render(fmt.Sprintf("%d simpatizantes", m.count)))
	}
	b.WriteString("\n")

	switch {
	case m.submitting:
		b.WriteString("\n" + m.styles.Muted.Render("Enviando...") + "\n")
		return b.String()
	case m.result != nil:
		b.WriteString("\n" + m.styles.Success.Render(fmt.Sprintf("¡Gracias, %s!", m.result.Supporter.Name)) + "\n")
		b.WriteString("Escribinos por WhatsApp:\n" + m.result.URL + "\n\n")
		b.WriteString(m.styles.Muted.Render("[Enter] nueva inscripción") + "\n")
		return b.String()
	}

	step := m.wizard.Step()
	b.WriteString(m.styles.Step.Render(fmt.Sprintf("Paso %s · %s", step, stepTitles[step])) + "\n\n")

	if step == intake.Step4 {
		for i, in := range m.inputs {
			b.WriteString(fmt.Sprintf("%-18s %s\n", fieldLabels[i], in.View()))
		}
	} else {
		for i, opt := range m.wizard.Options() {
			if i == m.cursor {
				b.WriteString(m.styles.Selected.Render(opt) + "\n")
			} else {
				b.WriteString(m.styles.Option.Render(opt) + "\n")
			}
		}
	}

	if m.toast != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.toast) + "\n")
	}
	b.WriteString("\n" + m.styles.Muted.Render("[↑/↓] elegir  [Enter] seguir  [Esc] volver  [Ctrl+C] salir") + "\n")
	return b.String()
}

func errorText(err error) string {
	if verr, ok := schema.AsValidation(err); ok {
		return verr.Message
	}
	return "No se pudo enviar la inscripción. Intentá de nuevo."
}
