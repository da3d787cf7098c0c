package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/campanha/internal/intake"
	"github.com/gestaozabele/campanha/internal/kiosk"
	"github.com/gestaozabele/campanha/internal/site"
)

func main() {
	_ = godotenv.Load()

	apiURL := flag.String("api", envOr("SUMATE_API_URL", "http://localhost:8080"), "URL base da API")
	phone := flag.String("whatsapp", envOr("SUMATE_WHATSAPP", ""), "número de WhatsApp da campanha (obrigatório)")
	theme := flag.String("theme", envOr("DEFAULT_THEME", ""), "tema de cores (colorado ou alianza)")
	open := flag.Bool("open", false, "abrir o link do WhatsApp no navegador do sistema")
	poll := flag.Duration("poll", intake.DefaultPollInterval, "intervalo de leitura do contador")
	logFile := flag.String("log", "sumate.log", "arquivo de log")
	flag.Parse()

	if err := run(*apiURL, *phone, *theme, *open, *poll, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "sumate: %v\n", err)
		os.Exit(1)
	}
}

func run(apiURL, phone, theme string, open bool, poll time.Duration, logFile string) error {
	// a tela pertence ao bubbletea; logs vão para arquivo
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	log.Logger = zerolog.New(f).With().Timestamp().Logger()

	client, err := intake.NewClient(apiURL)
	if err != nil {
		return err
	}
	counter := intake.NewCounter(client, poll)

	cfg := intake.Config{Creator: client, Counter: counter, WhatsAppNumber: phone}
	if open {
		cfg.Opener = browserOpener{}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w (use -whatsapp ou SUMATE_WHATSAPP)", err)
	}
	wizard := intake.New(cfg)

	p := tea.NewProgram(kiosk.New(wizard, site.ResolveTheme(theme, "")), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go counter.Run(ctx, func(n int64) { p.Send(kiosk.CountMsg(n)) })

	_, err = p.Run()
	return err
}

type browserOpener struct{}

func (browserOpener) Open(link string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", link)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", link)
	default:
		cmd = exec.Command("xdg-open", link)
	}
	if err := cmd.Start(); err != nil {
		log.Warn().Err(err).Msg("falha ao abrir o link")
		return err
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
