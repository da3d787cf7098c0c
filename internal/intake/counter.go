package intake

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultPollInterval é o intervalo de releitura do total de inscritos.
const DefaultPollInterval = 30 * time.Second

// CountFetcher lê o total no servidor.
type CountFetcher interface {
	SupporterCount(ctx context.Context) (int64, error)
}

// Counter mantém o último total lido e o relê periodicamente ou quando
// invalidado após uma inscrição.
type Counter struct {
	fetcher  CountFetcher
	interval time.Duration

	mu      sync.RWMutex
	value   int64
	fetched bool
	kick    chan struct{}
}

// NewCounter cria o contador; interval <= 0 usa DefaultPollInterval.
func NewCounter(fetcher CountFetcher, interval time.Duration) *Counter {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Counter{fetcher: fetcher, interval: interval, kick: make(chan struct{}, 1)}
}

// Get devolve o último total lido e se já houve leitura.
func (c *Counter) Get() (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.fetched
}

// Invalidate marca o total como desatualizado e pede nova leitura.
func (c *Counter) Invalidate() {
	c.mu.Lock()
	c.fetched = false
	c.mu.Unlock()

	select {
	case c.kick <- struct{}{}:
	default:
	}
}

// Refresh lê o total agora.
func (c *Counter) Refresh(ctx context.Context) (int64, error) {
	n, err := c.fetcher.SupporterCount(ctx)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.value = n
	c.fetched = true
	c.mu.Unlock()
	return n, nil
}

// Run relê o total até ctx terminar. onUpdate, se não for nil, recebe cada
// leitura bem-sucedida.
func (c *Counter) Run(ctx context.Context, onUpdate func(int64)) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	refresh := func() {
		n, err := c.Refresh(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Msg("contador de simpatizantes: falha na leitura")
			}
			return
		}
		if onUpdate != nil {
			onUpdate(n)
		}
	}

	refresh()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		case <-c.kick:
			refresh()
		}
	}
}
