package sensor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultPollInterval пауза между чтениями порта.
	DefaultPollInterval = time.Second
	maxLineLength       = 256
)

// Poller читает строки с датчика и кладёт валидные в кэш.
// Других писателей у кэша нет.
type Poller struct {
	device   io.Reader
	cache    *Cache
	interval time.Duration
	logger   zerolog.Logger

	// discarding выставлен, пока пропускаем хвост слишком длинной строки.
	discarding bool
}

func NewPoller(device io.Reader, cache *Cache, interval time.Duration, logger zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		device:   device,
		cache:    cache,
		interval: interval,
		logger:   logger,
	}
}

// Run опрашивает порт до отмены ctx. Чтение должно само отваливаться
// по таймауту, иначе отмена не будет замечена.
func (p *Poller) Run(ctx context.Context) error {
	buf := make([]byte, 128)
	var pending []byte

	p.logger.Info().Dur("interval", p.interval).Msg("sensor poller started")
	for {
		if err := ctx.Err(); err != nil {
			p.logger.Info().Msg("sensor poller stopped")
			return nil
		}

		n, err := p.device.Read(buf)
		if n > 0 {
			pending = p.consume(append(pending, buf[:n]...))
		}
		if err != nil && !errors.Is(err, io.EOF) {
			p.logger.Warn().Err(err).Msg("sensor read failed")
		}

		select {
		case <-ctx.Done():
		case <-time.After(p.interval):
		}
	}
}

// consume обрабатывает полные строки и возвращает незавершённый остаток.
func (p *Poller) consume(data []byte) []byte {
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		if p.discarding {
			p.discarding = false
		} else {
			p.handleLine(string(data[:i]))
		}
		data = data[i+1:]
	}

	if p.discarding {
		return nil
	}
	if len(data) > maxLineLength {
		p.logger.Warn().Int("bytes", len(data)).Msg("dropping oversized sensor line")
		p.discarding = true
		return nil
	}
	return data
}

func (p *Poller) handleLine(line string) {
	if len(line) > maxLineLength {
		p.logger.Warn().Int("bytes", len(line)).Msg("dropping oversized sensor line")
		return
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	reading, err := ParseLine(line)
	if err != nil {
		p.logger.Warn().Err(err).Str("line", line).Msg("invalid sensor data received")
		return
	}
	p.cache.Store(reading)
	p.logger.Debug().
		Float64("ph", reading.PH).
		Float64("tds", reading.TDS).
		Float64("temperature", reading.Temperature).
		Msg("sensor reading updated")
}
