package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"prawn-diagnosis/config"
	httpapi "prawn-diagnosis/internal/api/http"
	"prawn-diagnosis/internal/api/telegram"
	app "prawn-diagnosis/internal/application"
	"prawn-diagnosis/internal/container"
	"prawn-diagnosis/internal/domain/port"
	"prawn-diagnosis/internal/infrastructure/llm"
	"prawn-diagnosis/internal/infrastructure/pdf"
	"prawn-diagnosis/internal/infrastructure/sensor"
	"prawn-diagnosis/internal/infrastructure/storage"
	"prawn-diagnosis/internal/infrastructure/vision"
)

const alertDrainTimeout = 30 * time.Second

var (
	envFile string
	addr    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "prawnd",
		Short:        "Serve the prawn diagnosis API",
		RunE:         runServer,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "Path to a dotenv file with settings")
	rootCmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides HTTP_ADDR")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.HTTPAddr = addr
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	if logger.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	cache := sensor.NewCache()

	var classifier port.ImageClassifier
	if cfg.RoboflowAPIKey != "" {
		roboflow, err := vision.NewRoboflowClassifier(vision.RoboflowConfig{
			BaseURL: cfg.RoboflowURL,
			APIKey:  cfg.RoboflowAPIKey,
			Model:   cfg.RoboflowModel,
			Version: cfg.RoboflowVersion,
		}, &http.Client{Timeout: cfg.ClassifierTimeout})
		if err != nil {
			return fmt.Errorf("create roboflow classifier: %w", err)
		}
		classifier = roboflow
	} else {
		logger.Warn().Msg("ROBOFLOW_API_KEY not set, image analysis disabled")
	}

	var narrator port.NarrativeGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiNarrator(ctx, llm.GeminiConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
		if err != nil {
			return fmt.Errorf("create gemini narrator: %w", err)
		}
		narrator = gemini
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set, reports will not include expert analysis")
	}

	var notifier port.AlertNotifier
	bot := connectTelegram(cfg.TelegramToken, telegram.Config{
		AlertChatID: cfg.TelegramChatID,
		Sensors:     cache,
		Logger:      logger.With().Str("component", "telegram").Logger(),
	}, logger)
	if bot != nil {
		notifier = bot
	}

	c := container.New(container.Deps{
		Sensors:    cache,
		Classifier: classifier,
		Normalizer: vision.NewGoCVNormalizer(),
		Narrator:   narrator,
		Renderer:   pdf.NewRenderer(),
		Notifier:   notifier,
		Engine: app.EngineConfig{
			GoodThreshold: cfg.GoodThreshold,
			PHMin:         cfg.PHMin,
			PHMax:         cfg.PHMax,
		},
		ClassifierTimeout: cfg.ClassifierTimeout,
		NarrativeTimeout:  cfg.NarrativeTimeout,
		Logger:            logger,
	})

	uploads, err := storage.NewUploadStore(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		return err
	}

	handler := httpapi.NewHandler(c.DiagnosisService, c.InspectionService, c.Sensors, uploads)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		// Запас под обёртку multipart и поля анкеты.
		MaxBodyBytes: cfg.MaxUploadBytes + 1<<20,
		Logger:       logger,
	})
	server := httpapi.NewServer(cfg.HTTPAddr, router, logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(ctx)
	})

	if cfg.SensorPort != "" {
		device, err := sensor.OpenSerial(cfg.SensorPort, cfg.SensorBaud)
		if err != nil {
			logger.Warn().Err(err).Msg("sensor unavailable, serving fallback readings")
		} else {
			defer device.Close()
			poller := sensor.NewPoller(device, cache, cfg.SensorPollInterval,
				logger.With().Str("component", "sensor").Str("port", cfg.SensorPort).Logger())
			g.Go(func() error {
				return poller.Run(ctx)
			})
		}
	} else {
		logger.Warn().Msg("SENSOR_PORT not set, serving fallback readings")
	}

	if bot != nil {
		bot.SetInspector(c.InspectionService)
		g.Go(func() error {
			return bot.Run(ctx)
		})
	}

	err = g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), alertDrainTimeout)
	defer cancel()
	if drainErr := c.DiagnosisService.Shutdown(shutdownCtx); drainErr != nil {
		logger.Warn().Err(drainErr).Msg("pending attention alerts abandoned")
	}
	return err
}

// connectTelegram возвращает nil, если бот не настроен или Telegram
// недоступен; API продолжает работать без оповещений.
func connectTelegram(token string, cfg telegram.Config, logger zerolog.Logger) *telegram.Bot {
	if token == "" {
		return nil
	}
	bot, err := telegram.NewBot(token, cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram unavailable, attention alerts disabled")
		return nil
	}
	return bot
}

func newLogger(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	var logger zerolog.Logger
	if strings.EqualFold(format, "console") {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(lvl).With().Timestamp().Logger(), nil
}
