package httpapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	app "prawn-diagnosis/internal/application"
	"prawn-diagnosis/internal/domain/entity"
	"prawn-diagnosis/internal/domain/port"
	"prawn-diagnosis/internal/infrastructure/storage"
)

const (
	multipartMemory   = 32 << 20
	imageField        = "prawn_image"
	inspectFileField  = "file"
	reportDisposition = "attachment; filename=diagnosis_report.pdf"
)

// Diagnoser выполняет полную диагностику.
type Diagnoser interface {
	Diagnose(ctx context.Context, req app.DiagnosisRequest) (*app.DiagnosisOutput, error)
}

// ImageInspector классифицирует изображение; ошибка попадает в результат.
type ImageInspector interface {
	Inspect(ctx context.Context, imageData []byte, opts entity.ClassifyOptions) *entity.DetectionResult
}

// Handler обслуживает API диагностики.
type Handler struct {
	diagnoser Diagnoser
	inspector ImageInspector
	sensors   port.SensorSource
	uploads   *storage.UploadStore
}

func NewHandler(diagnoser Diagnoser, inspector ImageInspector, sensors port.SensorSource, uploads *storage.UploadStore) *Handler {
	return &Handler{
		diagnoser: diagnoser,
		inspector: inspector,
		sensors:   sensors,
		uploads:   uploads,
	}
}

// Root проверка живости.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Prawn Diagnosis API is running"})
}

// ReadSensor возвращает текущее показание датчика воды.
func (h *Handler) ReadSensor(c *gin.Context) {
	c.JSON(http.StatusOK, h.sensors.Current())
}

// Diagnosis оценивает анкету и отдаёт PDF-отчёт.
func (h *Handler) Diagnosis(c *gin.Context) {
	if status, err := parseForm(c); err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	q, err := parseQuestionnaire(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := app.DiagnosisRequest{Questionnaire: q}

	fh, err := c.FormFile(imageField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image upload"})
		return
	default:
		staged, status, err := h.stage(fh)
		if err != nil {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		defer h.discard(c.Request.Context(), staged)

		if req.Image, err = staged.ReadAll(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded image"})
			return
		}
	}

	out, err := h.diagnoser.Diagnose(c.Request.Context(), req)
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("diagnosis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create report"})
		return
	}

	c.Header("Content-Disposition", reportDisposition)
	c.Data(http.StatusOK, "application/pdf", out.Document)
}

// DiagnoseImage классифицирует изображение и возвращает сводку.
func (h *Handler) DiagnoseImage(c *gin.Context) {
	if status, err := parseForm(c); err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	opts, err := parseClassifyOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fh, err := c.FormFile(inspectFileField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("form file %q is required", inspectFileField)})
		return
	}

	staged, status, err := h.stage(fh)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	defer h.discard(c.Request.Context(), staged)

	data, err := staged.ReadAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded image"})
		return
	}

	c.JSON(http.StatusOK, h.inspector.Inspect(c.Request.Context(), data, opts))
}

func (h *Handler) stage(fh *multipart.FileHeader) (*storage.StagedFile, int, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("invalid image upload")
	}
	defer f.Close()

	staged, err := h.uploads.Stage(f, fh.Filename)
	if errors.Is(err, storage.ErrTooLarge) {
		return nil, http.StatusRequestEntityTooLarge, err
	}
	if err != nil {
		return nil, http.StatusInternalServerError, errors.New("failed to store upload")
	}
	return staged, 0, nil
}

func (h *Handler) discard(ctx context.Context, staged *storage.StagedFile) {
	if err := staged.Remove(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", staged.Path).Msg("failed to remove staged upload")
	}
}

// parseForm читает тело заранее, чтобы слишком большой запрос
// не выглядел как пропущенные поля.
func parseForm(c *gin.Context) (int, error) {
	err := c.Request.ParseMultipartForm(multipartMemory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return 0, nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
	}
	return http.StatusBadRequest, errors.New("malformed form data")
}

func parseQuestionnaire(c *gin.Context) (entity.QuestionnaireResponse, error) {
	var q entity.QuestionnaireResponse
	for i := range q.Answers {
		field := fmt.Sprintf("q%d", i+1)
		raw, ok := c.GetPostForm(field)
		if !ok || strings.TrimSpace(raw) == "" {
			return q, fmt.Errorf("field %s is required", field)
		}
		v, err := parseFormBool(raw)
		if err != nil {
			return q, fmt.Errorf("field %s: %w", field, err)
		}
		q.Answers[i] = v
	}
	return q, nil
}

func parseFormBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "t", "1", "yes", "y", "on":
		return true, nil
	case "false", "f", "0", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", raw)
}

func parseClassifyOptions(c *gin.Context) (entity.ClassifyOptions, error) {
	opts := entity.DefaultClassifyOptions

	var err error
	if opts.Confidence, err = percentField(c, "confidence", opts.Confidence); err != nil {
		return opts, err
	}
	if opts.Overlap, err = percentField(c, "overlap", opts.Overlap); err != nil {
		return opts, err
	}
	return opts, nil
}

func percentField(c *gin.Context, field string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > 100 {
		return 0, fmt.Errorf("field %s must be a number between 0 and 100", field)
	}
	return int(math.Round(v)), nil
}
