package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

const HeaderCacheStatus = "X-Cache"

type ScreenHandler struct {
	pipeline    services.PipelineService
	maxFileSize int64
}

func NewScreenHandler(pipeline services.PipelineService, maxFileSize int64) *ScreenHandler {
	return &ScreenHandler{
		pipeline:    pipeline,
		maxFileSize: maxFileSize,
	}
}

// HandleScreen handles POST /screen
func (h *ScreenHandler) HandleScreen(c *fiber.Ctx) error {
	resumeFile, err := c.FormFile("resume")
	if err != nil {
		return badRequest(c, "No resume file provided")
	}

	jobDescription := c.FormValue("job_description")
	if strings.TrimSpace(jobDescription) == "" {
		return badRequest(c, "No job description provided")
	}

	if !services.IsPDFFilename(resumeFile.Filename) {
		return badRequest(c, "Only PDF files are allowed")
	}

	if h.maxFileSize > 0 && resumeFile.Size > h.maxFileSize {
		return badRequest(c, fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	data, err := readFormFile(resumeFile)
	if err != nil {
		return badRequest(c, "Failed to read resume file")
	}

	ctx := logger.ContextWithRequestID(c.UserContext(), c.GetRespHeader(fiber.HeaderXRequestID))
	result, err := h.pipeline.Screen(ctx, models.ScreeningRequest{
		ResumePDF:      data,
		Filename:       resumeFile.Filename,
		JobDescription: jobDescription,
	})
	if err != nil {
		if services.IsInputError(err) {
			return badRequest(c, inputErrorMessage(err))
		}
		return err
	}

	c.Set(HeaderCacheStatus, string(result.Cache))
	return c.JSON(result)
}

func readFormFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read uploaded file")
	}
	return data, nil
}

func inputErrorMessage(err error) string {
	var missing *services.MissingInputError
	switch {
	case errors.As(err, &missing):
		return fmt.Sprintf("No %s provided", strings.ReplaceAll(missing.Field, "_", " "))
	case errors.Is(err, services.ErrEmptyResume):
		return "Could not extract text from PDF"
	case errors.Is(err, services.ErrExtraction):
		return "Could not read PDF file"
	case errors.Is(err, services.ErrUnsupportedFile):
		return "Only PDF files are allowed"
	default:
		return err.Error()
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: message,
	})
}
