package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	flogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
)

type AppConfig struct {
	BodyLimit int
	AccessLog bool
	Logger    *zap.Logger
}

// NewApp builds the fiber application with middleware and routes.
func NewApp(cfg AppConfig, screenHandler *ScreenHandler, healthHandler *HealthHandler) *fiber.App {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "AI Resume Screener API",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          180 * time.Second,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler(log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	if cfg.AccessLog {
		app.Use(flogger.New(flogger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${respHeader:X-Request-ID}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Routes
	app.Get("/", healthHandler.HandleRoot)
	app.Get("/health", healthHandler.HandleHealth)
	app.Get("/metrics", healthHandler.HandleMetrics)
	app.Post("/screen", screenHandler.HandleScreen)

	return app
}

func customErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("path", c.Path()),
				zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(models.ErrorResponse{
			Error: message,
			Code:  code,
		})
	}
}
