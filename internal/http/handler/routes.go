package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"dealdocs/internal/audit"
	"dealdocs/internal/service"
)

// AuditScanner produces a corpus health report. Satisfied by audit.Runner.
type AuditScanner interface {
	Scan(ctx context.Context) (*audit.Report, error)
}

// HealthCheck reports readiness by pinging the database.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a plain 200 for orchestrator liveness checks.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// AuditReport runs a full corpus scan and returns the report. Reads the
// filesystem for every file-backed record, so it is not a cheap endpoint.
func AuditReport(scanner AuditScanner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := scanner.Scan(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(report)
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, docs service.DocumentService, iso service.IsolationService, scanner AuditScanner) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/deals/:dealID/documents", UploadDocument(docs))
	app.Get("/deals/:dealID/documents", ListDealDocuments(iso))
	app.Get("/deals/:dealID/documents/:id", GetDocument(docs))
	app.Get("/deals/:dealID/documents/:id/download", DownloadDocument(docs))
	app.Post("/deals/:dealID/documents/:id/move", MoveDocument(iso))
	app.Get("/deals/:dealID/documents/:id/history", DocumentHistory(iso))
	app.Delete("/deals/:dealID/documents/:id", DeleteDocument(docs))

	app.Get("/audit/documents", AuditReport(scanner))
}
