package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"gymstock/internal/config"
	"gymstock/internal/domain"
	"gymstock/internal/http/handlers"
	applog "gymstock/internal/log"
	"gymstock/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, cfg)
	auth := deps.Auth

	api := app.Group("/api/v1")

	// Auth routes (login throttled)
	api.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, retry later"})
		},
	}), deps.AuthHandler.Login)
	api.Post("/logout", deps.AuthHandler.Logout)
	api.Post("/register", deps.AuthHandler.Register)
	api.Get("/me", deps.AuthHandler.Me)

	anyRole := handlers.RequireRole(auth, domain.RoleAdmin, domain.RoleManager, domain.RoleStudent)
	staff := handlers.RequireRole(auth, domain.RoleAdmin, domain.RoleManager)
	managerOnly := handlers.RequireRole(auth, domain.RoleManager)
	adminOnly := handlers.RequireRole(auth, domain.RoleAdmin)
	studentOnly := handlers.RequireRole(auth, domain.RoleStudent)

	// Equipment
	api.Get("/equipment/available", anyRole, deps.EquipmentHandler.ListAvailable)
	api.Get("/equipment/damaged", staff, deps.EquipmentHandler.ListDamaged)
	api.Get("/equipment", staff, deps.EquipmentHandler.List)
	api.Post("/equipment", managerOnly, deps.EquipmentHandler.Create)
	api.Put("/equipment/:id", managerOnly, deps.EquipmentHandler.Update)
	api.Delete("/equipment/:id", managerOnly, deps.EquipmentHandler.Delete)
	api.Post("/equipment/:id/damage", managerOnly, deps.EquipmentHandler.MarkDamaged)

	// Issue / return lifecycle
	api.Post("/issues", managerOnly, deps.IssueHandler.Issue)
	api.Get("/issues", staff, deps.IssueHandler.ListIssued)
	api.Post("/issues/:id/return", managerOnly, deps.IssueHandler.Return)
	api.Get("/overdue", staff, deps.IssueHandler.ListOverdue)
	api.Get("/logs", staff, deps.IssueHandler.ListLogs)

	// Borrow requests
	api.Post("/requests", studentOnly, deps.RequestHandler.Submit)
	api.Get("/requests", anyRole, deps.RequestHandler.List)
	api.Post("/requests/:id/approve", managerOnly, deps.RequestHandler.Approve)
	api.Post("/requests/:id/deny", managerOnly, deps.RequestHandler.Deny)

	// Stock transfers, decided by the admin
	api.Post("/moves", managerOnly, deps.RequestHandler.SubmitMove)
	api.Get("/moves", staff, deps.RequestHandler.ListMoves)
	api.Post("/moves/:id/approve", adminOnly, deps.RequestHandler.ApproveMove)
	api.Post("/moves/:id/reject", adminOnly, deps.RequestHandler.RejectMove)

	// Feedback
	api.Post("/feedback", studentOnly, deps.FeedbackHandler.Submit)
	api.Get("/feedback/mine", studentOnly, deps.FeedbackHandler.Mine)

	// Procurement
	api.Post("/procurement", managerOnly, deps.ProcurementHandler.Intake)
	api.Get("/procurement", staff, deps.ProcurementHandler.ListEntries)
	api.Get("/procurement/spend", staff, deps.ProcurementHandler.TotalSpend)
	api.Get("/procurement/previous-year", staff, deps.ProcurementHandler.PreviousYear)

	// Admin
	admin := api.Group("/admin", adminOnly)
	admin.Get("/stats", deps.AdminHandler.Dashboard)
	admin.Get("/users", deps.AdminHandler.UsersPage)
	admin.Post("/managers", deps.AdminHandler.CreateManager)
	admin.Delete("/users/:id", deps.AdminHandler.DeleteUser)
	admin.Get("/feedback", deps.AdminHandler.FeedbackPage)
	admin.Post("/feedback/:id/status", deps.AdminHandler.UpdateFeedbackStatus)
	admin.Delete("/feedback/:id", deps.AdminHandler.DeleteFeedback)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
