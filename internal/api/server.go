package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nicolas44373/clientes/internal/customers"
	"github.com/nicolas44373/clientes/internal/domain"
	"github.com/nicolas44373/clientes/internal/due"
)

// Customers is the application service behind the HTTP handlers.
type Customers interface {
	Load(ctx context.Context) error
	EnsureLoaded(ctx context.Context) error
	View(f due.Filter) customers.View
	Get(ctx context.Context, code int) (domain.Enriched, []domain.DateEntry, error)
	Add(ctx context.Context, c domain.Customer) (domain.Enriched, error)
	Update(ctx context.Context, code int, u domain.CustomerUpdate) (domain.Enriched, error)
	Delete(ctx context.Context, code int) error
	AddDate(ctx context.Context, code int, date string) (domain.DateEntry, error)
	DeleteDate(ctx context.Context, code int, id string) error
}

// Config wraps the knobs that impact runtime behavior.
type Config struct {
	Addr string
}

// Server exposes the Fiber application.
type Server struct {
	app *fiber.App
	svc Customers
	cfg Config
}

// customerJSON adds display fields to an enriched customer.
type customerJSON struct {
	domain.Enriched
	DueDateText string `json:"dueDateText"`
	DueStatus   string `json:"dueStatus"`
}

func present(records []domain.Enriched) []customerJSON {
	out := make([]customerJSON, 0, len(records))
	for _, r := range records {
		out = append(out, presentOne(r))
	}
	return out
}

func presentOne(r domain.Enriched) customerJSON {
	return customerJSON{Enriched: r, DueDateText: due.FormatDate(r.DueDate), DueStatus: due.StatusText(r)}
}

// NewServer wires handlers and middleware.
func NewServer(cfg Config, svc Customers) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Format: "${time} | ${status} | ${latency} | ${method} ${path}\n"}))
	app.Use(cors.New())

	srv := &Server{app: app, svc: svc, cfg: cfg}
	srv.registerRoutes()
	return srv
}

// Run starts listening for HTTP traffic until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.app.Shutdown()
	}()

	log.Printf("customer service listening on %s", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api/v1", s.ensureLoaded)
	api.Get("/statuses", s.handleStatuses)
	api.Get("/customers", s.handleListCustomers)
	api.Get("/customers/due", s.handleNearDue)
	api.Post("/customers/reload", s.handleReload)
	api.Get("/customers/:code", s.handleGetCustomer)
	api.Post("/customers", s.handleCreateCustomer)
	api.Patch("/customers/:code", s.handleUpdateCustomer)
	api.Delete("/customers/:code", s.handleDeleteCustomer)
	api.Post("/customers/:code/dates", s.handleAddDate)
	api.Delete("/customers/:code/dates/:id", s.handleDeleteDate)
}

// ensureLoaded performs the initial fetch. A failure is logged and the
// request continues; handlers report it through the view notice.
func (s *Server) ensureLoaded(c *fiber.Ctx) error {
	if err := s.svc.EnsureLoaded(c.UserContext()); err != nil {
		log.Printf("initial load: %v", err)
	}
	return c.Next()
}

func (s *Server) handleStatuses(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": domain.Statuses, "meta": fiber.Map{"all": domain.StatusAll}})
}

func (s *Server) handleListCustomers(c *fiber.Ctx) error {
	var f due.Filter
	if err := c.QueryParser(&f); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid filter")
	}
	view := s.svc.View(f)

	body := fiber.Map{
		"data": present(view.Items),
		"meta": fiber.Map{"count": len(view.Items), "total": view.Total, "nearDue": len(view.NearDue)},
	}
	if view.Notice != "" {
		body["notice"] = view.Notice
	}
	return c.JSON(body)
}

func (s *Server) handleNearDue(c *fiber.Ctx) error {
	view := s.svc.View(due.Filter{})
	return c.JSON(fiber.Map{
		"data": present(view.NearDue),
		"meta": fiber.Map{"count": len(view.NearDue)},
	})
}

func (s *Server) handleReload(c *fiber.Ctx) error {
	if err := s.svc.Load(c.UserContext()); err != nil {
		view := s.svc.View(due.Filter{})
		if view.Notice == "" {
			return httpError(err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"notice": view.Notice, "meta": fiber.Map{"total": view.Total}})
	}
	return c.JSON(fiber.Map{"meta": fiber.Map{"total": s.svc.View(due.Filter{}).Total}})
}

func (s *Server) handleGetCustomer(c *fiber.Ctx) error {
	code, err := c.ParamsInt("code")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer code")
	}
	rec, dates, err := s.svc.Get(c.UserContext(), code)
	if err != nil {
		return httpError(err)
	}
	if dates == nil {
		dates = []domain.DateEntry{}
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"customer": presentOne(rec), "dates": dates}})
}

func (s *Server) handleCreateCustomer(c *fiber.Ctx) error {
	var payload domain.Customer
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	rec, err := s.svc.Add(c.UserContext(), payload)
	if err != nil {
		return httpError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": presentOne(rec)})
}

func (s *Server) handleUpdateCustomer(c *fiber.Ctx) error {
	code, err := c.ParamsInt("code")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer code")
	}
	var payload domain.CustomerUpdate
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	rec, err := s.svc.Update(c.UserContext(), code, payload)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(fiber.Map{"data": presentOne(rec)})
}

func (s *Server) handleDeleteCustomer(c *fiber.Ctx) error {
	code, err := c.ParamsInt("code")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer code")
	}
	if err := s.svc.Delete(c.UserContext(), code); err != nil {
		return httpError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleAddDate(c *fiber.Ctx) error {
	code, err := c.ParamsInt("code")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer code")
	}
	var payload struct {
		Date string `json:"date"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	entry, err := s.svc.AddDate(c.UserContext(), code, payload.Date)
	if err != nil {
		return httpError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": entry})
}

func (s *Server) handleDeleteDate(c *fiber.Ctx) error {
	code, err := c.ParamsInt("code")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer code")
	}
	if err := s.svc.DeleteDate(c.UserContext(), code, c.Params("id")); err != nil {
		return httpError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// httpError maps service errors onto HTTP status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("store: %v", err))
	}
}
