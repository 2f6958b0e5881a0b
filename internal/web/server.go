// Package web serves the task list as HTML pages and a JSON REST API.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"github.com/runoshun/tasklist/internal/app"
	"github.com/runoshun/tasklist/internal/domain"
	"github.com/runoshun/tasklist/internal/infra/logging"
)

// startupGrace is how long Start waits for an immediate listen failure.
const startupGrace = 100 * time.Millisecond

// sessionCookieName is the cookie carrying the session id.
const sessionCookieName = "tasklist_session"

// Server is the HTTP front end for the task use cases.
type Server struct {
	app       *fiber.App
	container *app.Container
	sessions  *session.Store
	tmpl      *template.Template
	logger    domain.Logger
	mu        sync.Mutex // Serializes requests; the repository is single-threaded
}

// New builds the fiber application with its middleware and routes.
func New(c *app.Container) (*Server, error) {
	cfg := c.AppConfig
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}

	key := cfg.Server.SecretKey
	if key == "" {
		key = encryptcookie.GenerateKey()
		c.Logger.Warn(0, "http", "no server.secret_key configured; using a random key, sessions end on restart")
	} else if _, err := domain.DecodeSecretKey(key); err != nil {
		return nil, err
	}

	s := &Server{
		container: c,
		logger:    c.Logger,
		tmpl:      newTemplates(),
		sessions: session.New(session.Config{
			KeyLookup:      "cookie:" + sessionCookieName,
			KeyGenerator:   uuid.NewString,
			CookieHTTPOnly: true,
			CookieSameSite: fiber.CookieSameSiteLaxMode,
			Expiration:     24 * time.Hour,
		}),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "tasklist",
		DisableStartupMessage: true,
		// Form values end up stored in the repository
		Immutable:    true,
		ErrorHandler: s.errorHandler,
		JSONEncoder:  encodeJSON,
	})

	// Global middleware
	s.app.Use(recover.New())
	if cfg.Log.Requests {
		s.app.Use(logger.New(logger.Config{
			Format: "${status} - ${latency} ${method} ${path}\n",
			Output: logging.NewLineWriter(c.Logger, "http"),
		}))
	}
	s.app.Use(encryptcookie.New(encryptcookie.Config{Key: key}))
	s.app.Use(s.serialize)

	s.setupRoutes()
	return s, nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check
	s.app.Get("/health", s.health)

	// HTML pages and form actions
	s.app.Get("/", s.index)
	s.app.Post("/task/create", s.createTaskForm)
	s.app.Post("/task/:id/complete", s.completeTaskForm)
	s.app.Post("/task/:id/reopen", s.reopenTaskForm)
	s.app.Post("/task/:id/delete", s.deleteTaskForm)

	// REST API
	api := s.app.Group("/api")
	api.Get("/tasks", s.apiListTasks)
	api.Post("/tasks", s.apiCreateTask)
	api.Get("/stats", s.apiStats)
	api.Get("/task/:id", s.apiGetTask)
	api.Put("/task/:id", s.apiUpdateTask)
	api.Patch("/task/:id", s.apiUpdateTask)
	api.Delete("/task/:id", s.apiDeleteTask)
	api.Post("/task/:id/complete", s.apiCompleteTask)
	api.Post("/task/:id/reopen", s.apiReopenTask)

	// Anything else
	s.app.Use(func(_ *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}

// App returns the fiber app (for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens on addr in the background. It returns an error when the
// listener fails right away (for example, address already in use). Later
// listener failures are logged.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	case <-time.After(startupGrace):
		s.logger.Info(0, "http", "listening on "+addr)
		go s.watchListener(errCh)
		return nil
	case <-ctx.Done():
		go s.watchListener(errCh)
		return ctx.Err()
	}
}

// watchListener logs the listener's exit error, if any.
func (s *Server) watchListener(errCh <-chan error) {
	if err := <-errCh; err != nil {
		s.logger.Error(0, "http", "server stopped: "+err.Error())
	}
}

// Shutdown waits for in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(0, "http", "shutting down")
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}

// serialize runs one request at a time.
func (s *Server) serialize(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.Next()
}

func (s *Server) health(c *fiber.Ctx) error {
	stats := s.container.Tasks.Statistics()
	return c.JSON(fiber.Map{
		"status": "ok",
		"tasks":  stats.Total,
	})
}

// errorHandler renders errors that escaped a handler: JSON under /api,
// an HTML page elsewhere.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error(0, "http", fmt.Sprintf("%s %s: %v", c.Method(), c.Path(), err))
	}

	if isAPIRequest(c) {
		msg := "internal server error"
		if code == fiber.StatusNotFound {
			msg = "not found"
		} else if fe != nil && code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
		return c.Status(code).JSON(errorResponse{Error: msg})
	}

	data := errorPage{Title: "Something went wrong", Message: "An unexpected error occurred. Please try again."}
	if code == fiber.StatusNotFound {
		data = errorPage{Title: "Page not found", Message: "The page you are looking for does not exist."}
	}
	var buf bytes.Buffer
	if tmplErr := s.tmpl.ExecuteTemplate(&buf, "error", data); tmplErr != nil {
		return c.Status(code).SendString(data.Title)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(code).Send(buf.Bytes())
}

type errorPage struct {
	Title   string
	Message string
}

func isAPIRequest(c *fiber.Ctx) bool {
	return c.Path() == "/api" || strings.HasPrefix(c.Path(), "/api/")
}

// parseID reads the :id route parameter. Values that are not positive
// integers do not match any task route and yield 404.
func parseID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return id, nil
}

// encodeJSON marshals without HTML escaping so titles round-trip verbatim.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
