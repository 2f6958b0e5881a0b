package web

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/runoshun/tasklist/internal/domain"
	"github.com/runoshun/tasklist/internal/usecase"
)

// Flash categories.
const (
	flashSuccess = "success"
	flashError   = "error"
	flashWarning = "warning"
	flashInfo    = "info"
)

// flashKey is the session key holding pending flash messages.
const flashKey = "flashes"

// flash is a one-shot message shown on the next page render.
type flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type indexPage struct {
	Filter  domain.TaskFilter
	Tasks   []*domain.Task
	Flashes []flash
	Stats   domain.Statistics
}

// index renders the task list.
func (s *Server) index(c *fiber.Ctx) error {
	out, err := s.container.ListTasksUseCase().Execute(c.UserContext(), usecase.ListTasksInput{
		Filter: domain.ParseTaskFilter(c.Query("filter")),
	})
	if err != nil {
		return err
	}

	data := indexPage{
		Filter:  out.Filter,
		Tasks:   out.Tasks,
		Stats:   out.Stats,
		Flashes: s.popFlashes(c),
	}
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index", data); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

// createTaskForm handles the create form.
func (s *Server) createTaskForm(c *fiber.Ctx) error {
	out, err := s.container.NewTaskUseCase().Execute(c.UserContext(), usecase.NewTaskInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
	})
	switch {
	case err == nil:
		s.addFlash(c, flashSuccess, fmt.Sprintf("Task %q created", out.Task.Title))
	case domain.KindOf(err) == domain.KindInvalidData:
		s.addFlash(c, flashError, err.Error())
	default:
		s.addFlash(c, flashError, "Unexpected error: "+err.Error())
	}
	return s.redirectHome(c)
}

// completeTaskForm handles the complete button.
func (s *Server) completeTaskForm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	out, err := s.container.CompleteTaskUseCase().Execute(c.UserContext(), usecase.CompleteTaskInput{TaskID: id})
	switch {
	case err == nil:
		s.addFlash(c, flashSuccess, fmt.Sprintf("Task %q marked as completed", out.Task.Title))
	case domain.KindOf(err) == domain.KindAlreadyCompleted:
		s.addFlash(c, flashWarning, err.Error())
	default:
		s.addFlash(c, flashError, err.Error())
	}
	return s.redirectHome(c)
}

// reopenTaskForm handles the reopen button.
func (s *Server) reopenTaskForm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	out, err := s.container.ReopenTaskUseCase().Execute(c.UserContext(), usecase.ReopenTaskInput{TaskID: id})
	switch {
	case err != nil:
		s.addFlash(c, flashError, err.Error())
	case out.WasPending:
		s.addFlash(c, flashInfo, "Task was already pending")
	default:
		s.addFlash(c, flashSuccess, fmt.Sprintf("Task %q marked as pending", out.Task.Title))
	}
	return s.redirectHome(c)
}

// deleteTaskForm handles the delete button.
func (s *Server) deleteTaskForm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if _, err := s.container.DeleteTaskUseCase().Execute(c.UserContext(), usecase.DeleteTaskInput{TaskID: id}); err != nil {
		s.addFlash(c, flashError, err.Error())
	} else {
		s.addFlash(c, flashSuccess, "Task deleted")
	}
	return s.redirectHome(c)
}

func (s *Server) redirectHome(c *fiber.Ctx) error {
	return c.Redirect("/", fiber.StatusSeeOther)
}

// addFlash queues a message for the next page render.
func (s *Server) addFlash(c *fiber.Ctx, category, message string) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		s.logger.Warn(0, "http", fmt.Sprintf("session unavailable: %v", err))
		return
	}
	flashes := append(decodeFlashes(sess.Get(flashKey)), flash{Category: category, Message: message})
	data, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	sess.Set(flashKey, string(data))
	if err := sess.Save(); err != nil {
		s.logger.Warn(0, "http", fmt.Sprintf("save session: %v", err))
	}
}

// popFlashes returns and clears the queued messages.
func (s *Server) popFlashes(c *fiber.Ctx) []flash {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return nil
	}
	flashes := decodeFlashes(sess.Get(flashKey))
	if len(flashes) > 0 {
		sess.Delete(flashKey)
		if err := sess.Save(); err != nil {
			s.logger.Warn(0, "http", fmt.Sprintf("save session: %v", err))
		}
	}
	return flashes
}

// decodeFlashes reads the session value written by addFlash. Anything
// unexpected yields no messages.
func decodeFlashes(v any) []flash {
	raw, ok := v.(string)
	if !ok || raw == "" {
		return nil
	}
	var flashes []flash
	if err := json.Unmarshal([]byte(raw), &flashes); err != nil {
		return nil
	}
	return flashes
}
