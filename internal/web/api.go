package web

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/runoshun/tasklist/internal/domain"
	"github.com/runoshun/tasklist/internal/usecase"
)

// errorResponse is the body of every API error.
type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps a domain error kind to an HTTP status code.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindInvalidData:
		return fiber.StatusBadRequest
	case domain.KindAlreadyCompleted:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// apiError writes err as a JSON error response.
func (s *Server) apiError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		s.logger.Error(0, "http", fmt.Sprintf("%s %s: %v", c.Method(), c.Path(), err))
	}
	return c.Status(status).JSON(errorResponse{Error: err.Error()})
}

// jsonObject decodes the request body as a JSON object. A missing,
// malformed or non-object body counts as an empty object.
func jsonObject(c *fiber.Ctx) map[string]any {
	var payload map[string]any
	if err := json.Unmarshal(c.Body(), &payload); err != nil || payload == nil {
		return map[string]any{}
	}
	return payload
}

// stringField returns payload[key] when it is a string.
func stringField(payload map[string]any, key string) *string {
	if v, ok := payload[key].(string); ok {
		return &v
	}
	return nil
}

// boolField returns payload[key] when it is a boolean.
func boolField(payload map[string]any, key string) *bool {
	if v, ok := payload[key].(bool); ok {
		return &v
	}
	return nil
}

func (s *Server) apiListTasks(c *fiber.Ctx) error {
	out, err := s.container.ListTasksUseCase().Execute(c.UserContext(), usecase.ListTasksInput{
		Filter: domain.ParseTaskFilter(c.Query("status")),
	})
	if err != nil {
		return s.apiError(c, err)
	}
	tasks := out.Tasks
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return c.JSON(tasks)
}

func (s *Server) apiCreateTask(c *fiber.Ctx) error {
	payload := jsonObject(c)
	in := usecase.NewTaskInput{}
	if title := stringField(payload, "title"); title != nil {
		in.Title = *title
	}
	if desc := stringField(payload, "description"); desc != nil {
		in.Description = *desc
	}

	out, err := s.container.NewTaskUseCase().Execute(c.UserContext(), in)
	if err != nil {
		return s.apiError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out.Task)
}

func (s *Server) apiGetTask(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	out, err := s.container.ShowTaskUseCase().Execute(c.UserContext(), usecase.ShowTaskInput{TaskID: id})
	if err != nil {
		return s.apiError(c, err)
	}
	return c.JSON(out.Task)
}

func (s *Server) apiUpdateTask(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	payload := jsonObject(c)
	out, err := s.container.EditTaskUseCase().Execute(c.UserContext(), usecase.EditTaskInput{
		TaskID:      id,
		Title:       stringField(payload, "title"),
		Description: stringField(payload, "description"),
		Completed:   boolField(payload, "completed"),
	})
	if err != nil {
		return s.apiError(c, err)
	}
	return c.JSON(out.Task)
}

func (s *Server) apiCompleteTask(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	out, err := s.container.CompleteTaskUseCase().Execute(c.UserContext(), usecase.CompleteTaskInput{TaskID: id})
	if err != nil {
		return s.apiError(c, err)
	}
	return c.JSON(out.Task)
}

func (s *Server) apiReopenTask(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	out, err := s.container.ReopenTaskUseCase().Execute(c.UserContext(), usecase.ReopenTaskInput{TaskID: id})
	if err != nil {
		return s.apiError(c, err)
	}
	return c.JSON(out.Task)
}

func (s *Server) apiDeleteTask(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if _, err := s.container.DeleteTaskUseCase().Execute(c.UserContext(), usecase.DeleteTaskInput{TaskID: id}); err != nil {
		return s.apiError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) apiStats(c *fiber.Ctx) error {
	out, err := s.container.TaskStatsUseCase().Execute(c.UserContext(), usecase.TaskStatsInput{})
	if err != nil {
		return s.apiError(c, err)
	}
	return c.JSON(out.Stats)
}
