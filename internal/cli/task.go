package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/tasklist/internal/app"
	"github.com/runoshun/tasklist/internal/domain"
	"github.com/runoshun/tasklist/internal/usecase"
)

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new pending task.

The title is required and must be at most 200 characters after
surrounding whitespace is removed.

Examples:
  # Create a task
  tasklist new --title "Write report"

  # Create a task with a Markdown description
  tasklist new --title "Release" --body "$(cat <<'EOF'
- tag the release
- publish notes
EOF
)"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.NewTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.NewTaskInput{
				Title:       opts.Title,
				Description: opts.Description,
			})
			if out != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d\n", out.Task.ID)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// newListCommand creates the list command for listing tasks.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Output    string
		Pending   bool
		Completed bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `Display tasks in creation order.

Output formats:
  table  aligned columns ID, STATUS, CREATED, TITLE (default)
  json   array of task records
  yaml   sequence of task records

Examples:
  # List all tasks
  tasklist list

  # List only pending tasks as JSON
  tasklist list --pending -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(opts.Output, formatTable, formatJSON, formatYAML); err != nil {
				return err
			}

			filter := domain.FilterAll
			switch {
			case opts.Pending:
				filter = domain.FilterPending
			case opts.Completed:
				filter = domain.FilterCompleted
			}

			uc := c.ListTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ListTasksInput{Filter: filter})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch opts.Output {
			case formatJSON:
				return writeTasksJSON(w, out.Tasks)
			case formatYAML:
				return writeTasksYAML(w, out.Tasks)
			}

			if len(out.Tasks) == 0 {
				_, _ = fmt.Fprintln(w, "No tasks.")
				return nil
			}
			printTaskList(w, out.Tasks)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Pending, "pending", false, "Show only pending tasks")
	cmd.Flags().BoolVar(&opts.Completed, "completed", false, "Show only completed tasks")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", formatTable, "Output format: table, json, yaml")
	cmd.MarkFlagsMutuallyExclusive("pending", "completed")

	return cmd
}

// newShowCommand creates the show command for displaying task details.
func newShowCommand(c *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display task details",
		Long: `Display detailed information about a task.

In text format the description is rendered as Markdown when the
output is a terminal.

Examples:
  # Show task by ID
  tasklist show 1

  # Output in JSON format
  tasklist show 1 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output, formatText, formatJSON, formatYAML); err != nil {
				return err
			}
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			uc := c.ShowTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: taskID})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch output {
			case formatJSON:
				return writeJSON(w, out.Task)
			case formatYAML:
				return writeYAML(w, toTaskYAML(out.Task))
			}
			printTaskDetails(w, out.Task)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatText, "Output format: text, json, yaml")

	return cmd
}

// newEditCommand creates the edit command for changing a task.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Completed   bool
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Edit the title, description or completion state of a task.

Only the flags given are changed. --completed=true completes a pending
task and --completed=false reopens a completed one.

Examples:
  # Rename a task
  tasklist edit 1 --title "New title"

  # Clear the description and reopen the task
  tasklist edit 1 --body "" --completed=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			input := usecase.EditTaskInput{TaskID: taskID}
			if cmd.Flags().Changed("title") {
				input.Title = &opts.Title
			}
			if cmd.Flags().Changed("body") {
				input.Description = &opts.Description
			}
			if cmd.Flags().Changed("completed") {
				input.Completed = &opts.Completed
			}
			if input.Title == nil && input.Description == nil && input.Completed == nil {
				return errors.New("nothing to edit: specify --title, --body or --completed")
			}

			uc := c.EditTaskUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if out != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d\n", out.Task.ID)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "New description")
	cmd.Flags().BoolVar(&opts.Completed, "completed", false, "Set completion state")

	return cmd
}

// newDoneCommand creates the done command for completing a task.
func newDoneCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as completed",
		Long: `Mark a pending task as completed.

Completing a task that is already completed is an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			uc := c.CompleteTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.CompleteTaskInput{TaskID: taskID})
			if out != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Completed task #%d: %s\n", out.Task.ID, out.Task.Title)
			}
			return err
		},
	}

	return cmd
}

// newReopenCommand creates the reopen command for marking a task pending.
func newReopenCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reopen <id>",
		Short: "Mark a task as pending",
		Long:  `Move a completed task back to pending. Reopening a pending task changes nothing.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			uc := c.ReopenTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ReopenTaskInput{TaskID: taskID})
			if out == nil {
				return err
			}
			if out.WasPending {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task #%d is already pending\n", out.Task.ID)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reopened task #%d: %s\n", out.Task.ID, out.Task.Title)
			}
			return err
		},
	}

	return cmd
}

// newRmCommand creates the rm command for deleting a task.
func newRmCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Long: `Delete a task permanently. The ID is not reissued while the process runs.

Examples:
  # Delete task by ID
  tasklist rm 1

  # Delete task using # prefix
  tasklist rm "#1"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			uc := c.DeleteTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: taskID})
			if out != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d: %s\n", out.Task.ID, out.Task.Title)
			}
			return err
		},
	}

	return cmd
}

// newStatsCommand creates the stats command.
func newStatsCommand(c *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(output, formatTable, formatJSON, formatYAML); err != nil {
				return err
			}

			uc := c.TaskStatsUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.TaskStatsInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch output {
			case formatJSON:
				return writeJSON(w, out.Stats)
			case formatYAML:
				return writeYAML(w, out.Stats)
			}
			printStats(w, out.Stats)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "Output format: table, json, yaml")

	return cmd
}

// parseTaskID parses a task ID, accepting an optional leading "#".
func parseTaskID(s string) (int, error) {
	// Remove leading # if present
	s = strings.TrimPrefix(s, "#")
	var id int
	_, err := fmt.Sscanf(s, "%d", &id)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("task ID must be positive")
	}
	return id, nil
}
