// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/runoshun/tasklist/internal/domain"
	"github.com/runoshun/tasklist/internal/infra/config"
	"github.com/runoshun/tasklist/internal/infra/jsonstore"
	"github.com/runoshun/tasklist/internal/infra/logging"
	"github.com/runoshun/tasklist/internal/taskrepo"
	"github.com/runoshun/tasklist/internal/usecase"
)

// Options are the command-line overrides applied on top of the loaded
// configuration. Empty values leave the configuration unchanged.
type Options struct {
	ConfigPath string // Project config file (--config)
	StorePath  string // Task file (--store)
	LogLevel   string // Log level (--log-level)
}

// Config holds the resolved application paths.
type Config struct {
	WorkDir     string // Directory relative paths resolve against
	StorePath   string // Absolute path to the task file
	ProjectPath string // Project config file path
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks         domain.TaskRepository
	Clock         domain.Clock
	Logger        domain.Logger
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	AppConfig *domain.Config
	closer    io.Closer
	stderr    io.Writer

	// Configuration
	Config      Config
	initialized bool
}

// New creates an uninitialized Container rooted at workDir. Call Init
// before using any port.
func New(workDir string, stderr io.Writer) *Container {
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Container{
		Clock:  domain.RealClock{},
		Logger: domain.NopLogger{},
		stderr: stderr,
		Config: Config{WorkDir: workDir},
	}
}

// NewWithDeps creates an initialized Container with custom dependencies for testing.
func NewWithDeps(cfg Config, appConfig *domain.Config, tasks domain.TaskRepository, clock domain.Clock, logger domain.Logger) *Container {
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Container{
		Tasks:       tasks,
		Clock:       clock,
		Logger:      logger,
		AppConfig:   appConfig,
		Config:      cfg,
		stderr:      io.Discard,
		initialized: true,
	}
}

// Init loads the configuration, builds the logger and opens the task
// repository. It is a no-op on an already initialized container.
func (c *Container) Init(opts Options) error {
	if c.initialized {
		return nil
	}

	projectPath := opts.ConfigPath
	if projectPath == "" {
		projectPath = filepath.Join(c.Config.WorkDir, domain.ProjectConfigName)
	}
	loader := config.NewLoader(projectPath)
	c.ConfigLoader = loader
	c.ConfigManager = config.NewManager(projectPath)
	c.Config.ProjectPath = projectPath

	appConfig, err := loader.Load()
	if err != nil {
		return err
	}
	if opts.StorePath != "" {
		appConfig.Storage.Path = opts.StorePath
	}
	if opts.LogLevel != "" {
		appConfig.Log.Level = opts.LogLevel
	}
	if !logging.ValidLevel(appConfig.Log.Level) {
		appConfig.Warnings = append(appConfig.Warnings,
			fmt.Sprintf("unknown log level %q, using %s", appConfig.Log.Level, domain.DefaultLogLevel))
	}

	logFile := appConfig.Log.File
	if logFile != "" && !filepath.IsAbs(logFile) {
		logFile = filepath.Join(c.Config.WorkDir, logFile)
	}
	logger := logging.New(c.stderr, logFile, logging.ParseLevel(appConfig.Log.Level))

	storePath := appConfig.ResolveStorePath(c.Config.WorkDir)
	repo := taskrepo.Open(
		jsonstore.New(storePath, logger),
		c.Clock,
		logger,
		taskrepo.WithStrictPersistence(appConfig.Storage.Strict),
	)

	c.Tasks = repo
	c.Logger = logger
	c.closer = logger
	c.AppConfig = appConfig
	c.Config.StorePath = storePath
	c.initialized = true
	return nil
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// UseCase factory methods

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Tasks, c.Logger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks)
}

// CompleteTaskUseCase returns a new CompleteTask use case.
func (c *Container) CompleteTaskUseCase() *usecase.CompleteTask {
	return usecase.NewCompleteTask(c.Tasks, c.Logger)
}

// ReopenTaskUseCase returns a new ReopenTask use case.
func (c *Container) ReopenTaskUseCase() *usecase.ReopenTask {
	return usecase.NewReopenTask(c.Tasks, c.Logger)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Tasks, c.Logger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.Logger)
}

// TaskStatsUseCase returns a new TaskStats use case.
func (c *Container) TaskStatsUseCase() *usecase.TaskStats {
	return usecase.NewTaskStats(c.Tasks)
}

// SeedTasksUseCase returns a new SeedTasks use case.
func (c *Container) SeedTasksUseCase() *usecase.SeedTasks {
	return usecase.NewSeedTasks(c.Tasks, c.Logger)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
