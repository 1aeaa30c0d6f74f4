package gateway

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-go/engine"
	"github.com/AntonStoeckl/library-lending-go/engine/shell"
)

const (
	appName    = "Library Management System API"
	appVersion = "1.0.0"

	defaultOperationTimeout = 10 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Option configures the HTTP app.
type Option func(*server)

type server struct {
	library          *engine.Library
	logger           shell.ContextualLogger
	operationTimeout time.Duration
}

// WithLogger enables access and failure logging.
func WithLogger(logger shell.ContextualLogger) Option {
	return func(s *server) {
		s.logger = logger
	}
}

// WithOperationTimeout bounds how long one request may spend in the engine, retries included.
// Zero disables the bound.
func WithOperationTimeout(timeout time.Duration) Option {
	return func(s *server) {
		s.operationTimeout = timeout
	}
}

// New builds the fiber app serving library.
func New(library *engine.Library, opts ...Option) *fiber.App {
	s := &server{
		library:          library,
		operationTimeout: defaultOperationTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	app := fiber.New(fiber.Config{
		AppName:               appName,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          s.handleError,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(s.operationContext)

	s.routes(app)

	return app
}

func (s *server) routes(app *fiber.App) {
	app.Get("/", s.root)
	app.Get("/health", s.health)

	members := app.Group("/members")
	members.Post("/", s.createMember)
	members.Get("/", s.listMembers)
	members.Get("/:id", s.getMember)
	members.Put("/:id", s.updateMember)
	members.Delete("/:id", s.deleteMember)

	categories := app.Group("/categories")
	categories.Post("/", s.createCategory)
	categories.Get("/", s.listCategories)
	categories.Get("/:id", s.getCategory)
	categories.Put("/:id", s.updateCategory)
	categories.Delete("/:id", s.deleteCategory)

	books := app.Group("/books")
	books.Post("/", s.createBook)
	books.Get("/", s.listBooks)
	books.Get("/:id", s.getBook)
	books.Put("/:id", s.updateBook)
	books.Delete("/:id", s.deleteBook)
	books.Get("/:id/authors", s.authorsOfBook)
	books.Post("/:id/authors/:authorID", s.linkAuthor)
	books.Delete("/:id/authors/:authorID", s.unlinkAuthor)

	authors := app.Group("/authors")
	authors.Post("/", s.createAuthor)
	authors.Get("/", s.listAuthors)
	authors.Get("/:id", s.getAuthor)
	authors.Put("/:id", s.updateAuthor)
	authors.Delete("/:id", s.deleteAuthor)
	authors.Get("/:id/books", s.booksOfAuthor)

	loans := app.Group("/loans")
	loans.Post("/", s.checkoutBook)
	loans.Get("/", s.listLoans)
	loans.Get("/:id", s.getLoan)
	loans.Put("/:id/return", s.returnBook)
}

func (s *server) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to Library Management System API",
		"version": appVersion,
		"health":  "/health",
	})
}

func (s *server) health(c *fiber.Ctx) error {
	if err := s.library.Health(c.UserContext()); err != nil {
		s.logError(c, "health check failed", err)

		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "unhealthy",
			"message": "database is not reachable",
		})
	}

	return c.JSON(fiber.Map{"status": "healthy", "message": "API is running successfully"})
}
