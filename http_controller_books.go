package catalog

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// BookController serves the book catalog routes. Mutations require the gate
// and ownership of the book's author.
type BookController struct {
	Debug  bool
	Logger Logger
	Repo   RepositoryManager
	Auth   *RouteAuthenticator
}

type BookControllerOption func(*BookController) *BookController

func NewBookController(opts ...BookControllerOption) *BookController {
	c := &BookController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in book controller...")
	}

	if c.Auth == nil {
		panic("Missing RouteAuthenticator in book controller...")
	}

	return c
}

func WithBookLogger(logger Logger) BookControllerOption {
	return func(c *BookController) *BookController {
		c.Logger = logger
		return c
	}
}

func WithBookRepo(repo RepositoryManager) BookControllerOption {
	return func(c *BookController) *BookController {
		c.Repo = repo
		return c
	}
}

func WithBookAuth(auth *RouteAuthenticator) BookControllerOption {
	return func(c *BookController) *BookController {
		c.Auth = auth
		return c
	}
}

func RegisterBookRoutes(app fiber.Router, opts ...BookControllerOption) *BookController {
	controller := NewBookController(opts...)

	group := app.Group("/book")

	group.Get("/", controller.List)
	group.Get("/book/:title", controller.SearchByTitle)
	group.Get("/:id", controller.Show)
	group.Post("/", controller.Auth.ProtectedRoute(), controller.Create)
	group.Put("/:id", controller.Auth.ProtectedRoute(), controller.Update)
	group.Delete("/:id", controller.Auth.ProtectedRoute(), controller.Delete)

	return controller
}

// BookListResponse nests the metadata under pagination, unlike the author
// envelope. Kept divergent for API compatibility.
type BookListResponse struct {
	Pagination PageMeta `json:"pagination"`
	Data       []*Book  `json:"data"`
}

func (b *BookController) List(c *fiber.Ctx) error {
	req, err := ParsePageStrict(c.Query("page"), c.Query("limit"))
	if err != nil {
		b.Logger.Debug("book list rejected params: page=%s limit=%s", c.Query("page"), c.Query("limit"))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": MsgInvalidPagination,
		})
	}

	records, err := b.Repo.Books().List(c.UserContext(), req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not list books")
	}

	total, err := b.Repo.Books().CountAll(c.UserContext())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not count books")
	}

	return c.JSON(BookListResponse{
		Pagination: NewPageMeta(total, req),
		Data:       records,
	})
}

func (b *BookController) Show(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
	}

	record, err := b.Repo.Books().GetByID(c.UserContext(), id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
		}
		return err
	}

	return c.JSON(record)
}

func (b *BookController) SearchByTitle(c *fiber.Ctx) error {
	records, err := b.Repo.Books().SearchByTitle(c.UserContext(), c.Params("title"))
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return c.Status(fiber.StatusNotFound).JSON([]*Book{})
	}

	return c.JSON(records)
}

// PublisherPayload is the nested publisher body.
type PublisherPayload struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Validate will run validation rules
func (p PublisherPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(3, 25)),
		validation.Field(&p.Country, validation.Required, validation.In(allowedCountriesAny()...)),
	)
}

// BookPayload is shared by create and update; update treats zero values as
// keep-current.
type BookPayload struct {
	Title     string           `json:"title"`
	Pages     int              `json:"pages"`
	Publisher PublisherPayload `json:"publisher"`
	AuthorID  string           `json:"author"`
}

// Validate will run validation rules
func (r BookPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Pages, validation.Required, validation.Min(1), validation.Max(10000)),
		validation.Field(&r.Publisher),
	)
}

func (b *BookController) Create(c *fiber.Ctx) error {
	actor, ok := AuthorFromFiber(c)
	if !ok {
		return ErrIdentityNotFound
	}

	payload := new(BookPayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error parsing body",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(FormatValidationErrorToMap(err))
	}

	record := &Book{
		Title: payload.Title,
		Pages: payload.Pages,
		Publisher: Publisher{
			Name:    payload.Publisher.Name,
			Country: payload.Publisher.Country,
		},
	}

	// The owner defaults to the acting identity; writing for another author
	// requires the admin sentinel.
	record.AuthorID = actor.ID
	if payload.AuthorID != "" {
		ownerID, err := uuid.Parse(payload.AuthorID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid author id",
			})
		}
		if err := b.Auth.AuthorizeOwner(actor, ownerID); err != nil {
			return err
		}
		record.AuthorID = ownerID
	}

	created, err := b.Repo.Books().Create(c.UserContext(), record)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (b *BookController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
	}

	actor, ok := AuthorFromFiber(c)
	if !ok {
		return ErrIdentityNotFound
	}

	record, err := b.Repo.Books().GetByID(c.UserContext(), id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
		}
		return err
	}

	if err := b.Auth.AuthorizeOwner(actor, record.AuthorID); err != nil {
		return err
	}

	payload := new(BookPayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error parsing body",
		})
	}

	if payload.Title != "" {
		record.Title = payload.Title
	}
	if payload.Pages != 0 {
		record.Pages = payload.Pages
	}
	if payload.Publisher.Name != "" {
		record.Publisher.Name = payload.Publisher.Name
	}
	if payload.Publisher.Country != "" {
		record.Publisher.Country = payload.Publisher.Country
	}
	if payload.AuthorID != "" {
		ownerID, err := uuid.Parse(payload.AuthorID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid author id",
			})
		}
		// Reassigning ownership requires owning the target as well.
		if err := b.Auth.AuthorizeOwner(actor, ownerID); err != nil {
			return err
		}
		record.AuthorID = ownerID
	}

	// The merged record must still satisfy the book constraints.
	if err := validateMergedBook(record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(FormatValidationErrorToMap(err))
	}

	updated, err := b.Repo.Books().Update(c.UserContext(), record)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func validateMergedBook(record *Book) error {
	return validation.Errors{
		"title":             validation.Validate(record.Title, validation.Required, validation.Length(3, 50)),
		"pages":             validation.Validate(record.Pages, validation.Required, validation.Min(1), validation.Max(10000)),
		"publisher.name":    validation.Validate(record.Publisher.Name, validation.Required, validation.Length(3, 25)),
		"publisher.country": validation.Validate(record.Publisher.Country, validation.Required, validation.In(allowedCountriesAny()...)),
	}.Filter()
}

func (b *BookController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
	}

	actor, ok := AuthorFromFiber(c)
	if !ok {
		return ErrIdentityNotFound
	}

	record, err := b.Repo.Books().GetByID(c.UserContext(), id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
		}
		return err
	}

	if err := b.Auth.AuthorizeOwner(actor, record.AuthorID); err != nil {
		return err
	}

	deleted, err := b.Repo.Books().DeleteByID(c.UserContext(), id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
		}
		return err
	}

	return c.JSON(deleted)
}
