package catalog

import (
	"fmt"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

// AuthorController serves the author catalog and account routes.
type AuthorController struct {
	Debug     bool
	Logger    Logger
	Repo      RepositoryManager
	Auth      *RouteAuthenticator
	Auther    Authenticator
	UploadDir string
}

type AuthorControllerOption func(*AuthorController) *AuthorController

func NewAuthorController(opts ...AuthorControllerOption) *AuthorController {
	c := &AuthorController{
		Logger:    defLogger{},
		UploadDir: "public/uploads",
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in author controller...")
	}

	if c.Auth == nil {
		panic("Missing RouteAuthenticator in author controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in author controller...")
	}

	return c
}

func WithControllerLogger(logger Logger) AuthorControllerOption {
	return func(c *AuthorController) *AuthorController {
		c.Logger = logger
		return c
	}
}

func WithControllerRepo(repo RepositoryManager) AuthorControllerOption {
	return func(c *AuthorController) *AuthorController {
		c.Repo = repo
		return c
	}
}

func WithControllerAuth(auth *RouteAuthenticator) AuthorControllerOption {
	return func(c *AuthorController) *AuthorController {
		c.Auth = auth
		return c
	}
}

func WithControllerAuther(auther Authenticator) AuthorControllerOption {
	return func(c *AuthorController) *AuthorController {
		c.Auther = auther
		return c
	}
}

func WithControllerUploadDir(dir string) AuthorControllerOption {
	return func(c *AuthorController) *AuthorController {
		c.UploadDir = dir
		return c
	}
}

// RegisterAuthorRoutes mounts the author router. Order matters: the literal
// segments must register before the `/:id` catch-all.
func RegisterAuthorRoutes(app fiber.Router, opts ...AuthorControllerOption) *AuthorController {
	controller := NewAuthorController(opts...)

	group := app.Group("/author")

	group.Get("/", controller.List)
	group.Get("/name/:name", controller.SearchByName)
	group.Post("/login", controller.Login)
	group.Post("/image-upload", controller.Auth.ProtectedRoute(), controller.ImageUpload)
	group.Get("/:id", controller.Show)
	group.Post("/", controller.Create)
	group.Put("/:id", controller.Auth.ProtectedRoute(), controller.Update)
	group.Delete("/:id", controller.Auth.ProtectedRoute(), controller.Delete)

	return controller
}

// AuthorListResponse is the flat listing envelope. The metadata fields sit
// at the top level next to data; books use the nested shape. Kept divergent
// for API compatibility.
type AuthorListResponse struct {
	PageMeta
	Data []*Author `json:"data"`
}

func (a *AuthorController) List(c *fiber.Ctx) error {
	req := ParsePage(c.Query("page"), c.Query("limit"))

	records, err := a.Repo.Authors().List(c.UserContext(), req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not list authors")
	}

	total, err := a.Repo.Authors().CountAll(c.UserContext())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not count authors")
	}

	return c.JSON(AuthorListResponse{
		PageMeta: NewPageMeta(total, req),
		Data:     records,
	})
}

func (a *AuthorController) Show(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
	}

	record, err := a.Repo.Authors().GetByID(c.UserContext(), id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
		}
		return err
	}

	return c.JSON(record)
}

func (a *AuthorController) SearchByName(c *fiber.Ctx) error {
	records, err := a.Repo.Authors().SearchByName(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return c.Status(fiber.StatusNotFound).JSON([]*Author{})
	}

	return c.JSON(records)
}

// CreateAuthorPayload is the registration body.
type CreateAuthorPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Country  string `json:"country"`
}

// Validate will run validation rules
func (r CreateAuthorPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Country, validation.In(allowedCountriesAny()...)),
	)
}

func (a *AuthorController) Create(c *fiber.Ctx) error {
	payload := new(CreateAuthorPayload)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error parsing body",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(FormatValidationErrorToMap(err))
	}

	if a.Debug {
		fmt.Println("======= AUTHOR CREATE ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	var created *Author
	msg := RegisterAuthorMessage{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Country:  payload.Country,
		OnCreated: func(record *Author) {
			created = record
		},
	}

	register := RegisterAuthorHandler{repo: a.Repo}
	if err := register.Execute(c.UserContext(), msg); err != nil {
		a.Logger.Error("author create: %v", err)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// LoginPayload is the credentials body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthorController) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": MsgMissingCredentials,
		})
	}

	if payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": MsgMissingCredentials,
		})
	}

	token, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		// Unknown email and wrong password produce the same response.
		a.Logger.Debug("login rejected: email=%s err=%v", payload.Email, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": MsgBadCredentials,
		})
	}

	return c.JSON(fiber.Map{"token": token})
}

// UpdateAuthorPayload carries partial updates; empty fields keep the stored
// value.
type UpdateAuthorPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Country  string `json:"country"`
}

// Validate will run validation rules
func (r UpdateAuthorPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Length(8, 100)),
		validation.Field(&r.Country, validation.In(allowedCountriesAny()...)),
	)
}

func (a *AuthorController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
	}

	actor, ok := AuthorFromFiber(c)
	if !ok {
		return ErrIdentityNotFound
	}

	// Ownership is checked against the URL id before the fetch, so a denied
	// caller cannot probe which ids exist.
	if err := a.Auth.AuthorizeOwner(actor, id); err != nil {
		return err
	}

	payload := new(UpdateAuthorPayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error parsing body",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(FormatValidationErrorToMap(err))
	}

	record, err := a.Repo.Authors().GetByID(c.UserContext(), id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
		}
		return err
	}

	if payload.Name != "" {
		record.Name = payload.Name
	}
	if payload.Email != "" {
		record.Email = payload.Email
		record.NormalizeEmail()
	}
	if payload.Country != "" {
		record.Country = payload.Country
	}
	if payload.Password != "" {
		hash, err := HashPassword(payload.Password)
		if err != nil {
			return err
		}
		record.PasswordHash = hash
	}

	updated, err := a.Repo.Authors().Update(c.UserContext(), record)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return ErrDuplicateEmail.Clone().WithMetadata(map[string]any{
				"email": record.Email,
			})
		}
		return err
	}

	updated.PasswordHash = ""

	return c.JSON(updated)
}

func (a *AuthorController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
	}

	actor, ok := AuthorFromFiber(c)
	if !ok {
		return ErrIdentityNotFound
	}

	if err := a.Auth.AuthorizeOwner(actor, id); err != nil {
		return err
	}

	record, err := a.Repo.Authors().DeleteByID(c.UserContext(), id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
		}
		return err
	}

	return c.JSON(record)
}

// ImageUpload stores the multipart file and points the author's profile
// image at it. The target author comes from the form, the permission from
// the gate plus the ownership rule.
func (a *AuthorController) ImageUpload(c *fiber.Ctx) error {
	actor, ok := AuthorFromFiber(c)
	if !ok {
		return ErrIdentityNotFound
	}

	id, err := uuid.Parse(c.FormValue("authorId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
	}

	if err := a.Auth.AuthorizeOwner(actor, id); err != nil {
		return err
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing file field logo",
		})
	}

	record, err := a.Repo.Authors().GetByID(c.UserContext(), id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
		}
		return err
	}

	filename := fmt.Sprintf("%s_%s", id.String(), filepath.Base(file.Filename))
	target := filepath.Join(a.UploadDir, filename)

	if err := c.SaveFile(file, target); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not store uploaded image")
	}

	record.ProfileImage = target

	updated, err := a.Repo.Authors().Update(c.UserContext(), record)
	if err != nil {
		return err
	}

	updated.PasswordHash = ""

	return c.JSON(updated)
}
