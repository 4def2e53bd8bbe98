package catalog

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-catalog/middleware/jwtware"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// AuthorLocalsKey is the fiber locals key holding the re-resolved author
// after the gate runs.
const AuthorLocalsKey = "auth_author"

// RouteAuthenticator guards routes with bearer-token authentication. Every
// request through ProtectedRoute re-resolves the identity against the store,
// so a deleted account with a live token is rejected.
type RouteAuthenticator struct {
	tokenService TokenService
	store        AuthorStore
	cfg          Config
	logger       Logger
	adminEmail   string
}

func NewRouteAuthenticator(tokenService TokenService, store AuthorStore, cfg Config) *RouteAuthenticator {
	adminEmail := cfg.GetAdminEmail()

	return &RouteAuthenticator{
		tokenService: tokenService,
		store:        store,
		cfg:          cfg,
		logger:       defLogger{},
		adminEmail:   adminEmail,
	}
}

func (a *RouteAuthenticator) WithLogger(logger Logger) *RouteAuthenticator {
	a.logger = logger
	return a
}

// ProtectedRoute returns the gate middleware. Failures of any kind, missing
// token included, respond 401 with the uniform body.
func (a *RouteAuthenticator) ProtectedRoute() fiber.Handler {
	return jwtware.New(jwtware.Config{
		ContextKey:     a.cfg.GetContextKey(),
		TokenLookup:    a.cfg.GetTokenLookup(),
		AuthScheme:     a.cfg.GetAuthScheme(),
		TokenValidator: tokenValidatorAdapter{a.tokenService},
		SuccessHandler: a.resolveIdentity,
		ErrorHandler:   a.unauthorized,
	})
}

// resolveIdentity runs after token validation. The token proves possession,
// the store lookup proves the account still exists.
func (a *RouteAuthenticator) resolveIdentity(c *fiber.Ctx) error {
	claims, ok := c.Locals(a.cfg.GetContextKey()).(jwtware.AuthClaims)
	if !ok {
		return a.unauthorized(c, ErrMissingToken)
	}

	author, err := a.store.GetByEmail(c.UserContext(), claims.Email(), false)
	if err != nil {
		if goerrors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return a.unauthorized(c, ErrIdentityNotFound)
		}
		return a.unauthorized(c, err)
	}

	c.Locals(AuthorLocalsKey, author)
	c.SetUserContext(WithAuthor(c.UserContext(), author))

	return c.Next()
}

func (a *RouteAuthenticator) unauthorized(c *fiber.Ctx, err error) error {
	a.logger.Debug("auth gate rejected request: path=%s err=%v", c.Path(), err)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": MsgUnauthorized,
	})
}

// AuthorizeOwner allows the mutation when the acting author owns the target
// record or carries the configured admin email. Denials must happen before
// any side effect.
func (a *RouteAuthenticator) AuthorizeOwner(author *Author, ownerID uuid.UUID) error {
	if author == nil {
		return ErrIdentityNotFound
	}

	if author.ID != uuid.Nil && author.ID == ownerID {
		return nil
	}

	if a.adminEmail != "" && strings.EqualFold(author.Email, a.adminEmail) {
		return nil
	}

	return ErrOwnershipDenied.Clone().WithMetadata(map[string]any{
		"actor_id": author.ID.String(),
		"owner_id": ownerID.String(),
	})
}

// AuthorFromFiber returns the gate-resolved author for the request.
func AuthorFromFiber(c *fiber.Ctx) (*Author, bool) {
	author, ok := c.Locals(AuthorLocalsKey).(*Author)
	if !ok || author == nil {
		return nil, false
	}
	return author, true
}

// tokenValidatorAdapter bridges TokenService to the middleware interface.
type tokenValidatorAdapter struct {
	svc TokenService
}

func (t tokenValidatorAdapter) Validate(raw string) (jwtware.AuthClaims, error) {
	claims, err := t.svc.Validate(raw)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// HTTPErrorHandler is the fiber app level error translator. Auth and authz
// categories collapse into the uniform 401; validation and conflict keep
// their detail; everything else is a 500.
func HTTPErrorHandler(logger Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return func(c *fiber.Ctx, err error) error {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			switch richErr.Category {
			case goerrors.CategoryAuth, goerrors.CategoryAuthz:
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": MsgUnauthorized,
				})
			case goerrors.CategoryValidation, goerrors.CategoryBadInput, goerrors.CategoryConflict:
				status := fiber.StatusBadRequest
				if richErr.Code != 0 {
					status = richErr.Code
				}
				return c.Status(status).JSON(fiber.Map{
					"error": richErr.Message,
				})
			case goerrors.CategoryNotFound:
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{})
			}
		}

		var fiberErr *fiber.Error
		if goerrors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiberErr.Message,
			})
		}

		logger.Error("unhandled error: path=%s err=%v", c.Path(), err)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}

// RegisterRootRoutes mounts the greeting and the catch-all 404.
func RegisterRootRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Type("html").SendString("<h3>Esta es la RAIZ de nuestra API.</h3>")
	})
}

// NotFoundHandler is mounted last, after every router.
func NotFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).SendString("Lo sentimos :( No hemos encontrado la página solicitada.")
}
