package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"

	catalog "github.com/goliatone/go-catalog"
)

// AppConfig is the environment-driven configuration. It satisfies
// catalog.Config so the auth components consume it directly.
type AppConfig struct {
	Address         string `env:"ADDRESS" envDefault:":3000"`
	DSN             string `env:"DSN" envDefault:"file:catalog.db?cache=shared"`
	SigningKey      string `env:"SIGNING_KEY,required"`
	TokenExpiration int    `env:"TOKEN_EXPIRATION" envDefault:"24"`
	AdminEmail      string `env:"ADMIN_EMAIL" envDefault:"admin@gmail.com"`
	UploadDir       string `env:"UPLOAD_DIR" envDefault:"public/uploads"`
	Issuer          string `env:"ISSUER" envDefault:"go-catalog"`
}

func (c AppConfig) GetSigningKey() string    { return c.SigningKey }
func (c AppConfig) GetSigningMethod() string { return "HS256" }
func (c AppConfig) GetContextKey() string    { return "user" }
func (c AppConfig) GetTokenExpiration() int  { return c.TokenExpiration }
func (c AppConfig) GetTokenLookup() string   { return "header:" + fiber.HeaderAuthorization }
func (c AppConfig) GetAuthScheme() string    { return "Bearer" }
func (c AppConfig) GetIssuer() string        { return c.Issuer }
func (c AppConfig) GetAudience() []string    { return []string{} }
func (c AppConfig) GetAdminEmail() string    { return c.AdminEmail }

func main() {
	cfg := AppConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatal("config: ", err)
	}

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("catalog"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	db, err := catalog.OpenDB(cfg.DSN)
	if err != nil {
		lgr.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := catalog.RunMigrations(ctx, db); err != nil {
		lgr.Error("run migrations", "error", err)
		os.Exit(1)
	}

	repo := catalog.NewRepositoryManager(db)
	repo.MustValidate()

	provider := catalog.NewAuthorProvider(repo.Authors()).
		WithLogger(lgr.GetLogger("auth:prv"))

	auther := catalog.NewAuthenticator(provider, cfg).
		WithLogger(lgr.GetLogger("auth:authn"))

	gate := catalog.NewRouteAuthenticator(auther.TokenService(), repo.Authors(), cfg).
		WithLogger(lgr.GetLogger("auth:gate"))

	app := fiber.New(fiber.Config{
		AppName:      "go-catalog",
		ErrorHandler: catalog.HTTPErrorHandler(lgr.GetLogger("http")),
	})

	catalog.RegisterRootRoutes(app)

	catalog.RegisterAuthorRoutes(app,
		catalog.WithControllerLogger(lgr.GetLogger("http:author")),
		catalog.WithControllerRepo(repo),
		catalog.WithControllerAuth(gate),
		catalog.WithControllerAuther(auther),
		catalog.WithControllerUploadDir(cfg.UploadDir),
	)

	catalog.RegisterBookRoutes(app,
		catalog.WithBookLogger(lgr.GetLogger("http:book")),
		catalog.WithBookRepo(repo),
		catalog.WithBookAuth(gate),
	)

	app.Static("/public", "./public")

	app.Use(catalog.NotFoundHandler)

	go func() {
		if err := app.Listen(cfg.Address); err != nil {
			lgr.Error("server stopped", "error", err)
		}
	}()

	lgr.Info("listening", "address", cfg.Address)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lgr.Info("shutting down...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		lgr.Error("shutdown", "error", err)
	}
}
