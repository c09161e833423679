package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"pintare/internal/config"
	"pintare/internal/http/handlers"
	applog "pintare/internal/log"
	"pintare/internal/notify"
	"pintare/internal/repos"
)

func main() {
	cfg := config.Load()

	zl, err := applog.Init(cfg.LogMode, cfg.LogFile)
	if err != nil {
		log.Fatalf("[log] init: %v", err)
	}
	defer zl.Sync()
	// applog helpers sit two frames above zap; direct calls here do not.
	lg := zl.WithOptions(zap.AddCallerSkip(-2))

	if cfg.JWTSecret == "" {
		lg.Fatal("JWT_SECRET is required")
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		lg.Fatal("open db", zap.Error(err))
	}
	defer db.Close()

	// Mail goes out only when SMTP is configured.
	var sender notify.Sender
	if cfg.MailHost != "" {
		sender = notify.NewSMTPSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass)
	} else {
		lg.Warn("MAIL_HOST not set, quote emails are disabled")
	}
	mailer, err := notify.NewDispatcher(sender, cfg.MailFrom, cfg.MailAdmin)
	if err != nil {
		lg.Fatal("mail templates", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    1 << 20, // 1 MiB
		ErrorHandler: handlers.ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/healthz")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Muitas requisições. Tente novamente em instantes."})
		},
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, mailer)
	handlers.Routes(app, deps, handlers.AuthLimiter(10, 10*time.Minute))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			lg.Fatal("listen", zap.Error(err))
		}
	}()
	lg.Info("server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		lg.Error("shutdown", zap.Error(err))
	}
	mailer.Wait()
}
