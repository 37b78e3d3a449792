package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/redis/go-redis/v9"

	"tablepos/internal/config"
	"tablepos/internal/http/handlers"
	applog "tablepos/internal/log"
	"tablepos/internal/pos"
	"tablepos/internal/repos"
	"tablepos/internal/telemetry"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	shutdownTracing := telemetry.Setup(cfg)

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	store := repos.NewStore(db)

	seq, closeSeq, err := orderSequence(cfg, store)
	if err != nil {
		log.Fatal(err)
	}
	defer closeSeq()

	engine := html.New(cfg.TemplatesDir, ".html")
	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/healthz")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Warn(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	handlers.NewDeps(store, cfg, seq).Mount(app)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Printf("[shutdown] draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("[shutdown] server: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Printf("[shutdown] tracing: %v", err)
	}
}

// orderSequence picks the order id authority. With REDIS_ADDR set, every
// terminal shares one Redis counter; otherwise an in-process counter is used.
// Either way numbering continues after the highest stored order.
func orderSequence(cfg config.Config, store *repos.Store) (pos.Sequence, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	last, err := store.Orders.MaxSequence(ctx)
	if err != nil {
		return nil, nil, err
	}
	if cfg.RedisAddr == "" {
		log.Printf("[sequence] in-process counter from %d", last)
		return pos.NewCounter(last), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}
	seq := repos.NewRedisSequence(client)
	cur, err := seq.Seed(ctx, last)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	log.Printf("[sequence] redis counter at %s, current %d", cfg.RedisAddr, cur)
	return seq, func() { client.Close() }, nil
}
