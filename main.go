package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"nikahku_backend/internals/configs"
	database "nikahku_backend/internals/databases"
	helper "nikahku_backend/internals/helpers"
	"nikahku_backend/internals/middlewares"
	"nikahku_backend/internals/realtime"
	routes "nikahku_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		AppName:     "NikahKu Backend",
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return helper.FromFiberError(c, err)
		},
	})

	// Request ID + timing sederhana untuk tracing log
	app.Use(func(c *fiber.Ctx) error {
		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("X-Request-ID", rid)
		start := time.Now()
		err := c.Next()
		log.Printf("[%s] %s %s -> %d (%s)", rid, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app)

	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	// Emitter realtime: redis pub/sub kalau tersedia, selain itu no-op
	var rt realtime.Emitter = realtime.NoopEmitter{}
	if configs.RedisURL != "" {
		if emitter, err := realtime.NewRedisEmitter(configs.RedisURL); err != nil {
			log.Printf("⚠️ Redis tidak tersedia, realtime dimatikan: %v", err)
		} else {
			rt = emitter
			defer emitter.Close()
			log.Println("✅ Redis emitter aktif.")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.SetupRoutes(app, database.DB, rt)

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown err: %v", err)
		}
	}()

	port := configs.GetEnv("PORT", "8080")
	log.Printf("🚀 Server berjalan di port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("❌ Server gagal start: %v", err)
	}
}
