package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/auth"
	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/catalog"
	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/db"
	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/importer"
	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/middleware"
	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/order"
	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	required := []string{
		"JWT_SECRET",
		"DATABASE_URL",
		"R2_ACCESS_KEY",
		"R2_SECRET_KEY",
		"R2_BUCKET_NAME",
		"R2_ENDPOINT",
		"R2_PUBLIC_BASE_URL",
	}

	for _, k := range required {
		if os.Getenv(k) == "" {
			log.Fatalf("❌ Missing env var: %s", k)
		}
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	// ───────────────────────── GIN ─────────────────────────
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── STORAGE ─────────────────────────
	r2Client, err := storage.NewR2Client(context.Background())
	if err != nil {
		log.Fatal("❌ R2 init failed:", err)
	}

	// ───────────────────────── AUTH ─────────────────────────
	userRepo := auth.NewPostgresUserRepository(pgDB)
	authService := auth.NewService(userRepo)
	authHandler := auth.NewHandler(authService)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// ───────────────────────── CORE REPOS ─────────────────────────
	catalogRepo := catalog.NewPostgresRepository(pgDB)
	orderRepo := order.NewPostgresRepository(pgDB)

	// ───────────────────────── SERVICES ─────────────────────────
	catalogService := catalog.NewService(catalogRepo)
	orderService := order.NewService(orderRepo, catalogService)

	importManager := importer.NewManager(catalogService, importer.Deps{
		Storage: r2Client,
		Catalog: catalogService,
	})

	// ───────────────────────── HANDLERS ─────────────────────────
	catalogHandler := catalog.NewHandler(catalogService)
	orderHandler := order.NewHandler(orderService)
	importHandler := importer.NewHandler(importManager)

	// ───────────────────────── PUBLIC MENU + CHECKOUT ─────────────────────────
	r.GET("/menu", catalogHandler.PublicMenu)
	r.GET("/menu/items/:code/options", catalogHandler.ListOptionGroups)
	r.POST("/orders", orderHandler.Checkout)
	r.GET("/orders/:id", orderHandler.Get)

	// ───────────────────────── ORDER BOARD (STAFF) ─────────────────────────
	board := r.Group("/board")
	board.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(auth.RoleAdmin, auth.RoleStaff),
	)
	{
		board.GET("/orders", orderHandler.List)
		board.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
	}

	// ───────────────────────── ADMIN ─────────────────────────
	admin := r.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(auth.RoleAdmin),
	)
	{
		// Categories
		admin.GET("/categories", catalogHandler.ListCategories)
		admin.POST("/categories", catalogHandler.SaveCategory)
		admin.DELETE("/categories/:id", catalogHandler.DeleteCategory)

		// Menu items
		admin.GET("/items", catalogHandler.ListItems)
		admin.POST("/items", catalogHandler.SaveItem)
		admin.GET("/items/:code", catalogHandler.GetItem)
		admin.DELETE("/items/:code", catalogHandler.DeleteItem)

		// Options
		admin.GET("/items/:code/options", catalogHandler.ListOptionGroups)
		admin.POST("/items/:code/options", catalogHandler.SaveOptionGroup)
		admin.DELETE("/items/:code/options/:group_id", catalogHandler.DeleteOptionGroup)

		// Photo import
		admin.POST("/import/sessions", importHandler.OpenSession)
		admin.POST("/import/sessions/:id/photos", importHandler.Upload)
		admin.GET("/import/sessions/:id", importHandler.State)
		admin.POST("/import/sessions/:id/rows/:action", importHandler.RowAction)
		admin.POST("/import/sessions/:id/crop", importHandler.SetCrop)
		admin.POST("/import/sessions/:id/apply", importHandler.Apply)
		admin.DELETE("/import/sessions/:id", importHandler.CloseSession)
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ───────────────────────── START ─────────────────────────
	log.Println("🚀 API running at http://localhost:8000")
	r.Run(":8000")
}
