package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"hotel_platform_backend/internal/cache"
	"hotel_platform_backend/internal/config"
	"hotel_platform_backend/internal/database"
	"hotel_platform_backend/internal/models"
	"hotel_platform_backend/internal/repositories"
	"hotel_platform_backend/internal/router"
	"hotel_platform_backend/internal/services"
	"hotel_platform_backend/pkg/utils"
)

type stores struct {
	auth      repositories.AuthRepository
	overrides repositories.PriceOverrideRepository
	catalog   repositories.CatalogRepository
	closers   []func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet.
		utils.InitLogger("info", true)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogPretty)

	if err := utils.InitJWT(cfg.JWTSecret, cfg.JWTTTL); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize JWT")
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("Failed to open store")
	}
	defer func() {
		for _, closeFn := range st.closers {
			if err := closeFn(); err != nil {
				utils.LogError(err, "Error while closing store")
			}
		}
	}()

	catalog := st.catalog
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			utils.LogWarn(err, "Redis unavailable, catalog cache disabled")
		} else {
			st.closers = append(st.closers, rdb.Close)
			catalog = cache.NewCatalogCache(catalog, rdb, cfg.CatalogCacheTTL)
			utils.LogInfo("Catalog cache enabled", map[string]interface{}{"ttl": cfg.CatalogCacheTTL.String()})
		}
	}

	authService := services.NewAuthService(st.auth)
	pricingService := services.NewPricingService(st.overrides, services.NewPriceCatalog(catalog))
	searchService := services.NewSearchService(catalog, services.WithSearchTimeout(cfg.SearchTimeout))

	if cfg.Store == config.StoreMemory {
		seedDemoAccounts(ctx, authService, cfg.DemoPassword)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	router.Setup(engine, router.Services{
		Auth:    authService,
		Pricing: pricingService,
		Search:  searchService,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "store": cfg.Store})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	utils.LogInfo("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server forced to shutdown")
	}
	utils.LogInfo("Server exited")
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Store == config.StoreMemory {
		utils.LogInfo("Using in-memory store with seeded demo catalog")
		return &stores{
			auth:      repositories.NewMemoryAuthRepository(),
			overrides: repositories.NewMemoryPriceOverrideRepository(),
			catalog:   repositories.NewSeededCatalog(time.Now()),
		}, nil
	}

	db, err := database.InitDB(ctx, cfg.DSN(), cfg.DBMaxOpenConns)
	if err != nil {
		return nil, err
	}
	if cfg.DBApplySchema {
		if err := database.ApplySchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return postgresStores(db), nil
}

func postgresStores(db *sql.DB) *stores {
	return &stores{
		auth:      repositories.NewAuthRepository(db),
		overrides: repositories.NewPriceOverrideRepository(db),
		catalog:   repositories.NewCatalogRepository(db),
		closers:   []func() error{db.Close},
	}
}

func seedDemoAccounts(ctx context.Context, authService services.AuthService, password string) {
	accounts := []services.RegisterUserRequest{
		{Username: "admin", FullName: "Platform Admin", RoleName: models.RoleAdmin},
		{Username: "kigali.manager", FullName: "Alice Uwimana", RoleName: models.RoleManager, BranchID: "br-001"},
		{Username: "kivu.manager", FullName: "Eric Habimana", RoleName: models.RoleManager, BranchID: "br-002"},
		{Username: "kigali.frontdesk", FullName: "Grace Ingabire", RoleName: models.RoleStaff, BranchID: "br-001"},
	}
	for _, acc := range accounts {
		acc.Password = password
		if _, err := authService.RegisterUser(ctx, acc); err != nil {
			utils.LogError(err, "Failed to seed demo account", map[string]interface{}{"username": acc.Username})
			continue
		}
		utils.LogDebug("Seeded demo account", map[string]interface{}{"username": acc.Username, "role": acc.RoleName})
	}
}
