package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/config"
	infraCache "storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/infrastructure/database"
	"storefront-backend/pkg/cache"

	catalogRepo "storefront-backend/internal/domains/catalog/repository"
	checkoutHandler "storefront-backend/internal/domains/checkout/handler"
	checkoutRepo "storefront-backend/internal/domains/checkout/repository"
	checkoutService "storefront-backend/internal/domains/checkout/service"
	offerHandler "storefront-backend/internal/domains/offer/handler"
	offerRepo "storefront-backend/internal/domains/offer/repository"
	offerService "storefront-backend/internal/domains/offer/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton for the process lifetime.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	AsynqClient *asynq.Client

	// Repositories
	ProductRepo  catalogRepo.ProductRepository
	CampaignRepo offerRepo.CampaignRepository
	OrderRepo    checkoutRepo.OrderRepository

	// Services
	OfferService    offerService.OfferService
	CheckoutService checkoutService.CheckoutService

	// HTTP handlers
	OfferPublicHandler *offerHandler.PublicHandler
	OfferAdminHandler  *offerHandler.AdminHandler
	CheckoutHandler    *checkoutHandler.CheckoutHandler
}

// NewContainer builds the dependency graph in order: config, then
// infrastructure, then repositories, services and handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// Step 1: configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// Step 2: database
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	// Step 3: cache. Redis being down is not fatal, the offer service
	// falls back to the repository on every read.
	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}
	c.Cache = redisCache

	// Step 4: asynq client for background tasks
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Step 5: repositories
	c.initRepositories()

	// Step 6: services
	c.initServices()

	// Step 7: handlers
	c.initHandlers()

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.ProductRepo = catalogRepo.NewPostgresRepository(pool)
	c.CampaignRepo = offerRepo.NewPostgresRepository(pool)
	c.OrderRepo = checkoutRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.OfferService = offerService.NewOfferService(
		c.CampaignRepo,
		c.ProductRepo,
		c.Cache,
		c.Config.Offers.CacheTTL,
	)

	c.CheckoutService = checkoutService.NewCheckoutService(
		c.OrderRepo,
		c.OfferService,
		c.AsynqClient,
	)
}

func (c *Container) initHandlers() {
	c.OfferPublicHandler = offerHandler.NewPublicHandler(c.OfferService)
	c.OfferAdminHandler = offerHandler.NewAdminHandler(c.OfferService)
	c.CheckoutHandler = checkoutHandler.NewCheckoutHandler(c.CheckoutService)
}

// Cleanup releases shared resources during graceful shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close asynq client: %v", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis: %v", err)
			} else {
				log.Println("✅ Redis connections closed")
			}
		}
	}

	log.Println("✅ Container cleanup completed")
}
