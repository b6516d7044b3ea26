package cmd

import (
	"log/slog"
	"time"

	httpadapter "courierdispatch/internal/adapters/in/http"
	"courierdispatch/internal/adapters/out/postgres"
	"courierdispatch/internal/core/application/usecases/commands"
	"courierdispatch/internal/core/application/usecases/queries"
	"courierdispatch/internal/core/ports"
	"courierdispatch/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	cache      ports.CourierProfileCache
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewCompositionRoot wires use cases to adapters. cache and publisher may be nil: the
// profile cache is then skipped and outbox messages stay unpublished.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	cache ports.CourierProfileCache,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		cache:      cache,
		publisher:  publisher,
		logger:     logger,
	}
}

func (c *CompositionRoot) txRetryPolicy() commands.TxRetryPolicy {
	policy := commands.DefaultTxRetryPolicy
	policy.MaxRetries = c.config.RetryAttempts
	return policy
}

func (c *CompositionRoot) CreateCreateCouriersCommandHandler() commands.CreateCouriersCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCouriersCommandHandler(f, c.txRetryPolicy())
}

func (c *CompositionRoot) CreateCreateOrdersCommandHandler() commands.CreateOrdersCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrdersCommandHandler(f, c.txRetryPolicy())
}

func (c *CompositionRoot) CreatePatchCourierCommandHandler() commands.PatchCourierCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewPatchCourierCommandHandler(f, c.cache, c.txRetryPolicy())
}

func (c *CompositionRoot) CreateAssignOrdersCommandHandler() commands.AssignOrdersCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignOrdersCommandHandler(f, c.cache, c.txRetryPolicy())
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCompleteOrderCommandHandler(f, c.cache, c.txRetryPolicy())
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() commands.RelayOutboxCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRelayOutboxCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreatePurgeOutboxCommandHandler() commands.PurgeOutboxCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPurgeOutboxCommandHandler(f)
}

func (c *CompositionRoot) CreateGetCourierQueryHandler() queries.GetCourierQueryHandler {
	return queries.NewGetCourierQueryHandler(c.gormDB, c.cache)
}

// CreateHTTPServer builds the API server over all use cases.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateCreateCouriersCommandHandler(),
		c.CreateCreateOrdersCommandHandler(),
		c.CreatePatchCourierCommandHandler(),
		c.CreateAssignOrdersCommandHandler(),
		c.CreateCompleteOrderCommandHandler(),
		c.CreateGetCourierQueryHandler(),
		c.logger,
	)
}

// CreateJobManager returns nil when no event publisher is configured.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	if c.publisher == nil {
		return nil
	}
	return jobs.NewJobManager(
		c.CreateRelayOutboxCommandHandler(),
		c.CreatePurgeOutboxCommandHandler(),
		jobs.Config{
			RelaySchedule:   c.config.OutboxRelaySchedule,
			RelayBatchSize:  c.config.OutboxBatchSize,
			CleanupSchedule: c.config.OutboxCleanupSchedule,
			Retention:       c.config.OutboxRetention,
		},
		c.logger,
	)
}

// RouterConfig maps the HTTP settings.
func (c *CompositionRoot) RouterConfig() httpadapter.RouterConfig {
	return httpadapter.RouterConfig{
		RateLimit: c.config.RateLimit,
		Burst:     c.config.RateBurst,
		Debug:     c.config.LogLevel == "debug",
	}
}

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
const ShutdownTimeout = 10 * time.Second

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
