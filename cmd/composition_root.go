package cmd

import (
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/jobs"

	"github.com/prometheus/client_golang/prometheus"
)

type CompositionRoot struct {
	cfg      Config
	infra    *Infrastructure
	policy   commands.Policy
	logger   *slog.Logger
	registry *prometheus.Registry
}

// NewCompositionRoot registers the HTTP and job metrics on a fresh registry.
func NewCompositionRoot(cfg Config, infra *Infrastructure, logger *slog.Logger) *CompositionRoot {
	return &CompositionRoot{
		cfg:      cfg,
		infra:    infra,
		policy:   cfg.Policy(),
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
}

func (c *CompositionRoot) Registry() *prometheus.Registry {
	return c.registry
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.infra.UoWFactory.Create()
	})
}

func (c *CompositionRoot) repositories() queries.RepositoriesFactory {
	return FuncRepositoriesFactory(func() queries.Repositories {
		return c.infra.UoWFactory.Create()
	})
}

func (c *CompositionRoot) outbox() commands.OutboxUoWFactory {
	return FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.infra.UoWFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.infra.UoWFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.policy)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.uow(), c.infra.Generator, c.policy)
}

func (c *CompositionRoot) CreateRejectOrderCommandHandler() commands.RejectOrderCommandHandler {
	return commands.NewRejectOrderCommandHandler(c.uow(), c.policy)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uow(), c.policy)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	return commands.NewAssignDriverCommandHandler(c.uow(), c.infra.Generator, c.policy)
}

func (c *CompositionRoot) CreateCompletePickupCommandHandler() commands.CompletePickupCommandHandler {
	return commands.NewCompletePickupCommandHandler(c.uow(), c.infra.Limiter, c.policy)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.uow(), c.infra.Limiter, c.policy)
}

func (c *CompositionRoot) CreateReissueValidationCodeCommandHandler() commands.ReissueValidationCodeCommandHandler {
	return commands.NewReissueValidationCodeCommandHandler(c.uow(), c.infra.Generator, c.policy)
}

func (c *CompositionRoot) CreateTopUpWalletCommandHandler() commands.TopUpWalletCommandHandler {
	var f commands.WalletUoWFactory = FuncWalletUoWFactory(func() commands.WalletUoW {
		return c.infra.UoWFactory.Create()
	})
	return commands.NewTopUpWalletCommandHandler(f, c.policy)
}

func (c *CompositionRoot) CreateWithdrawWalletCommandHandler() commands.WithdrawWalletCommandHandler {
	var f commands.WalletUoWFactory = FuncWalletUoWFactory(func() commands.WalletUoW {
		return c.infra.UoWFactory.Create()
	})
	return commands.NewWithdrawWalletCommandHandler(f, c.policy)
}

func (c *CompositionRoot) CreateRegisterDriverCommandHandler() commands.RegisterDriverCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.infra.UoWFactory.Create()
	})
	return commands.NewRegisterDriverCommandHandler(f)
}

func (c *CompositionRoot) CreatePublishOutboxCommandHandler() commands.PublishOutboxCommandHandler {
	return commands.NewPublishOutboxCommandHandler(c.outbox(), c.infra.Publisher, c.policy)
}

func (c *CompositionRoot) CreateCleanupOutboxCommandHandler() commands.CleanupOutboxCommandHandler {
	return commands.NewCleanupOutboxCommandHandler(c.outbox(), c.policy)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.repositories())
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.repositories())
}

func (c *CompositionRoot) CreateGetValidationCodeQueryHandler() queries.GetValidationCodeQueryHandler {
	return queries.NewGetValidationCodeQueryHandler(c.repositories())
}

func (c *CompositionRoot) CreateGetWalletBalanceQueryHandler() queries.GetWalletBalanceQueryHandler {
	return queries.NewGetWalletBalanceQueryHandler(c.repositories(), c.cfg.Currency)
}

func (c *CompositionRoot) CreateGetWalletTransactionsQueryHandler() queries.GetWalletTransactionsQueryHandler {
	return queries.NewGetWalletTransactionsQueryHandler(c.repositories(), c.cfg.Currency)
}

func (c *CompositionRoot) CreateGetAvailableDriversQueryHandler() queries.GetAvailableDriversQueryHandler {
	return queries.NewGetAvailableDriversQueryHandler(c.repositories())
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:      c.CreateCreateOrderCommandHandler(),
		AcceptOrder:      c.CreateAcceptOrderCommandHandler(),
		RejectOrder:      c.CreateRejectOrderCommandHandler(),
		CancelOrder:      c.CreateCancelOrderCommandHandler(),
		AssignDriver:     c.CreateAssignDriverCommandHandler(),
		CompletePickup:   c.CreateCompletePickupCommandHandler(),
		CompleteDelivery: c.CreateCompleteDeliveryCommandHandler(),
		ReissueCode:      c.CreateReissueValidationCodeCommandHandler(),
		TopUpWallet:      c.CreateTopUpWalletCommandHandler(),
		WithdrawWallet:   c.CreateWithdrawWalletCommandHandler(),
		RegisterDriver:   c.CreateRegisterDriverCommandHandler(),

		GetOrder:              c.CreateGetOrderQueryHandler(),
		GetActiveOrders:       c.CreateGetActiveOrdersQueryHandler(),
		GetValidationCode:     c.CreateGetValidationCodeQueryHandler(),
		GetWalletBalance:      c.CreateGetWalletBalanceQueryHandler(),
		GetWalletTransactions: c.CreateGetWalletTransactionsQueryHandler(),
		GetAvailableDrivers:   c.CreateGetAvailableDriversQueryHandler(),
	})
}

func (c *CompositionRoot) RouterOptions() httpin.RouterOptions {
	return httpin.RouterOptions{
		Logger:           c.logger,
		Registry:         c.registry,
		Idempotency:      c.infra.Idempotency,
		IdempotencyTTL:   c.cfg.IdempotencyTTL,
		ValidateRequests: c.cfg.OpenAPIValidation,
		VerifyRateLimit:  c.cfg.VerifyRateLimit,
		VerifyRateWindow: c.cfg.VerifyRateWindow,
		SSLRedirect:      c.cfg.SSLRedirect,
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	metrics := jobs.NewMetrics(c.registry)
	relay := jobs.NewOutboxRelayJob(
		c.CreatePublishOutboxCommandHandler(),
		c.cfg.OutboxBatchSize,
		c.cfg.OutboxRelaySchedule,
		metrics,
		c.logger,
	)
	cleanup := jobs.NewOutboxCleanupJob(
		c.CreateCleanupOutboxCommandHandler(),
		c.cfg.OutboxRetention,
		c.cfg.OutboxCleanupSchedule,
		metrics,
		c.logger,
	)
	return jobs.NewJobManager(relay, cleanup)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncWalletUoWFactory func() commands.WalletUoW

func (f FuncWalletUoWFactory) Create() commands.WalletUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}

type FuncRepositoriesFactory func() queries.Repositories

func (f FuncRepositoriesFactory) Create() queries.Repositories {
	return f()
}
