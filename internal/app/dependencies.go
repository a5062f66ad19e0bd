package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/Nest-Microservices-dev/orders-ms/internal/clients/payments"
	"github.com/Nest-Microservices-dev/orders-ms/internal/clients/products"
	"github.com/Nest-Microservices-dev/orders-ms/internal/domain"
	"github.com/Nest-Microservices-dev/orders-ms/internal/storage/memory"
	"github.com/Nest-Microservices-dev/orders-ms/internal/storage/postgres"
)

// Dependencies содержит все внешние зависимости оркестратора.
type Dependencies struct {
	Orders   domain.OrderRepository
	Products domain.ProductValidator
	Payments domain.PaymentGateway
	Store    *postgres.Store // nil для memory-хранилища
	Logger   *log.Entry

	closers []func() error
}

// NewDependencies поднимает хранилище и клиентов соседних сервисов согласно конфигурации.
// При ошибке уже открытые ресурсы закрываются.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}
	deps := &Dependencies{Logger: logger}

	if err := deps.initStorage(ctx, cfg.Storage); err != nil {
		_ = deps.Close()
		return nil, err
	}
	if err := deps.initIntegrations(cfg.Integrations); err != nil {
		_ = deps.Close()
		return nil, err
	}

	return deps, nil
}

func (d *Dependencies) initStorage(ctx context.Context, cfg StorageConfig) error {
	switch cfg.Driver {
	case "", StorageDriverMemory:
		d.Orders = memory.NewOrderRepository()
		d.Logger.Info("using in-memory order storage")
		return nil
	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return errors.New("postgres storage requires a DSN")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, store.Close)

		if cfg.AutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			d.Logger.Info("postgres schema is up to date")
		}
		d.Store = store
		d.Orders = postgres.NewOrderRepository(store)
		d.Logger.Info("using postgres order storage")
		return nil
	default:
		return fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func (d *Dependencies) initIntegrations(cfg IntegrationsConfig) error {
	if cfg.ProductsAddr != "" {
		conn, err := dialService(cfg.ProductsAddr)
		if err != nil {
			return fmt.Errorf("dial products service: %w", err)
		}
		d.closers = append(d.closers, conn.Close)
		d.Products = products.NewClient(conn, cfg.ProductsTimeout, d.Logger.WithField("client", "products"))
	} else {
		if !cfg.AllowMocks {
			return errors.New("products service address is required")
		}
		d.Logger.Warn("products service address is empty, using in-process mock catalog")
		d.Products = products.NewMockValidator(demoCatalog()...)
	}

	if cfg.PaymentsAddr != "" {
		conn, err := dialService(cfg.PaymentsAddr)
		if err != nil {
			return fmt.Errorf("dial payments service: %w", err)
		}
		d.closers = append(d.closers, conn.Close)
		d.Payments = payments.NewClient(conn, cfg.PaymentsTimeout, d.Logger.WithField("client", "payments"))
	} else {
		if !cfg.AllowMocks {
			return errors.New("payments service address is required")
		}
		d.Logger.Warn("payments service address is empty, using in-process mock gateway")
		d.Payments = payments.NewMockGateway()
	}

	return nil
}

// Close освобождает ресурсы в обратном порядке открытия.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

// demoCatalog наполняет mock каталога для локального запуска.
func demoCatalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Mechanical keyboard", Price: decimal.RequireFromString("89.90")},
		{ID: 2, Name: "Wireless mouse", Price: decimal.RequireFromString("24.50")},
		{ID: 3, Name: "USB-C hub", Price: decimal.RequireFromString("39.00")},
		{ID: 4, Name: "27\" monitor", Price: decimal.RequireFromString("249.99")},
	}
}
