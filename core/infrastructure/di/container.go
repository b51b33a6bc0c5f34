package di

import (
	"github.com/hyperterse/sqlgeneric/core/application/executor"
	"github.com/hyperterse/sqlgeneric/core/application/services"
	"github.com/hyperterse/sqlgeneric/core/config"
	"github.com/hyperterse/sqlgeneric/core/domain/interfaces"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/connectors"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/probe"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/templatestore"
)

// Container holds all dependencies
type Container struct {
	Config         *config.Config
	Prober         interfaces.Prober
	Engine         interfaces.Engine
	HandlerService interfaces.HandlerService
}

// Option overrides a component of the container
type Option func(*Container)

// WithEngine replaces the database engine
func WithEngine(engine interfaces.Engine) Option {
	return func(c *Container) { c.Engine = engine }
}

// WithProber replaces the reachability probe
func WithProber(prober interfaces.Prober) Option {
	return func(c *Container) { c.Prober = prober }
}

// NewContainer creates a new dependency injection container. Nothing is
// connected here: every invocation opens and closes its own resources.
func NewContainer(cfg *config.Config, opts ...Option) *Container {
	c := &Container{
		Config: cfg,
		Prober: probe.NewTCP(),
		Engine: connectors.NewSQLEngine(),
	}
	for _, opt := range opts {
		opt(c)
	}

	stores := func(storeCfg templatestore.Config) interfaces.TemplateStore {
		return templatestore.NewKinetic(storeCfg)
	}
	executors := func(store interfaces.TemplateStore) interfaces.Executor {
		return executor.NewExecutor(store, c.Prober, c.Engine, cfg.Probe.Timeout)
	}

	c.HandlerService = services.NewHandlerService(stores, executors, services.Settings{
		Defaults:      cfg.Info,
		LookupTimeout: cfg.Lookup.Timeout,
	})
	return c
}
