package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zhima-Mochi/minishop-store/internal/application/store"
	"github.com/Zhima-Mochi/minishop-store/internal/config"
	"github.com/Zhima-Mochi/minishop-store/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-store/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-store/internal/domain/customer"
	"github.com/Zhima-Mochi/minishop-store/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-store/internal/infrastructure/eventbus"
	"github.com/Zhima-Mochi/minishop-store/internal/infrastructure/memory"
	infraobs "github.com/Zhima-Mochi/minishop-store/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/minishop-store/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/minishop-store/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-store/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-store/internal/infrastructure/order/worker"
	"github.com/Zhima-Mochi/minishop-store/internal/observability"
	"github.com/Zhima-Mochi/minishop-store/internal/pkg/logging"
	"github.com/Zhima-Mochi/minishop-store/internal/presentation/console"
	httppresentation "github.com/Zhima-Mochi/minishop-store/internal/presentation/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newCommand(os.Stdin, os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand(stdin io.Reader, stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "minishop",
		Usage: "place a demo order in an in-memory store and report the sale",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a YAML config file",
				Sources: cli.EnvVars("MINISHOP_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "http-addr",
				Usage: "serve /metrics and read-only store endpoints on this address",
			},
			&cli.BoolFlag{
				Name:  "no-wait",
				Usage: "exit without waiting for Enter",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			if cmd.IsSet("http-addr") {
				cfg.HTTP.Addr = cmd.String("http-addr")
			}
			if cmd.Bool("no-wait") {
				cfg.WaitForKey = false
			}
			return run(ctx, cfg, stdin, stdout)
		},
	}
}

func run(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout io.Writer) error {
	baseLogger, err := logging.NewLogger(logging.Options{
		Service: cfg.Service,
		Env:     cfg.Env,
		Output:  cfg.Log.Output,
		File:    cfg.Log.File,
		Level:   cfg.Log.Level,
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	logger := zaplogger.Wrap(baseLogger)
	systemLogger := zaplogger.Wrap(logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	counters, histograms := prometrics.Standard(prometrics.New(registry, "", ""))
	tp := oteltrace.NewSDKProvider()
	oteltrace.Install(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()
	tel := infraobs.New(oteltrace.NewWithProvider(tp, cfg.Service), logger, counters, histograms)

	printer := console.New(stdout)
	bus := eventbus.New(nil, tel)
	orders := memory.NewOrderRepository()
	st := store.NewWithRepositories(
		orders,
		memory.NewCustomerRepository(),
		bus,
		tel,
		store.WithSalesSink(printer),
		store.WithPlacedEvents(bus),
	)
	st.SubscribeSales()

	orderWorker := worker.New(orders, bus, logger)
	orderWorker.Start()
	defer orderWorker.Stop()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	var server *http.Server
	if cfg.HTTP.Addr != "" {
		handler := httppresentation.NewHandler(st, st.Sales(), logger, tel)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		mux.Handle("/", handler.Router())

		server = &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error { return serve(server, systemLogger) })
	}

	g.Go(func() error {
		if server != nil {
			defer shutdown(server, systemLogger)
		}
		if err := runDemo(gctx, st, printer); err != nil {
			return err
		}
		if cfg.WaitForKey {
			waitForEnter(gctx, stdin)
		}
		return nil
	})

	return g.Wait()
}

func serve(server *http.Server, logger observability.Logger) error {
	logger.Info("http_server_start",
		observability.F("addr", server.Addr),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http_server_error",
			observability.F("error", err),
		)
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func shutdown(server *http.Server, logger observability.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("http_server_shutdown_error",
			observability.F("error", err),
		)
		return
	}
	logger.Info("http_server_stopped")
}

// runDemo fills a cart, places it as one order and prints the store's state.
func runDemo(ctx context.Context, st *store.Store, printer *console.Printer) error {
	john := customer.Customer{
		ID:    1,
		Name:  "John Doe",
		Email: "john.doe@example.com",
	}

	productCart := cart.New[catalog.Product]()
	productCart.Add(catalog.NewSneakers(1, "Running Shoes", decimal.RequireFromString("99.99"), "Nike"))
	productCart.Add(catalog.NewTracksuit(2, "Sports Tracksuit", decimal.RequireFromString("49.99"), "Medium"))
	productCart.Add(catalog.NewTShirt(3, "Athletic T-Shirt", decimal.RequireFromString("29.99"), "Blue"))

	printer.Cart(productCart.Lines())

	o := order.New(productCart.Items())
	if err := st.PlaceOrder(ctx, o, john, printer.OrderProcessed); err != nil {
		return fmt.Errorf("place order: %w", err)
	}

	orders, err := st.Orders(ctx)
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}
	printer.Orders(orders)

	customers, err := st.Customers(ctx)
	if err != nil {
		return fmt.Errorf("list customers: %w", err)
	}
	printer.Customers(customers)
	return nil
}

// waitForEnter blocks until a line (or EOF) is read from r or ctx is done.
func waitForEnter(ctx context.Context, r io.Reader) {
	done := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(r).ReadString('\n')
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
}
