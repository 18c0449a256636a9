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

	"techStore/catalog"
	"techStore/config"
	"techStore/handlers"
	"techStore/logger"
	"techStore/metrics"
	"techStore/repository"
	"techStore/services"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type stores struct {
	products repository.ProductRepository
	carts    repository.CartRepository
	receipts repository.ReceiptRepository
	sessions repository.SessionRepository
	closers  []func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.InitLogger(logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("configuration loaded", cfg.LogFields()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal("storage init failed", zap.Error(err))
	}
	defer func() {
		for _, c := range st.closers {
			c()
		}
	}()

	if cfg.Catalog.Seed {
		prods, err := catalog.Load(cfg.Catalog.SeedFile)
		if err != nil {
			log.Fatal("seed catalog", zap.Error(err))
		}
		if err = st.products.SeedProducts(ctx, prods); err != nil {
			log.Fatal("seed catalog", zap.Error(err))
		}
		log.Info("catalog seeded", zap.Int("products", len(prods)))
	}

	m := metrics.NewMetrics(cfg.ServiceName)
	engine := services.NewEngine(services.EngineParams{
		ProductRepo: st.products,
		CartRepo:    st.carts,
		ReceiptRepo: st.receipts,
		Metrics:     m,
	})
	ha := handlers.NewHandler(handlers.HandlerParams{
		Engine:     engine,
		SessionRep: st.sessions,
		SessionTTL: cfg.Cart.TTL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handlers.NewRouter(ha, m),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("starting server...", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cncl := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cncl()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

func openStores(ctx context.Context, cfg *config.Config) (st stores, err error) {
	switch cfg.Catalog.Backend {
	case config.BackendPostgres, config.BackendSqlite:
		var db *sql.DB
		db, err = openDB(cfg)
		if err != nil {
			return
		}
		st.closers = append(st.closers, db.Close)
		st.products, err = repository.NewProductRepository(ctx, db)
		if err != nil {
			return
		}
		zap.L().Info("db connected", zap.String("backend", cfg.Catalog.Backend))
	default:
		st.products = repository.NewMemoryProductRepository()
	}

	switch cfg.Cart.Backend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		st.closers = append(st.closers, rdb.Close)
		pingCtx, cncl := context.WithTimeout(ctx, 5*time.Second)
		defer cncl()
		if st.carts, err = repository.NewCartRepository(pingCtx, rdb, cfg.Cart.TTL); err != nil {
			return
		}
		if st.receipts, err = repository.NewReceiptRepository(pingCtx, rdb, cfg.Cart.TTL); err != nil {
			return
		}
		if st.sessions, err = repository.NewSessionRepository(pingCtx, rdb, cfg.Cart.TTL); err != nil {
			return
		}
		zap.L().Info("redis connected", zap.String("addr", cfg.Redis.Addr()))
	default:
		carts := repository.NewMemoryCartRepository(cfg.Cart.TTL)
		receipts := repository.NewMemoryReceiptRepository(cfg.Cart.TTL)
		st.carts = carts
		st.receipts = receipts
		st.sessions = repository.NewMemorySessionRepository(cfg.Cart.TTL, carts, receipts)
	}
	return
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	if cfg.Catalog.Backend == config.BackendSqlite {
		db, err := sql.Open("sqlite3", cfg.DB.SqlitePath+"?_foreign_keys=on&_busy_timeout=5000")
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(1)
		return db, nil
	}
	return sql.Open("postgres", cfg.DB.DSN())
}
