package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-depot-pos.git/internal/cart"
	"github.com/ariefcatur/go-depot-pos.git/internal/catalog"
	"github.com/ariefcatur/go-depot-pos.git/internal/config"
	"github.com/ariefcatur/go-depot-pos.git/internal/httpx"
	"github.com/ariefcatur/go-depot-pos.git/internal/local"
	"github.com/ariefcatur/go-depot-pos.git/internal/notify"
	"github.com/ariefcatur/go-depot-pos.git/internal/postgres"
	"github.com/ariefcatur/go-depot-pos.git/internal/redisx"
	"github.com/ariefcatur/go-depot-pos.git/internal/sales"
	"github.com/ariefcatur/go-depot-pos.git/internal/syncq"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// durable local state: queue + open cart
	ldb, err := local.Open(local.Config{Dir: cfg.DataDir})
	if err != nil {
		log.Fatalf("local db: %v", err)
	}
	defer ldb.Close()

	queue, err := syncq.OpenQueue(ldb)
	if err != nil {
		log.Fatalf("queue: %v", err)
	}

	// remote store; the register still works when the ping fails, it
	// just starts offline with a lazy pool
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	online := err == nil
	if err != nil {
		log.Printf("db connect: %v (starting offline)", err)
		db, err = pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("db config: %v", err)
		}
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// notifications
	var notifier notify.Notifier = notify.Nop{}
	var prod *notify.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = notify.NewProducer(cfg.KafkaBrokers, 256)
		prod.Start(ctx)
		notifier = &notify.Kafka{Producer: prod, Station: cfg.StationID}
	}

	snap := catalog.NewSnapshot()
	gate := syncq.NewGate(online)

	productRepo := &postgres.ProductRepo{DB: db}
	saleRepo := &postgres.SaleRepo{DB: db}
	auditRepo := &postgres.AuditRepo{DB: db}
	containerRepo := &postgres.ContainerRepo{DB: db}

	catalogSvc := &catalog.Service{Snap: snap, Remote: productRepo, Queue: queue, Gate: gate}
	if online {
		if err := catalogSvc.Refresh(ctx); err != nil {
			log.Printf("initial catalog refresh: %v", err)
		}
	}

	openCart := cart.New()
	cartStore := &cart.Store{DB: ldb}
	if err := cartStore.Load(openCart); err != nil {
		log.Printf("restore cart: %v", err)
	}

	history := sales.NewHistory()

	replayer := &sales.Replayer{
		Sales:      saleRepo,
		Products:   productRepo,
		Stock:      productRepo,
		Audit:      auditRepo,
		Containers: containerRepo,
		History:    history,
	}
	drainer := &syncq.Drainer{
		Queue:  queue,
		Remote: replayer,
		Dedup:  rdb,
		OnDrained: func(ctx context.Context, succeeded int) {
			if err := catalogSvc.Refresh(ctx); err != nil {
				log.Printf("post-drain refresh: %v", err)
			}
			notifier.SyncComplete(ctx, cfg.Cashier, succeeded)
		},
	}
	gate.OnOnline = func() {
		drainer.Drain(context.Background())
	}

	committer := &sales.Committer{
		Snap:        snap,
		Cart:        openCart,
		CartStore:   cartStore,
		Sales:       saleRepo,
		Stock:       productRepo,
		Audit:       auditRepo,
		Containers:  containerRepo,
		Queue:       queue,
		Gate:        gate,
		Notify:      notifier,
		History:     history,
		DailyTarget: cfg.DailyTarget,
	}

	router := httpx.NewRouter()
	h := &httpx.RegisterHandler{
		Catalog:   catalogSvc,
		Snap:      snap,
		Cart:      openCart,
		CartStore: cartStore,
		Committer: committer,
		SaleList:  saleRepo,
		History:   history,
		Queue:     queue,
		Gate:      gate,
		Drainer:   drainer,
		Cashier:   cfg.Cashier,
	}
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s (station %s, online=%v)", cfg.HTTPAddr, cfg.StationID, online)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close()
		cancel()
		prod.WaitClosed()
	}
}
