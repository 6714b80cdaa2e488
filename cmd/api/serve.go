package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/xavierca1/ligue-salesdesk/internal/cache"
	"github.com/xavierca1/ligue-salesdesk/internal/config"
	"github.com/xavierca1/ligue-salesdesk/internal/entity"
	"github.com/xavierca1/ligue-salesdesk/internal/infra/database"
	"github.com/xavierca1/ligue-salesdesk/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-salesdesk/internal/infra/mail"
	"github.com/xavierca1/ligue-salesdesk/internal/infra/queue"
	"github.com/xavierca1/ligue-salesdesk/internal/infra/webhook"
	"github.com/xavierca1/ligue-salesdesk/internal/infra/worker"
	"github.com/xavierca1/ligue-salesdesk/internal/usecase"
)

func serve(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Printf("🐘 Banco conectado (driver %s)", cfg.Database.Driver)

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	// 1. Repositórios
	clientRepo := database.NewClientRepository(db)
	saleRepo := database.NewSaleRepository(db)
	ticketRepo := database.NewTicketRepository(db)
	planRepo := database.NewPlanRepository(db)
	userPlanRepo := database.NewUserPlanRepository(db)
	userRepo := database.NewUserRepository(db)
	sessionRepo := database.NewSessionRepository(db)
	webhookRepo := database.NewWebhookRepository(db)
	webhookEventRepo := database.NewWebhookEventRepository(db)
	chipRepo := database.NewChipRepository(db)

	// 2. Entrega de eventos: RabbitMQ quando configurado, senão em processo
	dispatcher := webhook.NewDispatcher(webhookRepo, webhookEventRepo, cfg.Webhook.DeliveryTimeout)

	var (
		wg       sync.WaitGroup
		producer usecase.QueueProducerInterface
		broker   handlers.BrokerStatus
		local    *webhook.LocalPublisher
	)
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
		broker = rabbitMQ.Conn

		consumerCh, err := rabbitMQ.Conn.Channel()
		if err != nil {
			return err
		}
		producer = queue.NewProducer(rabbitMQ.Ch)

		w := queue.NewWorker(consumerCh, dispatcher)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Start(ctx, queue.QueueName); err != nil {
				log.Printf("❌ [WORKER] parou: %v", err)
			}
		}()
	} else {
		log.Println("⚠️ RABBITMQ_URL não definido, webhooks de saída serão entregues em processo")
		local = webhook.NewLocalPublisher(dispatcher)
		producer = local
	}

	var notifier usecase.TicketNotifier
	mailSender := mail.NewEmailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From, cfg.SMTP.SupportInbox)
	if mailSender != nil {
		notifier = mailSender
	}

	sessionCache := cache.NewMemoryCache[string, *entity.Session](cfg.Auth.SessionCacheTTL)

	// 3. UseCases
	classifyUC := usecase.NewClassifySaleUseCase(database.NewClassificationStore(db), producer)
	saleUC := usecase.NewSaleUseCase(saleRepo, clientRepo, producer)
	clientUC := usecase.NewClientUseCase(clientRepo)
	ticketUC := usecase.NewTicketUseCase(ticketRepo, clientRepo, notifier)
	planUC := usecase.NewPlanUseCase(planRepo)
	webhookUC := usecase.NewWebhookUseCase(webhookRepo, webhookEventRepo, dispatcher)
	chipUC := usecase.NewChipUseCase(chipRepo)
	userUC := usecase.NewUserUseCase(userRepo, planRepo, userPlanRepo)
	authUC := usecase.NewAuthUseCase(userRepo, sessionRepo, sessionCache, cfg.Auth.SessionTTL)
	expireUC := usecase.NewExpireSalesUseCase(saleRepo, clientRepo, producer)

	if created, err := userUC.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return err
	} else if !created {
		if n, err := userRepo.Count(ctx); err == nil && n == 0 {
			log.Println("⚠️ Nenhum usuário cadastrado: rode 'create-admin' ou defina ADMIN_EMAIL/ADMIN_PASSWORD")
		}
	}

	// 4. Workers
	loginLimiter := handlers.NewRateLimiter(cfg.Auth.LoginRateLimit, time.Minute)
	loginLimiter.TrustProxy = cfg.Server.TrustedProxy
	background := []func(){
		func() {
			worker.NewSaleExpirationWorker(expireUC, cfg.Sales.PendingTTL, cfg.Sales.ExpirationInterval).Start(ctx)
		},
		func() { worker.NewSessionCleanupWorker(sessionRepo, time.Hour).Start(ctx) },
		func() { sessionCache.Run(ctx, 5*time.Minute) },
		func() { loginLimiter.Run(ctx, 10*time.Minute) },
	}
	for _, run := range background {
		run := run
		wg.Add(1)
		go func() {
			defer wg.Done()
			run()
		}()
	}

	// 5. Handlers + Router
	router := newRouter(routerDeps{
		cfg:          cfg,
		health:       handlers.NewHealthHandler(db, broker, Version),
		webhook:      handlers.NewWebhookHandler(classifyUC, cfg.Webhook.SalesToken),
		sales:        handlers.NewSaleHandler(saleUC),
		clients:      handlers.NewClientHandler(clientUC),
		tickets:      handlers.NewTicketHandler(ticketUC),
		admin:        handlers.NewAdminHandler(planUC, webhookUC, chipUC, userUC),
		auth:         handlers.NewAuthHandler(authUC),
		authenticate: authUC,
		loginLimiter: loginLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🔥 Salesdesk API rodando na porta %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Println("⚠️ Sinal recebido, encerrando...")
	case err := <-errCh:
		if err != nil {
			stop()
			wg.Wait()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Erro no shutdown HTTP: %v", err)
	}

	stop()
	wg.Wait()
	if local != nil {
		local.Wait()
	}
	if mailSender != nil {
		mailSender.Wait()
	}
	log.Println("👋 Servidor encerrado")
	return nil
}
