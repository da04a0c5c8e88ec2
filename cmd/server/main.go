package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	_ "github.com/neon-lab-dev/medhrplus-server/docs"
	"github.com/neon-lab-dev/medhrplus-server/internal/api"
	"github.com/neon-lab-dev/medhrplus-server/internal/api/handler"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/service"
	"github.com/neon-lab-dev/medhrplus-server/internal/infrastructure/config"
	mongodb "github.com/neon-lab-dev/medhrplus-server/internal/infrastructure/db/mongo"
	redisdb "github.com/neon-lab-dev/medhrplus-server/internal/infrastructure/db/redis"
	"github.com/neon-lab-dev/medhrplus-server/internal/infrastructure/export"
	"github.com/neon-lab-dev/medhrplus-server/internal/infrastructure/imaging"
	"github.com/neon-lab-dev/medhrplus-server/internal/infrastructure/mail"
	"github.com/neon-lab-dev/medhrplus-server/internal/infrastructure/payment"
	"github.com/neon-lab-dev/medhrplus-server/internal/infrastructure/queue"
	"github.com/neon-lab-dev/medhrplus-server/internal/infrastructure/storage"
	"github.com/neon-lab-dev/medhrplus-server/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	bodyLimit       = "10M"
)

// @title                       MedHRPlus API
// @version                     1.0
// @description                 Job board backend for employees, employers and admins.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction(), Service: cfg.AppName})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting server")

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server exited")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Datastores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB, Timeout: cfg.Redis.Timeout})
	if err != nil {
		return err
	}
	defer rdb.Close()

	employeeRepo := mongodb.NewEmployeeRepository(db)
	employerRepo := mongodb.NewEmployerRepository(db)
	adminRepo := mongodb.NewAdminRepository(db)
	jobRepo := mongodb.NewJobRepository(db)
	courseRepo := mongodb.NewCourseRepository(db)
	eventRepo := mongodb.NewEventRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(db)

	if err := mongodb.EnsureIndexes(ctx, employeeRepo, employerRepo, adminRepo, jobRepo, courseRepo, eventRepo, paymentRepo); err != nil {
		return err
	}

	// --- Collaborators ---
	storageCfg := storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		Region:    cfg.Storage.Region,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		PublicURL: cfg.Storage.PublicURL,
	}
	s3Client, err := storage.NewS3Client(ctx, storageCfg)
	if err != nil {
		return err
	}
	fileStore := storage.NewS3Store(s3Client, storageCfg)

	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})
	if !mailer.IsConfigured() {
		log.Warn().Msg("SMTP host not configured, outgoing email will fail")
	}

	dispatcher := queue.NewDispatcher(cfg.Mail.Workers, cfg.Mail.QueueSize, mailer, logger.Component(log, "mail_queue"))
	gateway := payment.NewMidtrans(payment.Config{ServerKey: cfg.Midtrans.ServerKey, Production: cfg.Midtrans.Production})
	locker := redisdb.NewLocker(rdb, uuid.NewString())
	limiter := redisdb.NewUploadLimiter(rdb, cfg.Storage.UploadsPerWindow, cfg.Storage.UploadWindow)
	uploads := service.NewUploader(fileStore, limiter, cfg.Storage.MaxUploadBytes, log)

	// --- Services ---
	tokens := service.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	accountCfg := service.AccountConfig{
		AppName:     cfg.AppName,
		FrontendURL: cfg.FrontendURL,
		OTPTTL:      cfg.Accounts.OTPTTL,
		ResetTTL:    cfg.Accounts.ResetTTL,
	}
	employeeAccounts := service.NewAccountService[domain.Employee](employeeRepo, domain.RoleEmployee, tokens, mailer, accountCfg, log)
	employerAccounts := service.NewAccountService[domain.Employer](employerRepo, domain.RoleEmployer, tokens, mailer, accountCfg, log)
	adminAccounts := service.NewAccountService[domain.Admin](adminRepo, domain.RoleAdmin, tokens, mailer, accountCfg, log)

	contactEmail := cfg.Accounts.ContactEmail
	if contactEmail == "" {
		contactEmail = cfg.Accounts.AdminEmail
	}

	deps := api.Deps{
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		BodyLimit:   bodyLimit,
		Resolver:    service.NewResolver(tokens, employeeRepo, employerRepo, adminRepo),

		EmployeeAccounts: employeeAccounts,
		EmployerAccounts: employerAccounts,
		AdminAccounts:    adminAccounts,

		Employees: service.NewEmployeeService(employeeRepo, uploads, log),
		Employers: service.NewEmployerService(employerRepo, employeeRepo, uploads, imaging.NewThumbnailer(0), mailer, cfg.AppName, log),
		Admin: service.NewAdminService(service.AdminDeps{
			Employers: employerRepo,
			Employees: employeeRepo,
			Jobs:      jobRepo,
			Courses:   courseRepo,
			Events:    eventRepo,
		}, uploads, mailer, cfg.AppName, contactEmail, log),
		Jobs: service.NewJobService(service.JobDeps{
			Jobs:      jobRepo,
			Employees: employeeRepo,
			Mailer:    mailer,
			Queue:     dispatcher,
			Exporter:  export.NewApplicantExporter(),
		}, cfg.AppName, log),
		Courses: service.NewCourseService(service.CourseDeps{
			Courses: courseRepo,
			Uploads: uploads,
			Mailer:  mailer,
			Queue:   dispatcher,
		}, cfg.AppName, log),
		Events:   service.NewEventService(eventRepo, uploads, log),
		Payments: service.NewPaymentService(paymentRepo, gateway, redisdb.NewDedupChecker(rdb), log),

		Health: []handler.Dependency{
			{Name: "mongodb", Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
			{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
	}

	if err := seedAdmin(ctx, cfg, adminAccounts, log); err != nil {
		return err
	}

	// --- Background work ---
	sweeper := service.NewRegistrationSweeper(map[string]ports.ExpiredRegistrationPurger{
		string(domain.RoleEmployee): employeeRepo,
		string(domain.RoleEmployer): employerRepo,
	}, locker, cfg.Accounts.SweepInterval, logger.Component(log, "sweeper"))

	bgCtx, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()
	dispatcher.Start(bgCtx)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		sweeper.Run(bgCtx)
	}()

	// --- HTTP ---
	e := api.NewRouter(deps)
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ":"+cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			cancelBg()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server forced to shut down")
	}

	// Requests are drained; stop the sweeper and the mail workers.
	cancelBg()
	<-sweepDone
	dispatcher.Wait()
	return nil
}

// seedAdmin creates the configured admin account on first start.
func seedAdmin(ctx context.Context, cfg *config.Config, admins ports.AccountService[domain.Admin], log zerolog.Logger) error {
	if cfg.Accounts.AdminEmail == "" {
		return nil
	}
	_, err := admins.CreateVerified(ctx, ports.RegisterInput{
		FullName:        cfg.Accounts.AdminName,
		Email:           cfg.Accounts.AdminEmail,
		Password:        cfg.Accounts.AdminPassword,
		ConfirmPassword: cfg.Accounts.AdminPassword,
	})
	switch {
	case err == nil:
		log.Info().Str("email", cfg.Accounts.AdminEmail).Msg("admin account created")
	case errors.Is(err, domain.ErrConflict):
		log.Debug().Str("email", cfg.Accounts.AdminEmail).Msg("admin account already exists")
	default:
		return err
	}
	return nil
}
