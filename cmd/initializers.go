package main

import (
	"fmt"
	"net/http"
	"time"

	"bimtrack/app/handler"
	"bimtrack/app/router"
	"bimtrack/internal/jobs"
	"bimtrack/internal/service"
	"bimtrack/pkg/config"
	"bimtrack/pkg/logger"
	queue "bimtrack/pkg/queue/asynq"
	mysqlstore "bimtrack/pkg/store/mysql"
	redisstore "bimtrack/pkg/store/redis"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// initConfig loads configuration
func (app *Application) initConfig() error {
	if err := config.Init(); err != nil {
		return err
	}
	app.config = config.GlobalConfig
	return nil
}

// initLogger initializes the logger
func (app *Application) initLogger() error {
	return logger.Init()
}

// initMySQL connects to MySQL and builds the repositories
func (app *Application) initMySQL() error {
	cfg := app.config.MySQL
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	repo, err := mysqlstore.NewRepository(dsn)
	if err != nil {
		return err
	}
	app.mysqlRepo = repo
	app.registerCleanup(func() {
		if err := repo.Close(); err != nil {
			logger.ErrorCtx(app.ctx, "failed to close MySQL connection: %v", err)
		}
	})
	return nil
}

// initRedis connects to redis
func (app *Application) initRedis() error {
	client, err := redisstore.NewRedisClient(app.config)
	if err != nil {
		return err
	}
	app.redisClient = client
	app.registerCleanup(func() {
		if err := client.Close(); err != nil {
			logger.ErrorCtx(app.ctx, "failed to close redis connection: %v", err)
		}
	})
	return nil
}

// initQueue builds the aggregation trigger queue
func (app *Application) initQueue() error {
	manager, err := queue.NewManager(app.config)
	if err != nil {
		return err
	}
	app.queueManager = manager
	app.registerCleanup(func() {
		if err := manager.Close(); err != nil {
			logger.ErrorCtx(app.ctx, "failed to close queue client: %v", err)
		}
	})
	return nil
}

// initServices builds the service layer and registers the trigger handlers
func (app *Application) initServices() error {
	cacheCfg := app.config.Cache
	subtaskCache := redisstore.NewRefCache(app.redisClient, service.CacheKindSubtask, time.Duration(cacheCfg.SubtaskTTL)*time.Second)
	projectCache := redisstore.NewRefCache(app.redisClient, service.CacheKindProject, time.Duration(cacheCfg.ProjectTTL)*time.Second)
	employeeCache := redisstore.NewRefCache(app.redisClient, service.CacheKindEmployee, time.Duration(cacheCfg.EmployeeTTL)*time.Second)

	commitLock := redisstore.NewCommitLock(app.redisClient, time.Duration(app.config.Report.CommitLockSeconds)*time.Second)

	app.referenceService = service.NewReferenceService(app.mysqlRepo, subtaskCache, projectCache, employeeCache)
	app.reportService = service.NewReportService(app.mysqlRepo.Entry, app.referenceService, app.queueManager, commitLock, app.config)
	app.aggregationService = service.NewAggregationService(
		app.mysqlRepo.Entry,
		app.mysqlRepo.Subtask,
		app.mysqlRepo.Task,
		app.mysqlRepo.GetDatastore(),
		app.referenceService,
		app.queueManager,
	)
	app.subtaskService = service.NewSubtaskService(app.mysqlRepo, app.referenceService, app.queueManager)

	app.queueManager.RegisterHandler(queue.TypeAggregateSubtask, asynq.HandlerFunc(app.aggregationService.HandleSubtaskTrigger))
	app.queueManager.RegisterHandler(queue.TypeAggregateTask, asynq.HandlerFunc(app.aggregationService.HandleTaskTrigger))
	return nil
}

// initJobs registers background jobs
func (app *Application) initJobs() error {
	app.jobsManager = jobs.NewManager(app.ctx)

	if app.config.Queue.SweepInterval > 0 {
		interval := time.Duration(app.config.Queue.SweepInterval) * time.Second
		app.jobsManager.Register(jobs.NewReaggregationSweep(app.mysqlRepo.Entry, app.queueManager, interval))
	} else {
		logger.InfoCtx(app.ctx, "reaggregation sweep disabled")
	}
	return nil
}

// initHandlers builds the handler layer
func (app *Application) initHandlers() error {
	app.reportHandler = handler.NewReportHandler(app.reportService)
	app.subtaskHandler = handler.NewSubtaskHandler(app.subtaskService)
	app.adminHandler = handler.NewAdminHandler(app.aggregationService, app.referenceService)
	return nil
}

// initHTTPServer builds the gin engine and HTTP server
func (app *Application) initHTTPServer() error {
	gin.SetMode(app.config.Server.Mode)
	app.ginEngine = gin.New()

	r := router.NewRouter(app.reportHandler, app.subtaskHandler, app.adminHandler)
	r.Setup(app.ginEngine)

	app.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.ginEngine,
	}
	return nil
}
