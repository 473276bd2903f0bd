// @title           RagOps API
// @version         0.3.0
// @description     Document ingestion, grounded chat and evaluation runs over a RAG pipeline.

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/ragops/internal/bootstrap"
	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/handlers"
	"github.com/akolanti/ragops/internal/middleware"
	"github.com/akolanti/ragops/internal/server"
	"github.com/akolanti/ragops/internal/worker"
	"github.com/akolanti/ragops/pkg/logger_i"
)

var (
	configPath        string
	listenAddr        string
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	flag.StringVar(&configPath, "config", config.SettingsPath(), "path to the settings file")
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address (overrides the settings file)")
	flag.Parse()

	settings, err := config.Load(configPath)
	if err != nil {
		logger_i.Init("error", config.IS_PROD)
		logger_i.NewLogger("main").Error("Invalid settings", "error", err)
		os.Exit(1)
	}
	if listenAddr != "" {
		settings.Server.ListenAddr = listenAddr
	}

	logger_i.Init(settings.LogLevel, config.IS_PROD)
	var logger = logger_i.NewLogger("main")

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	stack, err := bootstrap.Build(serviceContext, settings)
	if err != nil {
		logger.Error("Could not initialize services. Shutting down.", "error", err)
		return
	}

	logger.Info("Starting job service")
	jobService := stack.NewJobService()

	handler := handlers.NewHandler(handlers.Dependencies{
		Jobs:      jobService,
		Rag:       stack.Rag,
		Ingest:    stack.Ingest,
		Documents: stack.Documents,
		Evals:     stack.Evals,
		Traces:    stack.Traces,
		Health:    stack.Health,
	})
	router := server.NewRouter(handler, middleware.New(settings.Server))

	//init worker pool
	stopWorkerChannel = make(chan bool, 1)
	worker.InitServices(jobService, stack.Rag)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices: func() {
			stack.Close()
			closeExternalServices()
		},
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(settings.Server.ListenAddr, router)

	<-stopExecution
	logger.Info("Server stopped")
}
