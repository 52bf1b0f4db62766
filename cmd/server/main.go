package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cbodonnell/wordlink/pkg/api"
	"github.com/cbodonnell/wordlink/pkg/clients"
	"github.com/cbodonnell/wordlink/pkg/game"
	"github.com/cbodonnell/wordlink/pkg/log"
	"github.com/cbodonnell/wordlink/pkg/network"
	"github.com/cbodonnell/wordlink/pkg/oracle"
	"github.com/cbodonnell/wordlink/pkg/queue"
	"github.com/cbodonnell/wordlink/pkg/repositories"
	"github.com/cbodonnell/wordlink/pkg/version"
	"github.com/cbodonnell/wordlink/pkg/workers"
)

func main() {
	wsPort := flag.Int("ws-port", 8888, "WebSocket port to listen on")
	apiPort := flag.Int("api-port", 3000, "API port to listen on")
	logLevel := flag.String("log-level", "info", "Log level")
	repositoryType := flag.String("repository-type", "sqlite", "Repository type (firestore, postgres, sqlite)")
	sqlitePath := flag.String("sqlite-path", "wordlink.db", "Path to the SQLite database")
	sqliteMigrations := flag.String("sqlite-migrations", "migrations/sqlite", "Path to the SQLite migrations directory")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting server version %s", version.Get())
	ctx := context.Background()

	var repository repositories.Repository
	switch *repositoryType {
	case "firestore":
		projectID := os.Getenv("FIRESTORE_PROJECT_ID")
		if projectID == "" {
			panic("FIRESTORE_PROJECT_ID environment variable must be set")
		}
		repository, err = repositories.NewFirestoreRepository(ctx, repositories.NewFirestoreRepositoryOptions{
			ProjectID:       projectID,
			CredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		})
		if err != nil {
			panic(fmt.Sprintf("Failed to create firestore repository: %v", err))
		}
	case "postgres":
		connStr := os.Getenv("DATABASE_URL")
		if connStr == "" {
			panic("DATABASE_URL environment variable must be set")
		}
		repository, err = repositories.NewPostgresRepository(ctx, connStr)
		if err != nil {
			panic(fmt.Sprintf("Failed to create postgres repository: %v", err))
		}
	case "sqlite":
		repository, err = repositories.NewSQLiteRepository(ctx, *sqlitePath, *sqliteMigrations)
		if err != nil {
			panic(fmt.Sprintf("Failed to create sqlite repository: %v", err))
		}
	default:
		panic(fmt.Sprintf("Unknown repository type: %s", *repositoryType))
	}
	defer repository.Close(ctx)

	clientManager := clients.NewClientManager()
	eventQueue := queue.NewInMemoryQueue(10000)

	wsServer := network.NewWSServer(network.NewWSServerOptions{
		Port:          *wsPort,
		ClientManager: clientManager,
		EventQueue:    eventQueue,
	})
	go wsServer.Start(ctx)

	store := game.NewGameStore()

	saveChan := make(chan workers.SaveRequest, 100)
	saveInterval := 10 * time.Second
	saveGameStateWorker := workers.NewSaveGameStateWorker(workers.NewSaveGameStateWorkerOptions{
		Repository:  repository,
		SaveChan:    saveChan,
		Snapshotter: store,
		Interval:    saveInterval,
	})
	go saveGameStateWorker.Start(ctx)

	broadcastChan := make(chan workers.BroadcastMessage, 100)
	broadcastWorker := workers.NewBroadcastMessageWorker(workers.NewBroadcastMessageWorkerOptions{
		ClientManager:        clientManager,
		BroadcastMessageChan: broadcastChan,
	})
	go broadcastWorker.Start(ctx)

	wordOracle := oracle.NewOpenAIOracle(oracle.NewOpenAIOracleOptions{})

	coordinator := game.NewCoordinator(game.NewCoordinatorOptions{
		Store:         store,
		EventQueue:    eventQueue,
		Oracle:        wordOracle,
		Repository:    repository,
		SaveChan:      saveChan,
		BroadcastChan: broadcastChan,
		LoopInterval:  50 * time.Millisecond,
		OracleTimeout: 10 * time.Second,
	})

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:            *apiPort,
		PromptGenerator: coordinator,
	})
	go apiServer.Start()

	log.Info("Starting session coordinator")
	if err := coordinator.Start(ctx); err != nil {
		log.Error("Session coordinator error: %v", err)
	}
}
