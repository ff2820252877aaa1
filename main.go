package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lpernett/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/sampark-ai/sampark-backend/handlers"
	"github.com/sampark-ai/sampark-backend/utils"
)

// Load environment variables from .env file
func init() {
	log.Info("Loading environment variables")
	err := godotenv.Load()
	if err != nil {
		log.Warn("Error loading .env file")
	}
}

func main() {
	// Set up logging
	log.SetLevel(log.DebugLevel)
	log.SetFormatter(&log.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	log.Info("Server Version: Sampark Backend V2")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create zap logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := utils.LoadConfigFromEnv()

	// Set up Redis chat memory (optional)
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:        cfg.RedisAddr,
			Password:    cfg.RedisPassword,
			DB:          0,
			DialTimeout: 20 * time.Second, // initial connection timeout
		})

		redisCtx, cancelRedis := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelRedis()

		if _, err := redisClient.Ping(redisCtx).Result(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Info("Successfully connected to Redis")
	} else {
		log.Warn("REDIS_HOST not set, chat memory disabled")
	}

	// Set up AI collaborators
	openaiClient := utils.NewOpenAIClient(cfg)
	bhashiniClient := utils.NewBhashiniClient(cfg)
	deepgramClient := utils.InitDeepgramClient(cfg)
	speechService := utils.NewSpeechService(bhashiniClient, deepgramClient, openaiClient)

	var schemeIndex *utils.SchemeIndex
	if cfg.EnableRAG {
		idxCtx, cancelIdx := context.WithTimeout(context.Background(), 15*time.Second)
		schemeIndex, err = utils.NewSchemeIndex(idxCtx, cfg)
		cancelIdx()
		if err != nil {
			log.Warn("Failed to initialize scheme index, RAG disabled: ", err)
			schemeIndex = nil
		}
	}

	registry := handlers.NewSessionRegistry()

	screenHandler := &handlers.ScreenShareHandler{
		Registry: registry,
		Analyzer: openaiClient,
		Speech:   speechService,
		Enabled:  cfg.EnableScreenGuide,
	}
	chatHandler := &handlers.ChatHandler{
		Completer: openaiClient,
		Schemes:   schemeIndex,
		Speech:    speechService,
		Memory:    utils.NewChatMemory(redisClient),
	}
	voiceHandler := &handlers.VoiceHandler{
		Transcriber: speechService,
		Speech:      speechService,
	}
	schemesHandler := &handlers.SchemesHandler{
		Schemes: schemeIndex,
	}
	healthHandler := &handlers.HealthHandler{
		Registry: registry,
		Config:   cfg,
	}

	// Define HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", healthHandler.HandleHealth)
	mux.HandleFunc("POST /api/chat/query", chatHandler.HandleChatQuery)
	mux.HandleFunc("POST /api/voice/transcribe", voiceHandler.HandleTranscribe)
	mux.HandleFunc("POST /api/voice/synthesize", voiceHandler.HandleSynthesize)
	mux.HandleFunc("POST /api/screen/analyze", screenHandler.HandleScreenAnalyze)
	mux.HandleFunc("GET /api/schemes/search", schemesHandler.HandleSchemeSearch)
	mux.HandleFunc("/ws/screen/{session_id}", screenHandler.HandleScreenShare)

	// Set up signal handling
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverExit := make(chan struct{})

	// Start HTTP server in a goroutine
	go func() {
		addr := ":" + cfg.Port
		log.Info("Starting server on ", addr)
		log.Error(http.ListenAndServe(addr, mux))
		close(serverExit)
	}()

	// On termination, close all connections and shut down the server
	select {
	case <-stop:
		log.Info("Shutting down server...")
	case <-serverExit:
		log.Info("Server exited unexpectedly...")
	}

	if redisClient != nil {
		redisClient.Close()
	}

	log.Info("Server shut down gracefully")
}
