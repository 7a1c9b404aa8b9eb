package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"

	ginGzip "github.com/gin-contrib/gzip"

	"golang.org/x/time/rate"

	"github.com/Ministry-of-Technology-AU/dailyword/internal/game"
	"github.com/Ministry-of-Technology-AU/dailyword/internal/ledger"
	"github.com/Ministry-of-Technology-AU/dailyword/internal/storage"
	"github.com/Ministry-of-Technology-AU/dailyword/internal/words"
)

// App carries the server's long-lived state: the loaded dictionary, the
// completion ledger, the persisted daily session and its archive-replay
// counterpart, plus config and rate-limiter bookkeeping.
type App struct {
	Dict         *words.Dictionary
	Ledger       *ledger.Ledger
	SessionStore storage.SessionStore

	// Daily is the cached session for today's puzzle; Archive is the current
	// unrecorded replay, if any. Both guarded by SessionMutex: all state
	// transitions are synchronous mutate-then-persist steps.
	Daily        *game.Session
	Archive      *game.Session
	SessionMutex sync.Mutex

	DailySalt    string
	WordLength   int
	IsProduction bool
	StartTime    time.Time
	Now          func() time.Time

	RateLimitRPS   int
	RateLimitBurst int
	LimiterMap     map[string]*rate.Limiter
	LimiterMutex   sync.Mutex
}

func main() {
	_ = godotenv.Load()

	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	logInfo("Starting Dailyword in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	dict, err := words.Load(getEnvString("WORDS_FILE", "data/words.json"))
	if err != nil {
		logFatal("Failed to load words: %v", err)
	}
	logInfo("Loaded %d words from dictionary", dict.Total())

	dataDir := getEnvString("DATA_DIR", "data/state")
	sessionStore, err := storage.NewSessionFile(dataDir)
	if err != nil {
		logFatal("Failed to open session store: %v", err)
	}
	ledgerStore, err := storage.NewLedgerFile(dataDir)
	if err != nil {
		logFatal("Failed to open ledger store: %v", err)
	}

	led := ledger.New(ledgerStore)
	logInfo("Completion ledger holds %d recorded days", led.Days())

	app := &App{
		Dict:           dict,
		Ledger:         led,
		SessionStore:   sessionStore,
		DailySalt:      getEnvString("DAILY_SALT", "dailyword"),
		WordLength:     getEnvInt("WORD_LENGTH", words.DefaultLength),
		IsProduction:   isProduction,
		StartTime:      time.Now(),
		Now:            time.Now,
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		LimiterMap:     make(map[string]*rate.Limiter),
	}

	startServer(app.setupRouter())
}

// setupRouter wires middleware and routes.
func (app *App) setupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	// Game state is never cacheable: every response reflects the live session.
	router.Use(cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	}))
	router.Use(requestIDMiddleware())

	router.GET(RouteState, app.stateHandler)
	router.POST(RouteKey, app.rateLimitMiddleware(), app.keyHandler)
	router.POST(RouteDelete, app.rateLimitMiddleware(), app.deleteHandler)
	router.POST(RouteGuess, app.rateLimitMiddleware(), app.guessHandler)
	router.POST(RouteArchive, app.rateLimitMiddleware(), app.archiveHandler)
	router.GET(RouteResult, app.resultHandler)
	router.GET(RouteHealthz, app.healthzHandler)

	return router
}

func startServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdownTimeout := getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}
