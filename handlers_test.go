package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Ministry-of-Technology-AU/dailyword/internal/game"
	"github.com/Ministry-of-Technology-AU/dailyword/internal/ledger"
	"github.com/Ministry-of-Technology-AU/dailyword/internal/storage"
	"github.com/Ministry-of-Technology-AU/dailyword/internal/words"
)

var testWordList = []string{
	"CRANE", "BOARD", "CHAIR", "DANCE", "EAGLE", "FLAME", "GRAPE", "HONEY",
	"PLANET", "GARDEN",
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func newTestApp(t *testing.T) (*App, *fixedClock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	clock := &fixedClock{now: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)}
	return &App{
		Dict:           words.New(testWordList),
		Ledger:         ledger.New(storage.NewMemoryLedgerStore()),
		SessionStore:   storage.NewMemorySessionStore(),
		DailySalt:      "test-salt",
		WordLength:     5,
		StartTime:      time.Now(),
		Now:            clock.Now,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		LimiterMap:     make(map[string]*rate.Limiter),
	}, clock
}

func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, w.Body.String())
	}
	return out
}

func submitWord(router *gin.Engine, word string) *httptest.ResponseRecorder {
	for _, r := range word {
		performRequest(router, http.MethodPost, RouteKey, gin.H{"letter": string(r)})
	}
	return performRequest(router, http.MethodPost, RouteGuess, nil)
}

func TestStateHandlerFreshSession(t *testing.T) {
	app, _ := newTestApp(t)
	router := app.setupRouter()

	w := performRequest(router, http.MethodGet, RouteState, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /state: %d", w.Code)
	}
	body := decodeBody(t, w)

	if body["status"] != string(game.StatusPlaying) {
		t.Errorf("status: %v", body["status"])
	}
	if body["dateKey"] != "2026-09-01" {
		t.Errorf("dateKey: %v", body["dateKey"])
	}
	if body["wordLength"].(float64) != 5 {
		t.Errorf("wordLength: %v", body["wordLength"])
	}
	if body["completed"] != false {
		t.Errorf("completed: %v", body["completed"])
	}
	if _, revealed := body["targetWord"]; revealed {
		t.Error("target word revealed while playing")
	}
	board := body["board"].([]any)
	if len(board) != game.MaxGuesses {
		t.Errorf("board rows: %d", len(board))
	}
}

func TestKeyAndDeleteHandlers(t *testing.T) {
	app, _ := newTestApp(t)
	router := app.setupRouter()

	performRequest(router, http.MethodPost, RouteKey, gin.H{"letter": "c"})
	performRequest(router, http.MethodPost, RouteKey, gin.H{"letter": "R"})
	performRequest(router, http.MethodPost, RouteKey, gin.H{"letter": "7"}) // ignored
	w := performRequest(router, http.MethodPost, RouteDelete, nil)

	body := decodeBody(t, w)
	if body["currentGuess"] != "C" {
		t.Errorf("currentGuess: %v", body["currentGuess"])
	}
}

func TestGuessValidation(t *testing.T) {
	app, _ := newTestApp(t)
	router := app.setupRouter()

	w := performRequest(router, http.MethodPost, RouteGuess, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("empty guess: %d", w.Code)
	}
	if decodeBody(t, w)["error"] != ErrorNotEnoughLetters {
		t.Errorf("empty guess error: %s", w.Body.String())
	}

	w = submitWord(router, "ZZZZZ")
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown word: %d", w.Code)
	}
	if decodeBody(t, w)["error"] != ErrorNotInWordList {
		t.Errorf("unknown word error: %s", w.Body.String())
	}

	// Rejected input leaves the in-progress guess intact.
	w = performRequest(router, http.MethodGet, RouteState, nil)
	if decodeBody(t, w)["currentGuess"] != "ZZZZZ" {
		t.Errorf("currentGuess after rejection: %s", w.Body.String())
	}
}

func TestDailyWinFlow(t *testing.T) {
	app, clock := newTestApp(t)
	router := app.setupRouter()
	target := app.Dict.DailyWord(clock.now, app.DailySalt, app.WordLength)

	w := submitWord(router, target)
	if w.Code != http.StatusOK {
		t.Fatalf("winning guess: %d %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["status"] != string(game.StatusWon) {
		t.Errorf("status: %v", body["status"])
	}
	if body["targetWord"] != target {
		t.Errorf("target not revealed on win: %v", body["targetWord"])
	}
	if body["completed"] != true {
		t.Errorf("completed: %v", body["completed"])
	}

	// The ledger now gates further input.
	w = performRequest(router, http.MethodPost, RouteKey, gin.H{"letter": "A"})
	if w.Code != http.StatusConflict {
		t.Errorf("input after completion: %d", w.Code)
	}
	if decodeBody(t, w)["error"] != ErrorAlreadyCompleted {
		t.Errorf("completion gate error: %s", w.Body.String())
	}

	// And the day's result is queryable.
	w = performRequest(router, http.MethodGet, "/result/2026-09-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /result: %d", w.Code)
	}
	result := decodeBody(t, w)["result"].(map[string]any)
	if result["won"] != true || result["guessCount"].(float64) != 1 {
		t.Errorf("recorded result: %v", result)
	}

	w = performRequest(router, http.MethodGet, "/result/2026-08-31", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing result: %d", w.Code)
	}
}

// A recorded day stays closed even when the session snapshot is lost (the
// corrupt-file-removed path restores a fresh playing session): the ledger,
// not session state, gates re-entry.
func TestCompletionGateSurvivesLostSnapshot(t *testing.T) {
	app, clock := newTestApp(t)
	router := app.setupRouter()
	target := app.Dict.DailyWord(clock.now, app.DailySalt, app.WordLength)

	w := submitWord(router, target)
	if decodeBody(t, w)["status"] != string(game.StatusWon) {
		t.Fatalf("winning guess: %s", w.Body.String())
	}
	want, _ := app.Ledger.Result("2026-09-01")

	// Restart with the snapshot gone but the ledger intact.
	reborn := &App{
		Dict:           app.Dict,
		Ledger:         app.Ledger,
		SessionStore:   storage.NewMemorySessionStore(),
		DailySalt:      app.DailySalt,
		WordLength:     app.WordLength,
		StartTime:      time.Now(),
		Now:            clock.Now,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		LimiterMap:     make(map[string]*rate.Limiter),
	}
	rebornRouter := reborn.setupRouter()

	w = performRequest(rebornRouter, http.MethodPost, RouteKey, gin.H{"letter": "A"})
	if w.Code != http.StatusConflict {
		t.Fatalf("input on completed day after snapshot loss: %d %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["error"] != ErrorAlreadyCompleted {
		t.Errorf("completion gate error: %s", w.Body.String())
	}

	w = performRequest(rebornRouter, http.MethodPost, RouteGuess, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("guess on completed day after snapshot loss: %d", w.Code)
	}

	// The recorded result was not overwritten by a replay.
	got, ok := reborn.Ledger.Result("2026-09-01")
	if !ok || got != want {
		t.Errorf("ledger entry changed: got %+v, want %+v", got, want)
	}

	// The state view still reports the day as completed.
	w = performRequest(rebornRouter, http.MethodGet, RouteState, nil)
	if decodeBody(t, w)["completed"] != true {
		t.Errorf("state after snapshot loss: %s", w.Body.String())
	}
}

func TestDayRolloverStartsFresh(t *testing.T) {
	app, clock := newTestApp(t)
	router := app.setupRouter()

	performRequest(router, http.MethodPost, RouteKey, gin.H{"letter": "C"})
	performRequest(router, http.MethodPost, RouteKey, gin.H{"letter": "R"})

	clock.now = clock.now.Add(24 * time.Hour)

	w := performRequest(router, http.MethodGet, RouteState, nil)
	body := decodeBody(t, w)
	if body["dateKey"] != "2026-09-02" {
		t.Errorf("dateKey after rollover: %v", body["dateKey"])
	}
	if body["currentGuess"] != "" {
		t.Errorf("yesterday's typing leaked into today: %v", body["currentGuess"])
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	app, clock := newTestApp(t)
	router := app.setupRouter()

	target := app.Dict.DailyWord(clock.now, app.DailySalt, app.WordLength)
	miss := "BOARD"
	if miss == target {
		miss = "CHAIR"
	}
	submitWord(router, miss)
	performRequest(router, http.MethodPost, RouteKey, gin.H{"letter": "C"})

	// Same store, new App: a process restart mid-session.
	reborn := &App{
		Dict:           app.Dict,
		Ledger:         app.Ledger,
		SessionStore:   app.SessionStore,
		DailySalt:      app.DailySalt,
		WordLength:     app.WordLength,
		StartTime:      time.Now(),
		Now:            clock.Now,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		LimiterMap:     make(map[string]*rate.Limiter),
	}
	w := performRequest(reborn.setupRouter(), http.MethodGet, RouteState, nil)
	body := decodeBody(t, w)
	if body["guessCount"].(float64) != 1 {
		t.Errorf("guessCount after restart: %v", body["guessCount"])
	}
	if body["currentGuess"] != "C" {
		t.Errorf("currentGuess after restart: %v", body["currentGuess"])
	}
}

func TestArchiveReplayUnrecorded(t *testing.T) {
	app, _ := newTestApp(t)
	router := app.setupRouter()

	w := performRequest(router, http.MethodPost, RouteArchive, gin.H{"length": 6})
	if w.Code != http.StatusOK {
		t.Fatalf("POST /archive: %d %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["mode"] != ModeArchive || body["status"] != string(game.StatusPlaying) {
		t.Errorf("archive view: %v", body)
	}
	if body["wordLength"].(float64) != 6 {
		t.Errorf("archive word length: %v", body["wordLength"])
	}

	// Losing an archive replay records nothing in the ledger.
	target := app.Archive.TargetWord
	for _, r := range target {
		performRequest(router, http.MethodPost, RouteKey, gin.H{"letter": string(r), "mode": ModeArchive})
	}
	w = performRequest(router, http.MethodPost, RouteGuess, gin.H{"mode": ModeArchive})
	if decodeBody(t, w)["status"] != string(game.StatusWon) {
		t.Fatalf("archive win: %s", w.Body.String())
	}
	if app.Ledger.Days() != 0 {
		t.Error("archive replay leaked into the completion ledger")
	}
	if snap, _ := app.SessionStore.Load(); snap != nil {
		t.Error("archive replay was persisted")
	}
}

func TestUnknownMode(t *testing.T) {
	app, _ := newTestApp(t)
	router := app.setupRouter()
	w := performRequest(router, http.MethodGet, RouteState+"?mode=speedrun", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown mode: %d", w.Code)
	}
}

func TestHealthzHandler(t *testing.T) {
	app, _ := newTestApp(t)
	router := app.setupRouter()
	w := performRequest(router, http.MethodGet, RouteHealthz, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /healthz: %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "ok" {
		t.Errorf("healthz status: %v", body["status"])
	}
	if body["words_loaded"].(float64) != float64(len(testWordList)) {
		t.Errorf("words_loaded: %v", body["words_loaded"])
	}
}
