package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/Ministry-of-Technology-AU/dailyword/internal/game"
	"github.com/Ministry-of-Technology-AU/dailyword/internal/words"
)

// keyRequest is the body for /key, /delete and /guess. Mode defaults to the
// live daily puzzle; "archive" targets the current unrecorded replay.
type keyRequest struct {
	Letter string `json:"letter"`
	Mode   string `json:"mode"`
}

// archiveRequest is the body for /archive.
type archiveRequest struct {
	Length int `json:"length"`
}

// stateHandler reports the full display state for the requested session.
func (app *App) stateHandler(c *gin.Context) {
	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()

	mode := c.DefaultQuery("mode", ModeDaily)
	sess, ok := app.resolveSession(c, mode)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, app.sessionView(sess, mode))
}

// keyHandler appends a letter to the in-progress guess.
func (app *App) keyHandler(c *gin.Context) {
	var req keyRequest
	_ = c.ShouldBindJSON(&req)

	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()

	sess, ok := app.modifiableSession(c, req.Mode)
	if !ok {
		return
	}
	sess.AddLetter(req.Letter)
	c.JSON(http.StatusOK, app.sessionView(sess, req.Mode))
}

// deleteHandler removes the last letter of the in-progress guess.
func (app *App) deleteHandler(c *gin.Context) {
	var req keyRequest
	_ = c.ShouldBindJSON(&req)

	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()

	sess, ok := app.modifiableSession(c, req.Mode)
	if !ok {
		return
	}
	sess.DeleteLetter()
	c.JSON(http.StatusOK, app.sessionView(sess, req.Mode))
}

// guessHandler submits the in-progress guess. Validation failures come back
// as 422 with the session untouched.
func (app *App) guessHandler(c *gin.Context) {
	var req keyRequest
	_ = c.ShouldBindJSON(&req)

	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()

	sess, ok := app.modifiableSession(c, req.Mode)
	if !ok {
		return
	}

	if err := sess.SubmitGuess(); err != nil {
		msg := ErrorNotEnoughLetters
		if errors.Is(err, game.ErrNotInWordList) {
			msg = ErrorNotInWordList
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, app.sessionView(sess, req.Mode))
}

// archiveHandler starts (or restarts) an archive replay with a random word.
// Replays are never persisted and never touch the completion ledger.
func (app *App) archiveHandler(c *gin.Context) {
	var req archiveRequest
	_ = c.ShouldBindJSON(&req)

	length := req.Length
	if length == 0 {
		length = app.WordLength
	}

	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()

	target := app.Dict.RandomWord(length)
	if app.Archive == nil {
		sess, err := game.NewSession(target, words.DateKey(app.Now()), game.Deps{Dict: app.Dict, Now: app.Now})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		app.Archive = sess
	} else if err := app.Archive.Reset(target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logInfo("Archive replay started with %d-letter word", len(target))
	c.JSON(http.StatusOK, app.sessionView(app.Archive, ModeArchive))
}

// resultHandler returns the recorded completion for a past day.
func (app *App) resultHandler(c *gin.Context) {
	dateKey := c.Param("date")
	result, ok := app.Ledger.Result(dateKey)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrorNoResultForDate})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": dateKey, "result": result})
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"env":           map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"words_loaded":  app.Dict.Total(),
		"days_recorded": app.Ledger.Days(),
		"uptime":        formatUptime(uptime),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

// resolveSession returns the session for a mode, writing the error response
// itself when the mode is unknown or the daily session cannot be built.
func (app *App) resolveSession(c *gin.Context, mode string) (*game.Session, bool) {
	switch mode {
	case "", ModeDaily:
		sess, err := app.dailySession()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return nil, false
		}
		return sess, true
	case ModeArchive:
		return app.archiveOrNew(c)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorUnknownMode})
		return nil, false
	}
}

// modifiableSession is resolveSession plus the completion gate: a finished
// daily puzzle rejects further input with its recorded summary. The ledger is
// the authority here, independent of session state: even if the session
// snapshot is gone (corrupt file removed, fresh restore), a recorded day
// stays closed.
func (app *App) modifiableSession(c *gin.Context, mode string) (*game.Session, bool) {
	sess, ok := app.resolveSession(c, mode)
	if !ok {
		return nil, false
	}
	if mode == "" || mode == ModeDaily {
		if result, done := app.Ledger.Result(sess.DateKey); done {
			c.JSON(http.StatusConflict, gin.H{"error": ErrorAlreadyCompleted, "result": result})
			return nil, false
		}
	}
	return sess, true
}

// dailySession returns the cached session for today's puzzle, restoring from
// the store (or starting fresh) when the day or word has rolled over.
func (app *App) dailySession() (*game.Session, error) {
	now := app.Now()
	today := words.DateKey(now)
	target := app.Dict.DailyWord(now, app.DailySalt, app.WordLength)

	if app.Daily != nil && app.Daily.DateKey == today && app.Daily.TargetWord == target {
		return app.Daily, nil
	}

	snap, err := app.SessionStore.Load()
	if err != nil {
		logWarn("Failed to load stored session, starting fresh: %v", err)
		snap = nil
	}
	sess, err := game.Restore(snap, target, today, game.Deps{
		Dict:     app.Dict,
		Store:    app.SessionStore,
		Recorder: app.Ledger,
		Now:      app.Now,
	})
	if err != nil {
		return nil, err
	}
	app.Daily = sess
	return sess, nil
}

func (app *App) archiveOrNew(c *gin.Context) (*game.Session, bool) {
	if app.Archive == nil {
		sess, err := game.NewSession(app.Dict.RandomWord(app.WordLength), words.DateKey(app.Now()), game.Deps{Dict: app.Dict, Now: app.Now})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return nil, false
		}
		app.Archive = sess
	}
	return app.Archive, true
}

// sessionView maps a session to its display state. The target word is
// revealed only once the session is terminal.
func (app *App) sessionView(sess *game.Session, mode string) gin.H {
	if mode == "" {
		mode = ModeDaily
	}
	view := gin.H{
		"mode":           mode,
		"dateKey":        sess.DateKey,
		"wordLength":     len(sess.TargetWord),
		"maxGuesses":     game.MaxGuesses,
		"status":         sess.Status,
		"board":          boardRows(sess),
		"keyboard":       sess.Keyboard(),
		"guessCount":     len(sess.Guesses),
		"currentGuess":   sess.CurrentGuess,
		"elapsedSeconds": sess.Elapsed(app.Now()),
	}
	if sess.Status != game.StatusPlaying {
		view["targetWord"] = sess.TargetWord
	}
	if mode == ModeDaily {
		result, done := app.Ledger.Result(sess.DateKey)
		view["completed"] = done
		if done {
			view["result"] = result
		}
	}
	return view
}

// boardRows renders the fixed-size tile grid: evaluated rows first, then the
// in-progress row (typed letters are tbd), then empty rows.
func boardRows(sess *game.Session) [][]game.LetterEvaluation {
	width := len(sess.TargetWord)

	rows := lo.Map(sess.Guesses, func(g game.Guess, _ int) []game.LetterEvaluation {
		return g.Evaluation
	})

	if sess.Status == game.StatusPlaying && len(rows) < game.MaxGuesses {
		row := make([]game.LetterEvaluation, width)
		for i := range row {
			if i < len(sess.CurrentGuess) {
				row[i] = game.LetterEvaluation{Letter: string(sess.CurrentGuess[i]), State: game.LetterTBD}
			} else {
				row[i] = game.LetterEvaluation{State: game.LetterEmpty}
			}
		}
		rows = append(rows, row)
	}

	for len(rows) < game.MaxGuesses {
		row := make([]game.LetterEvaluation, width)
		for i := range row {
			row[i] = game.LetterEvaluation{State: game.LetterEmpty}
		}
		rows = append(rows, row)
	}

	return rows
}
