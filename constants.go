package main

// Route constants
const (
	RouteState   = "/state"
	RouteKey     = "/key"
	RouteDelete  = "/delete"
	RouteGuess   = "/guess"
	RouteArchive = "/archive"
	RouteResult  = "/result/:date"
	RouteHealthz = "/healthz"
)

// Session mode constants
const (
	ModeDaily   = "daily"
	ModeArchive = "archive"
)

// Error message constants
const (
	ErrorNotEnoughLetters = "Not enough letters."
	ErrorNotInWordList    = "Not in word list."
	ErrorAlreadyCompleted = "Today's puzzle is already completed."
	ErrorUnknownMode      = "Unknown session mode."
	ErrorNoResultForDate  = "No result recorded for that date."
)

// Context key constants
type contextKey string

const requestIDKey contextKey = "request_id"
