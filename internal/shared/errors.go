package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Remote API errors. ErrRemoteUnavailable terminates a pagination run;
	// completed pages survive, the failing page is never merged in part.
	ErrRemoteUnavailable = fmt.Errorf("remote service unavailable")
	ErrPlaylistNotFound  = fmt.Errorf("playlist not found")
	ErrChatUnavailable   = fmt.Errorf("chat service unavailable")

	// Library errors
	ErrLibraryNotLoaded = fmt.Errorf("library not loaded")
	ErrNoValidTracks    = fmt.Errorf("no valid tracks")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
