// errors.go: error taxonomy for the pulse logging engine.
package pulse

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/agilira/go-errors"
)

// Error codes. Grounded on the teacher's IRIS_* taxonomy in
// errors.go, renamed to this module's PULSE_* prefix and narrowed to
// the error taxonomy spec.md §7 actually names.
const (
	// Configuration errors — reported synchronously, no state mutation.
	ErrCodeInvalidLevel  errors.ErrorCode = "PULSE_INVALID_LEVEL"
	ErrCodeInvalidConfig errors.ErrorCode = "PULSE_INVALID_CONFIG"

	// Queue-full is not surfaced as an *errors.Error — spec.md §7 says
	// it is a silent drop plus counter increment. The engine emits no
	// periodic queue-full diagnostic; this code is not raised anywhere.
	ErrCodeQueueFull errors.ErrorCode = "PULSE_QUEUE_FULL"

	// Decoder invariant violation. The backend does not check decoder
	// invariants, so this code is not raised anywhere.
	ErrCodeDecoderInvariant errors.ErrorCode = "PULSE_DECODER_INVARIANT"

	// Handler failure: isolated per handler, other handlers still run.
	ErrCodeHandlerFailure errors.ErrorCode = "PULSE_HANDLER_FAILURE"

	// Time source fallback: cycle counter unavailable at startup.
	ErrCodeTimeSourceFallback errors.ErrorCode = "PULSE_TIME_SOURCE_FALLBACK"
)

// ErrorHandler handles errors the engine cannot return synchronously
// (handler write failures). Runs on the backend goroutine only.
type ErrorHandler func(err *errors.Error)

var defaultErrorHandler ErrorHandler = func(err *errors.Error) {
	fmt.Fprintf(os.Stderr, "[pulse] %s: %s\n", err.Code, err.Message)
	if err.Cause != nil {
		fmt.Fprintf(os.Stderr, "[pulse] caused by: %v\n", err.Cause)
	}
}

var currentErrorHandler = defaultErrorHandler

// SetErrorHandler installs a custom handler for engine-internal
// errors. Passing nil restores the default stderr handler.
func SetErrorHandler(h ErrorHandler) {
	if h == nil {
		currentErrorHandler = defaultErrorHandler
		return
	}
	currentErrorHandler = h
}

func handleError(err *errors.Error) {
	if err == nil {
		return
	}
	if err.Context == nil {
		err.Context = make(map[string]interface{})
	}
	err.Context["go_version"] = runtime.Version()
	currentErrorHandler(err)
}

// newEngineError builds a PULSE_* error with standard context,
// mirroring the teacher's NewLoggerError.
func newEngineError(code errors.ErrorCode, message string) *errors.Error {
	return errors.New(code, message).
		WithSeverity("error").
		WithContext("component", "pulse_engine").
		WithContext("timestamp", time.Now().UTC())
}

func validateErrorCodes() {
	codes := []errors.ErrorCode{
		ErrCodeInvalidLevel, ErrCodeInvalidConfig, ErrCodeQueueFull,
		ErrCodeDecoderInvariant, ErrCodeHandlerFailure, ErrCodeTimeSourceFallback,
	}
	for _, code := range codes {
		if len(string(code)) == 0 {
			panic("pulse: empty error code")
		}
		if string(code)[:6] != "PULSE_" {
			panic(fmt.Sprintf("pulse: error code %s does not follow PULSE_ prefix convention", code))
		}
	}
}

func init() {
	validateErrorCodes()
}
