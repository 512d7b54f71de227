package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/FightFi/Sportsbook/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// bufferPool reduces allocations during JSON encoding
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	// Encode to the buffer first; headers are already sent, so an encoding
	// failure can only be logged.
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	// Season registry messages
	ErrMsgSeasonNotFoundError      = "Season not found"
	ErrMsgSeasonAlreadyExistsError = "A season with that ID already exists"
	ErrMsgSeasonResolvedError      = "Season is already resolved"
	ErrMsgSeasonNotResolvedError   = "Season is not resolved yet"
	ErrMsgSeasonClosedError        = "Predictions are closed for this season"
	ErrMsgFightNotFoundError       = "Fight not found"

	// Prediction messages
	ErrMsgInvalidOutcomeError  = "Invalid outcome value"
	ErrMsgDuplicateFightError  = "Duplicate fight in prediction batch"
	ErrMsgStakeOutOfRangeError = "Stake is outside the fight's allowed range"
	ErrMsgPositionExistsError  = "You already have a position on that fight"

	// Resolution messages
	ErrMsgNoPossibleWinnerError = "A fight has no backers on the winning outcome"

	// Claim and sweep messages
	ErrMsgClaimWindowClosedError = "The claim window has closed"
	ErrMsgNothingToClaimError    = "Nothing to claim"
	ErrMsgWindowStillOpenError   = "The claim window is still open"
	ErrMsgNothingToSweepError    = "No residual escrow to sweep"

	// Ledger messages
	ErrMsgInsufficientFundsError = "Insufficient funds"
	ErrMsgTransferDeniedError    = "Transfer rejected by ledger policy"

	// Input messages
	ErrMsgInvalidInputError = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses so internal detail never leaks to API clients.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrSeasonNotFound):
		return http.StatusNotFound, ErrMsgSeasonNotFoundError
	case errors.Is(err, domain.ErrSeasonAlreadyExists):
		return http.StatusConflict, ErrMsgSeasonAlreadyExistsError
	case errors.Is(err, domain.ErrSeasonResolved):
		return http.StatusConflict, ErrMsgSeasonResolvedError
	case errors.Is(err, domain.ErrSeasonNotResolved):
		return http.StatusConflict, ErrMsgSeasonNotResolvedError
	case errors.Is(err, domain.ErrSeasonClosed):
		return http.StatusConflict, ErrMsgSeasonClosedError
	case errors.Is(err, domain.ErrFightNotFound):
		return http.StatusBadRequest, ErrMsgFightNotFoundError
	case errors.Is(err, domain.ErrInvalidOutcome):
		return http.StatusBadRequest, ErrMsgInvalidOutcomeError
	case errors.Is(err, domain.ErrDuplicateFight):
		return http.StatusBadRequest, ErrMsgDuplicateFightError
	case errors.Is(err, domain.ErrStakeOutOfRange):
		return http.StatusBadRequest, ErrMsgStakeOutOfRangeError
	case errors.Is(err, domain.ErrPositionExists):
		return http.StatusConflict, ErrMsgPositionExistsError
	case errors.Is(err, domain.ErrNoPossibleWinner):
		return http.StatusConflict, ErrMsgNoPossibleWinnerError
	case errors.Is(err, domain.ErrClaimWindowClosed):
		return http.StatusConflict, ErrMsgClaimWindowClosedError
	case errors.Is(err, domain.ErrNothingToClaim):
		return http.StatusConflict, ErrMsgNothingToClaimError
	case errors.Is(err, domain.ErrClaimWindowStillOpen):
		return http.StatusConflict, ErrMsgWindowStillOpenError
	case errors.Is(err, domain.ErrNothingToSweep):
		return http.StatusConflict, ErrMsgNothingToSweepError
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgInsufficientFundsError
	case errors.Is(err, domain.ErrTransferDenied):
		return http.StatusBadRequest, ErrMsgTransferDeniedError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
