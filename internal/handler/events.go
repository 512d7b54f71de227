package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/FightFi/Sportsbook/internal/eventlog"
)

const defaultEventQueryLimit = 100

// HandleGetEvents exposes the audit trail with optional account, type and
// time-range filters.
func HandleGetEvents(service eventlog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := eventlog.EventFilter{Limit: defaultEventQueryLimit}

		if account := r.URL.Query().Get("account"); account != "" {
			filter.Account = &account
		}
		if eventType := r.URL.Query().Get("type"); eventType != "" {
			filter.EventType = &eventType
		}
		if since := r.URL.Query().Get("since"); since != "" {
			t, err := time.Parse(time.RFC3339, since)
			if err != nil {
				http.Error(w, fmt.Sprintf(ErrMsgInvalidQueryParam, "since"), http.StatusBadRequest)
				return
			}
			filter.Since = &t
		}
		if until := r.URL.Query().Get("until"); until != "" {
			t, err := time.Parse(time.RFC3339, until)
			if err != nil {
				http.Error(w, fmt.Sprintf(ErrMsgInvalidQueryParam, "until"), http.StatusBadRequest)
				return
			}
			filter.Until = &t
		}
		if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
			limit, err := strconv.Atoi(rawLimit)
			if err != nil || limit <= 0 {
				http.Error(w, fmt.Sprintf(ErrMsgInvalidQueryParam, "limit"), http.StatusBadRequest)
				return
			}
			filter.Limit = limit
		}

		events, err := service.GetEvents(r.Context(), filter)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetEventsFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, events)
	}
}
