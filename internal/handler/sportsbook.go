package handler

import (
	"net/http"
	"time"

	"github.com/FightFi/Sportsbook/internal/domain"
	"github.com/FightFi/Sportsbook/internal/sportsbook"
)

type SportsbookHandler struct {
	service sportsbook.Service
}

func NewSportsbookHandler(service sportsbook.Service) *SportsbookHandler {
	return &SportsbookHandler{service: service}
}

type FightSpecRequest struct {
	MinStake     int64 `json:"min_stake" validate:"gt=0"`
	MaxStake     int64 `json:"max_stake" validate:"gtefield=MinStake"`
	OutcomeCount uint8 `json:"outcome_count" validate:"gte=2,lte=8"`
	PrizeSeed    int64 `json:"prize_seed" validate:"gte=0"`
}

type CreateSeasonRequest struct {
	SeasonID    int64              `json:"season_id" validate:"required,gt=0"`
	CutOffTime  time.Time          `json:"cut_off_time" validate:"required"`
	EscrowAsset string             `json:"escrow_asset" validate:"required"`
	Fights      []FightSpecRequest `json:"fights" validate:"required,min=1,dive"`
}

func (h *SportsbookHandler) HandleCreateSeason(w http.ResponseWriter, r *http.Request) {
	var req CreateSeasonRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create season"); err != nil {
		return
	}

	fights := make([]sportsbook.FightSpec, len(req.Fights))
	for i, f := range req.Fights {
		fights[i] = sportsbook.FightSpec{
			MinStake:     f.MinStake,
			MaxStake:     f.MaxStake,
			OutcomeCount: f.OutcomeCount,
			PrizeSeed:    f.PrizeSeed,
		}
	}

	season, err := h.service.CreateSeason(r.Context(), req.SeasonID, req.CutOffTime, req.EscrowAsset, fights)
	if err != nil {
		respondServiceError(w, r, ErrMsgCreateSeasonFailed, err)
		return
	}

	respondJSON(w, http.StatusCreated, season)
}

func (h *SportsbookHandler) HandleGetSeason(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := GetInt64QueryParam(r, w, "id")
	if !ok {
		return
	}

	detail, err := h.service.GetSeason(r.Context(), seasonID)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetSeasonFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

type PredictionRequest struct {
	FightIdx int   `json:"fight_idx" validate:"gte=0"`
	Outcome  uint8 `json:"outcome" validate:"lte=7"`
	Stake    int64 `json:"stake" validate:"gt=0"`
}

type LockPredictionsRequest struct {
	Account     string              `json:"account" validate:"required,account"`
	SeasonID    int64               `json:"season_id" validate:"required,gt=0"`
	Predictions []PredictionRequest `json:"predictions" validate:"required,min=1,dive"`
}

func (h *SportsbookHandler) HandleLockPredictions(w http.ResponseWriter, r *http.Request) {
	var req LockPredictionsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Lock predictions"); err != nil {
		return
	}

	entries := make([]domain.PredictionEntry, len(req.Predictions))
	for i, p := range req.Predictions {
		entries[i] = domain.PredictionEntry{
			FightIdx: p.FightIdx,
			Outcome:  p.Outcome,
			Stake:    p.Stake,
		}
	}

	receipt, err := h.service.LockPredictions(r.Context(), req.Account, req.SeasonID, entries)
	if err != nil {
		respondServiceError(w, r, ErrMsgLockPredictionsFailed, err)
		return
	}

	respondJSON(w, http.StatusCreated, receipt)
}

type ResolveSeasonRequest struct {
	SeasonID        int64   `json:"season_id" validate:"required,gt=0"`
	WinningOutcomes []uint8 `json:"winning_outcomes" validate:"required,min=1"`
}

func (h *SportsbookHandler) HandleResolveSeason(w http.ResponseWriter, r *http.Request) {
	var req ResolveSeasonRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Resolve season"); err != nil {
		return
	}

	if err := h.service.Resolve(r.Context(), req.SeasonID, req.WinningOutcomes); err != nil {
		respondServiceError(w, r, ErrMsgResolveFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSeasonResolvedSuccess})
}

type ClaimRequest struct {
	Account  string `json:"account" validate:"required,account"`
	SeasonID int64  `json:"season_id" validate:"required,gt=0"`
}

func (h *SportsbookHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	var req ClaimRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Claim winnings"); err != nil {
		return
	}

	result, err := h.service.Claim(r.Context(), req.Account, req.SeasonID)
	if err != nil {
		respondServiceError(w, r, ErrMsgClaimFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *SportsbookHandler) HandleGetPositionPayout(w http.ResponseWriter, r *http.Request) {
	account, ok := GetQueryParam(r, w, "account")
	if !ok {
		return
	}
	seasonID, ok := GetInt64QueryParam(r, w, "season_id")
	if !ok {
		return
	}
	fightIdx, ok := GetIntQueryParam(r, w, "fight_idx")
	if !ok {
		return
	}

	payout, err := h.service.GetPositionPayout(r.Context(), account, seasonID, fightIdx)
	if err != nil {
		respondServiceError(w, r, ErrMsgPositionPayoutFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, payout)
}

type SeedPreviewRequest struct {
	SeasonID             int64   `json:"season_id" validate:"required,gt=0"`
	HypotheticalOutcomes []uint8 `json:"hypothetical_outcomes" validate:"required,min=1"`
}

func (h *SportsbookHandler) HandleSeedPreview(w http.ResponseWriter, r *http.Request) {
	var req SeedPreviewRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Seed preview"); err != nil {
		return
	}

	plan, err := h.service.RequiredSeed(r.Context(), req.SeasonID, req.HypotheticalOutcomes)
	if err != nil {
		respondServiceError(w, r, ErrMsgRequiredSeedFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

type SeedFightRequest struct {
	SeasonID int64 `json:"season_id" validate:"required,gt=0"`
	FightIdx int   `json:"fight_idx" validate:"gte=0"`
	Amount   int64 `json:"amount" validate:"gt=0"`
}

func (h *SportsbookHandler) HandleSeedFight(w http.ResponseWriter, r *http.Request) {
	var req SeedFightRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Seed fight"); err != nil {
		return
	}

	if err := h.service.SeedPrizePool(r.Context(), req.SeasonID, req.FightIdx, req.Amount); err != nil {
		respondServiceError(w, r, ErrMsgSeedFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgPrizePoolSeeded})
}

type SeedApplyRequest struct {
	SeasonID             int64   `json:"season_id" validate:"required,gt=0"`
	HypotheticalOutcomes []uint8 `json:"hypothetical_outcomes" validate:"required,min=1"`
	AutoApply            bool    `json:"auto_apply"`
}

func (h *SportsbookHandler) HandleSeedAllFights(w http.ResponseWriter, r *http.Request) {
	var req SeedApplyRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Seed all fights"); err != nil {
		return
	}

	plan, err := h.service.SeedAllFights(r.Context(), req.SeasonID, req.HypotheticalOutcomes, req.AutoApply)
	if err != nil {
		respondServiceError(w, r, ErrMsgSeedFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

type RecoverResidualRequest struct {
	SeasonID  int64  `json:"season_id" validate:"required,gt=0"`
	Recipient string `json:"recipient" validate:"required,account"`
}

func (h *SportsbookHandler) HandleRecoverResidual(w http.ResponseWriter, r *http.Request) {
	var req RecoverResidualRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Recover residual"); err != nil {
		return
	}

	result, err := h.service.RecoverResidual(r.Context(), req.SeasonID, req.Recipient)
	if err != nil {
		respondServiceError(w, r, ErrMsgRecoverFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
