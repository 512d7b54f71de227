package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FightFi/Sportsbook/internal/domain"
	"github.com/FightFi/Sportsbook/internal/sportsbook"
)

type MockSportsbookService struct {
	mock.Mock
}

func (m *MockSportsbookService) CreateSeason(ctx context.Context, seasonID int64, cutOffTime time.Time, escrowAsset string, fights []sportsbook.FightSpec) (*domain.Season, error) {
	args := m.Called(ctx, seasonID, cutOffTime, escrowAsset, fights)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Season), args.Error(1)
}

func (m *MockSportsbookService) GetSeason(ctx context.Context, seasonID int64) (*domain.SeasonDetail, error) {
	args := m.Called(ctx, seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeasonDetail), args.Error(1)
}

func (m *MockSportsbookService) LockPredictions(ctx context.Context, account string, seasonID int64, entries []domain.PredictionEntry) (*domain.LockReceipt, error) {
	args := m.Called(ctx, account, seasonID, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LockReceipt), args.Error(1)
}

func (m *MockSportsbookService) Resolve(ctx context.Context, seasonID int64, winningOutcomes []uint8) error {
	args := m.Called(ctx, seasonID, winningOutcomes)
	return args.Error(0)
}

func (m *MockSportsbookService) Claim(ctx context.Context, account string, seasonID int64) (*domain.ClaimResult, error) {
	args := m.Called(ctx, account, seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClaimResult), args.Error(1)
}

func (m *MockSportsbookService) GetPositionPayout(ctx context.Context, account string, seasonID int64, fightIdx int) (*domain.PositionPayout, error) {
	args := m.Called(ctx, account, seasonID, fightIdx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PositionPayout), args.Error(1)
}

func (m *MockSportsbookService) RequiredSeed(ctx context.Context, seasonID int64, hypotheticalOutcomes []uint8) (*domain.SeedPlan, error) {
	args := m.Called(ctx, seasonID, hypotheticalOutcomes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeedPlan), args.Error(1)
}

func (m *MockSportsbookService) SeedPrizePool(ctx context.Context, seasonID int64, fightIdx int, amount int64) error {
	args := m.Called(ctx, seasonID, fightIdx, amount)
	return args.Error(0)
}

func (m *MockSportsbookService) SeedAllFights(ctx context.Context, seasonID int64, hypotheticalOutcomes []uint8, autoApply bool) (*domain.SeedPlan, error) {
	args := m.Called(ctx, seasonID, hypotheticalOutcomes, autoApply)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeedPlan), args.Error(1)
}

func (m *MockSportsbookService) RecoverResidual(ctx context.Context, seasonID int64, recipient string) (*domain.SweepResult, error) {
	args := m.Called(ctx, seasonID, recipient)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SweepResult), args.Error(1)
}

const testAddr = "0x1111111111111111111111111111111111111111"

func postJSON(t *testing.T, handlerFunc http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handlerFunc(rec, req)
	return rec
}

func TestHandleCreateSeason(t *testing.T) {
	mockService := new(MockSportsbookService)
	h := NewSportsbookHandler(mockService)

	cutOff := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	season := &domain.Season{ID: 7, FightCount: 1, EscrowAsset: "USDF"}
	mockService.On("CreateSeason", mock.Anything, int64(7), cutOff, "USDF",
		[]sportsbook.FightSpec{{MinStake: 1, MaxStake: 100, OutcomeCount: 8, PrizeSeed: 50}}).
		Return(season, nil)

	rec := postJSON(t, h.HandleCreateSeason, CreateSeasonRequest{
		SeasonID:    7,
		CutOffTime:  cutOff,
		EscrowAsset: "USDF",
		Fights:      []FightSpecRequest{{MinStake: 1, MaxStake: 100, OutcomeCount: 8, PrizeSeed: 50}},
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got domain.Season
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(7), got.ID)
	mockService.AssertExpectations(t)
}

func TestHandleCreateSeasonValidation(t *testing.T) {
	h := NewSportsbookHandler(new(MockSportsbookService))

	// Missing fights entirely.
	rec := postJSON(t, h.HandleCreateSeason, CreateSeasonRequest{
		SeasonID:    7,
		CutOffTime:  time.Now().Add(time.Hour),
		EscrowAsset: "USDF",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrMsgInvalidRequestSummary, resp.Error)
	assert.Contains(t, resp.Fields, "fights")
}

func TestHandleCreateSeasonConflict(t *testing.T) {
	mockService := new(MockSportsbookService)
	h := NewSportsbookHandler(mockService)

	mockService.On("CreateSeason", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrSeasonAlreadyExists)

	rec := postJSON(t, h.HandleCreateSeason, CreateSeasonRequest{
		SeasonID:    7,
		CutOffTime:  time.Now().Add(time.Hour),
		EscrowAsset: "USDF",
		Fights:      []FightSpecRequest{{MinStake: 1, MaxStake: 100, OutcomeCount: 8}},
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrMsgSeasonAlreadyExistsError, resp.Error)
}

func TestHandleLockPredictions(t *testing.T) {
	mockService := new(MockSportsbookService)
	h := NewSportsbookHandler(mockService)

	receipt := &domain.LockReceipt{Account: testAddr, SeasonID: 1, TotalStaked: 30}
	mockService.On("LockPredictions", mock.Anything, testAddr, int64(1),
		[]domain.PredictionEntry{{FightIdx: 0, Outcome: 2, Stake: 30}}).
		Return(receipt, nil)

	rec := postJSON(t, h.HandleLockPredictions, LockPredictionsRequest{
		Account:     testAddr,
		SeasonID:    1,
		Predictions: []PredictionRequest{{FightIdx: 0, Outcome: 2, Stake: 30}},
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandleLockPredictionsBadAccount(t *testing.T) {
	h := NewSportsbookHandler(new(MockSportsbookService))

	rec := postJSON(t, h.HandleLockPredictions, LockPredictionsRequest{
		Account:     "not-an-address",
		SeasonID:    1,
		Predictions: []PredictionRequest{{FightIdx: 0, Outcome: 0, Stake: 30}},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "account")
}

func TestHandleResolveSeason(t *testing.T) {
	mockService := new(MockSportsbookService)
	h := NewSportsbookHandler(mockService)

	mockService.On("Resolve", mock.Anything, int64(1), []uint8{0, 4}).Return(nil)

	rec := postJSON(t, h.HandleResolveSeason, ResolveSeasonRequest{
		SeasonID:        1,
		WinningOutcomes: []uint8{0, 4},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandleResolveSeasonNoPossibleWinner(t *testing.T) {
	mockService := new(MockSportsbookService)
	h := NewSportsbookHandler(mockService)

	mockService.On("Resolve", mock.Anything, int64(1), []uint8{0}).
		Return(domain.ErrNoPossibleWinner)

	rec := postJSON(t, h.HandleResolveSeason, ResolveSeasonRequest{
		SeasonID:        1,
		WinningOutcomes: []uint8{0},
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrMsgNoPossibleWinnerError, resp.Error)
}

func TestHandleClaim(t *testing.T) {
	mockService := new(MockSportsbookService)
	h := NewSportsbookHandler(mockService)

	result := &domain.ClaimResult{Account: testAddr, SeasonID: 1, TotalPayout: 120, FightsClaimed: []int{0, 2}}
	mockService.On("Claim", mock.Anything, testAddr, int64(1)).Return(result, nil)

	rec := postJSON(t, h.HandleClaim, ClaimRequest{Account: testAddr, SeasonID: 1})

	assert.Equal(t, http.StatusOK, rec.Code)
	var got domain.ClaimResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(120), got.TotalPayout)
	assert.Equal(t, []int{0, 2}, got.FightsClaimed)
}

func TestHandleClaimWindowClosed(t *testing.T) {
	mockService := new(MockSportsbookService)
	h := NewSportsbookHandler(mockService)

	mockService.On("Claim", mock.Anything, testAddr, int64(1)).
		Return(nil, domain.ErrClaimWindowClosed)

	rec := postJSON(t, h.HandleClaim, ClaimRequest{Account: testAddr, SeasonID: 1})

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrMsgClaimWindowClosedError, resp.Error)
}

func TestHandleGetPositionPayout(t *testing.T) {
	mockService := new(MockSportsbookService)
	h := NewSportsbookHandler(mockService)

	payout := &domain.PositionPayout{HasPosition: true, Eligible: true, Points: 4, Payout: 110}
	mockService.On("GetPositionPayout", mock.Anything, testAddr, int64(1), 2).Return(payout, nil)

	req := httptest.NewRequest(http.MethodGet, "/?account="+testAddr+"&season_id=1&fight_idx=2", nil)
	rec := httptest.NewRecorder()
	h.HandleGetPositionPayout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got domain.PositionPayout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(110), got.Payout)
}

func TestHandleGetPositionPayoutMissingParams(t *testing.T) {
	h := NewSportsbookHandler(new(MockSportsbookService))

	req := httptest.NewRequest(http.MethodGet, "/?account="+testAddr, nil)
	rec := httptest.NewRecorder()
	h.HandleGetPositionPayout(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetSeason(t *testing.T) {
	mockService := new(MockSportsbookService)
	h := NewSportsbookHandler(mockService)

	mockService.On("GetSeason", mock.Anything, int64(9)).
		Return(nil, domain.ErrSeasonNotFound)

	req := httptest.NewRequest(http.MethodGet, "/?id=9", nil)
	rec := httptest.NewRecorder()
	h.HandleGetSeason(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSeedPreview(t *testing.T) {
	mockService := new(MockSportsbookService)
	h := NewSportsbookHandler(mockService)

	plan := &domain.SeedPlan{SeasonID: 1, TotalSeed: 12}
	mockService.On("RequiredSeed", mock.Anything, int64(1), []uint8{0, 0}).Return(plan, nil)

	rec := postJSON(t, h.HandleSeedPreview, SeedPreviewRequest{
		SeasonID:             1,
		HypotheticalOutcomes: []uint8{0, 0},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	var got domain.SeedPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(12), got.TotalSeed)
}

func TestHandleSeedAllFights(t *testing.T) {
	mockService := new(MockSportsbookService)
	h := NewSportsbookHandler(mockService)

	plan := &domain.SeedPlan{SeasonID: 1, TotalSeed: 5, Applied: true}
	mockService.On("SeedAllFights", mock.Anything, int64(1), []uint8{0}, true).Return(plan, nil)

	rec := postJSON(t, h.HandleSeedAllFights, SeedApplyRequest{
		SeasonID:             1,
		HypotheticalOutcomes: []uint8{0},
		AutoApply:            true,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandleRecoverResidual(t *testing.T) {
	mockService := new(MockSportsbookService)
	h := NewSportsbookHandler(mockService)

	result := &domain.SweepResult{SeasonID: 1, Recipient: testAddr, Amount: 44}
	mockService.On("RecoverResidual", mock.Anything, int64(1), testAddr).Return(result, nil)

	rec := postJSON(t, h.HandleRecoverResidual, RecoverResidualRequest{
		SeasonID:  1,
		Recipient: testAddr,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	var got domain.SweepResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(44), got.Amount)
}
