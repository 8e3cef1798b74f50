package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Txrmarcos/offuscate-relay/internal/service"
	"github.com/Txrmarcos/offuscate-relay/internal/store"
	"github.com/Txrmarcos/offuscate-relay/models"
)

func enqueueBody() string {
	return `{
		"commitment": "` + strings.Repeat("ab", 32) + `",
		"nullifier": "` + strings.Repeat("cd", 32) + `",
		"secretHash": "` + strings.Repeat("ef", 32) + `",
		"amount": 100000000,
		"campaignId": "clean-water",
		"campaignVault": "vault",
		"donorSignature": "sig"
	}`
}

func TestEnqueueDonation_Success(t *testing.T) {
	svcs := testServices()
	svcs.QueueService = &mockQueueSvc{
		enqueueResp: models.EnqueueDonationResponse{
			Success:       true,
			DonationID:    "don-1",
			QueuePosition: 3,
		},
	}
	router := newTestRouter(t, svcs)

	req := httptest.NewRequest(http.MethodPost, "/queue-donation", strings.NewReader(enqueueBody()))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.EnqueueDonationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "don-1", resp.DonationID)
	assert.Equal(t, 3, resp.QueuePosition)
}

func TestEnqueueDonation_InvalidJSON(t *testing.T) {
	router := newTestRouter(t, testServices())

	req := httptest.NewRequest(http.MethodPost, "/queue-donation", strings.NewReader(`{ nope`))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEnqueueDonation_ValidationError(t *testing.T) {
	svcs := testServices()
	svcs.QueueService = &mockQueueSvc{enqueueErr: service.ErrInvalidDataProvided}
	router := newTestRouter(t, svcs)

	req := httptest.NewRequest(http.MethodPost, "/queue-donation", strings.NewReader(enqueueBody()))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp models.EnqueueDonationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestEnqueueDonation_DuplicateCommitmentReturns409WithExistingID(t *testing.T) {
	svcs := testServices()
	svcs.QueueService = &mockQueueSvc{
		enqueueResp: models.EnqueueDonationResponse{
			DonationID: "don-existing",
			Error:      "commitment already queued",
		},
		enqueueErr: store.ErrDuplicateCommitment,
	}
	router := newTestRouter(t, svcs)

	req := httptest.NewRequest(http.MethodPost, "/queue-donation", strings.NewReader(enqueueBody()))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)

	var resp models.EnqueueDonationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "don-existing", resp.DonationID)
	assert.False(t, resp.Success)
}

func TestEnqueueDonation_InactiveCampaign(t *testing.T) {
	svcs := testServices()
	svcs.QueueService = &mockQueueSvc{enqueueErr: service.ErrCampaignInactive}
	router := newTestRouter(t, svcs)

	req := httptest.NewRequest(http.MethodPost, "/queue-donation", strings.NewReader(enqueueBody()))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestQueueLookup_ByID(t *testing.T) {
	processed := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	svcs := testServices()
	svcs.QueueService = &mockQueueSvc{
		statusResp: models.DonationStatusResponse{
			ID:          "don-1",
			Status:      models.StatusCompleted,
			ProcessedAt: &processed,
			TxSignature: "sig-1",
		},
	}
	router := newTestRouter(t, svcs)

	req := httptest.NewRequest(http.MethodGet, "/queue-donation?id=don-1", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.DonationStatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "don-1", resp.ID)
	assert.Equal(t, models.StatusCompleted, resp.Status)
	assert.Equal(t, "sig-1", resp.TxSignature)
}

func TestQueueLookup_ByCommitment(t *testing.T) {
	svcs := testServices()
	svcs.QueueService = &mockQueueSvc{
		statusResp: models.DonationStatusResponse{ID: "don-2", Status: models.StatusPending},
	}
	router := newTestRouter(t, svcs)

	req := httptest.NewRequest(http.MethodGet, "/queue-donation?commitment="+strings.Repeat("ab", 32), nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.DonationStatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "don-2", resp.ID)
}

func TestQueueLookup_NotFound(t *testing.T) {
	svcs := testServices()
	svcs.QueueService = &mockQueueSvc{statusErr: store.ErrDonationNotFound}
	router := newTestRouter(t, svcs)

	req := httptest.NewRequest(http.MethodGet, "/queue-donation?id=missing", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestQueueLookup_StatsWithoutParams(t *testing.T) {
	svcs := testServices()
	svcs.QueueService = &mockQueueSvc{
		statsResp: models.QueueStatsResponse{
			QueueStats: models.QueueStats{Pending: 4, Completed: 10, Total: 14},
		},
	}
	router := newTestRouter(t, svcs)

	req := httptest.NewRequest(http.MethodGet, "/queue-donation", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.QueueStatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Pending)
	assert.Equal(t, 14, resp.Total)
}
