package http

import (
	"errors"
	"net/http"

	"github.com/Txrmarcos/offuscate-relay/internal/relayer"
	"github.com/Txrmarcos/offuscate-relay/internal/service"
	"github.com/Txrmarcos/offuscate-relay/internal/store"
	"github.com/Txrmarcos/offuscate-relay/internal/validators"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:   http.StatusBadRequest,
	service.ErrCampaignInactive:      http.StatusUnprocessableEntity,
	service.ErrVaultMismatch:         http.StatusUnprocessableEntity,
	service.ErrVersionIsNotSpecified: http.StatusBadRequest,

	validators.ErrMissingField:     http.StatusBadRequest,
	validators.ErrMalformedField:   http.StatusBadRequest,
	validators.ErrAmountNotAllowed: http.StatusBadRequest,
	validators.ErrUnknownField:     http.StatusBadRequest,

	store.ErrDuplicateCommitment: http.StatusConflict,
	store.ErrDonationNotFound:    http.StatusNotFound,
	store.ErrCampaignNotFound:    http.StatusNotFound,
	store.ErrCampaignExists:      http.StatusConflict,
	store.ErrInvalidTransition:   http.StatusInternalServerError,

	relayer.ErrBatchInProgress:    http.StatusConflict,
	relayer.ErrRelayerUnderfunded: http.StatusServiceUnavailable,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
