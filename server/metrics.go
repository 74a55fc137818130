package server

import (
	"errors"

	"github.com/MixinNetwork/keymint/gate"
	"github.com/MixinNetwork/keymint/nft"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mintRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "keymint",
			Subsystem: "http",
			Name:      "mint_requests_total",
			Help:      "Total number of mint requests by result",
		},
		[]string{"result"},
	)

	adminRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "keymint",
			Subsystem: "http",
			Name:      "admin_requests_total",
			Help:      "Total number of administrative requests by action and result",
		},
		[]string{"action", "result"},
	)
)

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, gate.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, gate.ErrInvalidAccessKey):
		return "invalid_key"
	case errors.Is(err, gate.ErrAlreadyUsed):
		return "already_used"
	case errors.Is(err, gate.ErrSoldOut):
		return "sold_out"
	case errors.Is(err, gate.ErrIndexOutOfRange):
		return "index_out_of_range"
	case errors.Is(err, gate.ErrPaused):
		return "paused"
	case errors.Is(err, gate.ErrRangeInvalid),
		errors.Is(err, gate.ErrRangeOverlap),
		errors.Is(err, gate.ErrNoCollection),
		errors.Is(err, gate.ErrSupplyViolation),
		errors.Is(err, nft.ErrAlreadyPaused),
		errors.Is(err, nft.ErrNotPaused):
		return "rejected"
	}
	return "error"
}
