package main

import (
	"context"
	"fmt"

	"github.com/MixinNetwork/keymint/gate"
	"github.com/MixinNetwork/keymint/nft"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var mintedTokensTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "keymint",
		Subsystem: "engine",
		Name:      "minted_tokens_total",
		Help:      "Total number of tokens minted by redeemed access keys",
	},
	[]string{"collection"},
)

type MintWorker struct {
	ledger *nft.Ledger
}

func (mw *MintWorker) ProcessMint(ctx context.Context, act *gate.MintAction) {
	mintedTokensTotal.WithLabelValues(fmt.Sprint(act.Collection)).Inc()
	logger.Printf("MintWorker.ProcessMint(%s) => %d %s %s\n",
		act.TraceId, act.TokenId, act.Claimant, mw.ledger.URI(act.TokenId))
}
