package server

import (
	"fmt"
	"math/big"
	"net/http"

	"github.com/MixinNetwork/keymint/gate"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
)

type MintRequest struct {
	Collection uint64 `json:"collection"`
	Nonce      string `json:"nonce" binding:"required"`
	Signature  string `json:"signature" binding:"required"`
}

type AdminRequest struct {
	Action    string `json:"action" binding:"required"`
	Start     uint64 `json:"start"`
	End       uint64 `json:"end"`
	Timestamp int64  `json:"timestamp" binding:"required"`
}

func (s *HTTPServer) mint(c *gin.Context) {
	var req MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	nonce, ok := new(big.Int).SetString(req.Nonce, 10)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid nonce %s", req.Nonce)})
		return
	}
	sig, err := hexutil.Decode(req.Signature)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	act, err := s.gate.Mint(c.Request.Context(), callerFromContext(c), req.Collection, nonce, sig)
	mintRequestsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": act, "uri": s.ledger.URI(act.TokenId)})
}

func (s *HTTPServer) admin(c *gin.Context) {
	var req AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller := callerFromContext(c)
	if !s.gate.IsAdministrator(caller) {
		adminRequestsTotal.WithLabelValues(req.Action, "unauthorized").Inc()
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
		return
	}
	if err := s.checkAdminTimestamp(req.Timestamp); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var index uint64
	var err error
	switch req.Action {
	case gate.RevisionActionAdd:
		index, err = s.gate.AddCollection(ctx, caller, req.Start, req.End)
	case gate.RevisionActionAmend:
		index, err = s.gate.AmendTopCollection(ctx, caller, req.End)
	case gate.RevisionActionPause:
		err = s.gate.Pause(ctx, caller)
	case gate.RevisionActionUnpause:
		err = s.gate.Unpause(ctx, caller)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid action %s", req.Action)})
		return
	}
	adminRequestsTotal.WithLabelValues(req.Action, resultLabel(err)).Inc()
	if err != nil {
		renderError(c, err)
		return
	}

	switch req.Action {
	case gate.RevisionActionAdd, gate.RevisionActionAmend:
		col, err := s.gate.Collection(index)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": collectionView(index, col)})
	default:
		paused, err := s.ledger.Paused()
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"paused": paused}})
	}
}
