package server

import (
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/MixinNetwork/keymint/gate"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type CollectionView struct {
	Index     uint64 `json:"index"`
	Start     uint64 `json:"start"`
	End       uint64 `json:"end"`
	Minted    uint64 `json:"minted"`
	Remaining uint64 `json:"remaining"`
}

func collectionView(index uint64, c gate.Collection) CollectionView {
	return CollectionView{
		Index:     index,
		Start:     c.Start,
		End:       c.End,
		Minted:    c.Minted,
		Remaining: c.Capacity() - c.Minted,
	}
}

func (s *HTTPServer) listCollections(c *gin.Context) {
	collections := s.gate.Collections()
	views := make([]CollectionView, len(collections))
	for i, col := range collections {
		views[i] = collectionView(uint64(i), col)
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (s *HTTPServer) readCollection(c *gin.Context) {
	index, err := strconv.ParseUint(c.Param("index"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	col, err := s.gate.Collection(index)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": collectionView(index, col)})
}

func (s *HTTPServer) readSupply(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"total_supply": s.gate.TotalSupply()}})
}

func (s *HTTPServer) readKey(c *gin.Context) {
	collection, err := strconv.ParseUint(c.Param("collection"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	nonce, ok := new(big.Int).SetString(c.Param("nonce"), 10)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid nonce"})
		return
	}
	redeemed, err := s.gate.IsRedeemed(collection, nonce)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"collection": collection,
		"nonce":      nonce.String(),
		"redeemed":   redeemed,
		"trace_id":   gate.MintTraceId(collection, nonce),
	}})
}

func (s *HTTPServer) readToken(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	owner, err := s.ledger.OwnerOf(id)
	if err != nil {
		renderError(c, err)
		return
	}
	if owner == (common.Address{}) {
		c.JSON(http.StatusNotFound, gin.H{"error": "token not found"})
		return
	}
	data := gin.H{"id": id, "owner": owner.Hex(), "uri": s.ledger.URI(id)}
	if index, _, ok := s.gate.CollectionOf(id); ok {
		data["collection"] = index
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (s *HTTPServer) listOwnerTokens(c *gin.Context) {
	addr := c.Param("address")
	if !common.IsHexAddress(addr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
		return
	}
	tokens, err := s.ledger.TokensOfOwner(common.HexToAddress(addr), queryLimit(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tokens})
}

func (s *HTTPServer) listMints(c *gin.Context) {
	var offset time.Time
	if o := c.Query("offset"); o != "" {
		t, err := time.Parse(time.RFC3339Nano, o)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		offset = t
	}
	acts, err := s.gate.ListMintActions(offset, queryLimit(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": acts})
}

func (s *HTTPServer) readMint(c *gin.Context) {
	id, err := uuid.FromString(c.Param("trace"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	act, err := s.gate.ReadMintAction(id.String())
	if err != nil {
		renderError(c, err)
		return
	}
	if act == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "mint not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": act})
}

func (s *HTTPServer) listRevisions(c *gin.Context) {
	revs, err := s.gate.ListRevisions(queryLimit(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": revs})
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 || limit > 500 {
		return 100
	}
	return limit
}
