package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MixinNetwork/keymint/gate"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
)

const (
	HeaderSignature = "X-Signature"

	adminTimestampWindow = 5 * time.Minute
	maxSignedBodySize    = 1 << 16
	callerContextKey     = "caller"
)

// authenticate recovers the caller from a personal signature over the raw
// request body, the way a wallet signs a message.
func (s *HTTPServer) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSignedBodySize+1))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(body) > maxSignedBodySize {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		sig, err := hexutil.Decode(c.GetHeader(HeaderSignature))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid " + HeaderSignature})
			return
		}
		caller, err := gate.RecoverSigner(body, sig)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(callerContextKey, caller)
		c.Next()
	}
}

func callerFromContext(c *gin.Context) common.Address {
	return c.MustGet(callerContextKey).(common.Address)
}

// checkAdminTimestamp rejects replayed or stale administrative requests.
func (s *HTTPServer) checkAdminTimestamp(ts int64) error {
	now := time.Now()
	t := time.Unix(0, ts)
	if t.Before(now.Add(-adminTimestampWindow)) || t.After(now.Add(adminTimestampWindow)) {
		return fmt.Errorf("timestamp %d out of window", ts)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if ts <= s.lastAdmin {
		return errors.New("replayed timestamp")
	}
	s.lastAdmin = ts
	return nil
}
