package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/worldguard/WorldGuard/common"
	"github.com/worldguard/WorldGuard/model"
	"github.com/worldguard/WorldGuard/pkg/log"
	"github.com/worldguard/WorldGuard/pkg/worldid"
)

var NotInQueueErr = fmt.Errorf("user not found in verification queue")

// ProofVerifier checks a proof against the World ID cloud verifier.
type ProofVerifier interface {
	Verify(ctx context.Context, payload worldid.Payload, action, signal string) (*worldid.Result, error)
}

// Completer finalizes a pending verification.
type Completer interface {
	Complete(chatID, userID int64) bool
}

// StatusSource reads the live verification queue.
type StatusSource interface {
	Get(chatID, userID int64) (model.Verification, bool)
}

type VerificationController struct {
	Verifier  ProofVerifier
	Completer Completer
	Store     StatusSource
	// Action is the expected incognito action; requests naming another one
	// are rejected before the verifier is called.
	Action string
}

type verifyRequest struct {
	Payload json.RawMessage `json:"payload"`
	Action  string          `json:"action"`
	Signal  string          `json:"signal"`
}

// PostVerify relays a proof of personhood: it validates the proof with the
// World ID portal, then finalizes the verification the signal points at.
func (c *VerificationController) PostVerify(ctx *gin.Context) {
	var req verifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || len(req.Payload) == 0 || req.Action == "" || req.Signal == "" {
		common.ResponseBadRequestError(ctx)
		return
	}
	if req.Action != c.Action {
		common.ResponseError(ctx, http.StatusBadRequest, fmt.Errorf("unknown action"))
		return
	}
	userID, chatID, err := model.ParseSignal(req.Signal)
	if err != nil {
		common.ResponseError(ctx, http.StatusBadRequest, err)
		return
	}
	payload, err := decodePayload(req.Payload)
	if err != nil {
		common.ResponseError(ctx, http.StatusBadRequest, fmt.Errorf("malformed proof payload"))
		return
	}

	res, err := c.Verifier.Verify(ctx.Request.Context(), payload, req.Action, req.Signal)
	if err != nil {
		log.Warn("verify proof for user %v in chat %v: %v", userID, chatID, err)
		common.ResponseError(ctx, http.StatusInternalServerError, fmt.Errorf("internal error"))
		return
	}
	if !res.Success {
		log.Info("proof rejected for user %v in chat %v: %v %v", userID, chatID, res.Code, res.Detail)
		common.Response(ctx, http.StatusBadRequest, common.FAIL, gin.H{
			"Reason": res.Code,
			"Detail": res.Detail,
		})
		return
	}

	if !c.Completer.Complete(chatID, userID) {
		common.ResponseError(ctx, http.StatusNotFound, NotInQueueErr)
		return
	}
	common.ResponseSuccess(ctx, gin.H{
		"Verified": true,
	})
}

// GetStatus reports whether the signal's verification is pending or done.
func (c *VerificationController) GetStatus(ctx *gin.Context) {
	userID, chatID, err := model.ParseSignal(ctx.Param("Signal"))
	if err != nil {
		common.ResponseError(ctx, http.StatusBadRequest, err)
		return
	}
	rec, ok := c.Store.Get(chatID, userID)
	if !ok {
		common.ResponseError(ctx, http.StatusNotFound, NotInQueueErr)
		return
	}
	status := "pending"
	if rec.Progress == model.VerificationVerified {
		status = "verified"
	}
	common.ResponseSuccess(ctx, gin.H{
		"Status":   status,
		"JoinedAt": rec.JoinedAt,
	})
}

// decodePayload accepts the proof either as a JSON object or as a
// JSON-encoded string: the mini app stringifies the proof before posting.
func decodePayload(raw json.RawMessage) (worldid.Payload, error) {
	b := []byte(raw)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := jsoniter.Unmarshal(b, &s); err != nil {
			return worldid.Payload{}, err
		}
		b = []byte(s)
	}
	var payload worldid.Payload
	if err := jsoniter.Unmarshal(b, &payload); err != nil {
		return worldid.Payload{}, err
	}
	if payload.Proof == "" || payload.NullifierHash == "" || payload.MerkleRoot == "" {
		return worldid.Payload{}, fmt.Errorf("incomplete proof")
	}
	return payload, nil
}
