package server

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bellujrb/zkvip-ethglobal/internal/app/admission"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/evidence"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/pipeline"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/progress"
	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
	"github.com/bellujrb/zkvip-ethglobal/pkg/reasoncodes"
)

type Handler struct {
	orchestrator *pipeline.Orchestrator
	admitter     *admission.Admitter
	store        *admission.GroupStore
	log          *logger.Logger
}

func NewHandler(
	orchestrator *pipeline.Orchestrator,
	admitter *admission.Admitter,
	store *admission.GroupStore,
	log *logger.Logger,
) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		admitter:     admitter,
		store:        store,
		log:          log,
	}
}

type createAttestationIn struct {
	UserId      string `json:"user_id" binding:"required"`
	GroupId     string `json:"group_id" binding:"required"`
	Threshold   string `json:"threshold" binding:"required"`
	SourceUrl   string `json:"source_url" binding:"required"`
	AccessToken string `json:"access_token"`
}

type attestationOut struct {
	AttestationId  string `json:"attestation_id"`
	Admitted       bool   `json:"admitted"`
	ThresholdMicro uint64 `json:"threshold_micro,omitempty"`
	NonceB64       string `json:"nonce_b64,omitempty"`
	ReasonCode     string `json:"reason_code,omitempty"`
}

// POST /v1/attestations
func (h *Handler) CreateAttestation(c *gin.Context) {
	var in createAttestationIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad json: " + err.Error()})
		return
	}

	attestationId, _ := uuid.NewRandom()
	start := time.Now()

	req := pipeline.Request{
		Threshold: in.Threshold,
		Source: evidence.SourceConfig{
			URL:         in.SourceUrl,
			BearerToken: in.AccessToken,
		},
	}

	sink := progress.NewChanSink(16)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for ev := range sink.Events() {
			h.log.Debugf("attestation %s: %d%% %s", attestationId.String(), ev.Percent, ev.Label)
		}
	}()

	result, err := h.orchestrator.RunAttestation(c.Request.Context(), req, sink)
	sink.Close()
	<-drained
	if err != nil {
		reason := pipeline.ReasonForError(err)
		h.log.Warnf("attestation %s failed with %s: %v", attestationId.String(), reason, err)
		c.JSON(statusForReason(reason), attestationOut{
			AttestationId: attestationId.String(),
			Admitted:      false,
			ReasonCode:    string(reason),
		})
		return
	}

	if _, err := h.admitter.Admit(in.UserId, in.GroupId, result); err != nil {
		h.log.Errorf(err, "admission of user %s failed", in.UserId)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.log.Infof("attestation %s admitted user %s to group %s in %dms",
		attestationId.String(), in.UserId, in.GroupId, time.Since(start).Milliseconds())
	c.JSON(http.StatusOK, attestationOut{
		AttestationId:  attestationId.String(),
		Admitted:       true,
		ThresholdMicro: result.Public.ThresholdMicro,
		NonceB64:       encodeNonce(result.Public.Nonce),
	})
}

// GET /v1/groups/:group_id/members
func (h *Handler) GroupMembers(c *gin.Context) {
	groupId := c.Param("group_id")
	members := h.store.Members(groupId)

	out := make([]gin.H, 0, len(members))
	for _, m := range members {
		out = append(out, gin.H{
			"user_id":         m.UserID,
			"threshold_micro": m.ThresholdMicro,
			"admitted_at":     m.AdmittedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"group_id": groupId, "members": out})
}

// GET /v1/groups/:group_id/members/:user_id
func (h *Handler) GroupMember(c *gin.Context) {
	groupId := c.Param("group_id")
	userId := c.Param("user_id")
	if !h.store.IsMember(groupId, userId) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not a member"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"group_id": groupId, "user_id": userId, "member": true})
}

// GET /healthz
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func statusForReason(reason reasoncodes.ReasonCode) int {
	switch reason {
	case reasoncodes.ErrInsufficientBalance, reasoncodes.ErrProofInvalid:
		return http.StatusForbidden
	case reasoncodes.ErrSourceUnreachable:
		return http.StatusBadGateway
	case reasoncodes.ErrSourceRejected:
		return http.StatusBadGateway
	case reasoncodes.ErrMalformedEvidence, reasoncodes.ErrPathNotFound,
		reasoncodes.ErrNoAccountsFound, reasoncodes.ErrNegativeBalance,
		reasoncodes.ErrUnknownCurrency, reasoncodes.ErrUnmarshal:
		return http.StatusUnprocessableEntity
	case reasoncodes.ErrCancelled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func encodeNonce(nonce []byte) string {
	if len(nonce) == 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(nonce)
}
