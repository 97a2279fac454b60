package dto

import (
	"github.com/bellujrb/zkvip-ethglobal/pkg/utilities"
)

// AttestationJobDto is the queue message that asks the worker to run one
// attestation attempt for a user against a group's threshold.
type AttestationJobDto struct {
	EventId     string `json:"event_id"`
	UserId      string `json:"user_id"`
	GroupId     string `json:"group_id"`
	Threshold   string `json:"threshold"` // reference currency major units, decimal text
	SourceUrl   string `json:"source_url"`
	AccessToken string `json:"access_token,omitempty"`
}

func (aj AttestationJobDto) Serialize() ([]byte, error) {
	return utilities.Serialize[AttestationJobDto](aj)
}

// AttestationResultDto carries the proof envelope and its public inputs back
// to whoever admits the user. The balance never appears here.
type AttestationResultDto struct {
	EventId        string `json:"event_id"`
	UserId         string `json:"user_id"`
	GroupId        string `json:"group_id"`
	IsValid        bool   `json:"is_valid"`
	ThresholdMicro uint64 `json:"threshold_micro"`
	NonceB64       string `json:"nonce_b64"`
	ProofB64       string `json:"proof_b64"`
}

func (ar AttestationResultDto) Serialize() ([]byte, error) {
	return utilities.Serialize[AttestationResultDto](ar)
}

type AttestationFailureDto struct {
	EventId     string `json:"event_id"`
	RequestBody []byte `json:"request_body"`
	Error       string `json:"error"`
	ReasonCode  string `json:"reason_code"`
}

func (af AttestationFailureDto) Serialize() ([]byte, error) {
	return utilities.Serialize[AttestationFailureDto](af)
}
