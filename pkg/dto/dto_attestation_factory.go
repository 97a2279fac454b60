package dto

import (
	reasoncodes "github.com/bellujrb/zkvip-ethglobal/pkg/reasoncodes"
	"github.com/bellujrb/zkvip-ethglobal/pkg/utilities"
)

type AttestationFailureFactory interface {
	CreateErrorDto(error, reasoncodes.ReasonCode) utilities.Serializable
}

type attestationFailureFactory struct {
	EventId     string
	RequestBody []byte
}

func NewAttestationFailureFactory(eventId string, requestBody []byte) AttestationFailureFactory {
	return attestationFailureFactory{
		EventId:     eventId,
		RequestBody: requestBody,
	}
}

func (aff attestationFailureFactory) CreateErrorDto(
	err error,
	reasonCode reasoncodes.ReasonCode) utilities.Serializable {
	return AttestationFailureDto{
		EventId:     aff.EventId,
		RequestBody: aff.RequestBody,
		Error:       err.Error(),
		ReasonCode:  string(reasonCode),
	}
}
