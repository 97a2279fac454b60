package worker

import (
	"context"
	"encoding/base64"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bellujrb/zkvip-ethglobal/internal/app/admission"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/evidence"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/pipeline"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/progress"
	"github.com/bellujrb/zkvip-ethglobal/pkg/dto"
	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
	"github.com/bellujrb/zkvip-ethglobal/pkg/rabbitmq"
	"github.com/bellujrb/zkvip-ethglobal/pkg/reasoncodes"
)

const attestationServiceName = "attestation-worker"

// WorkerService is a long-running background service started by the
// application runtime.
type WorkerService interface {
	GetServiceName() string
	StartService()
}

// AttestationWorker consumes attestation jobs from the queue, runs the full
// pipeline for each and publishes either a result or a failure message.
type AttestationWorker struct {
	Orchestrator *pipeline.Orchestrator
	Admitter     *admission.Admitter
	Consumer     rabbitmq.IRabbitmqConsumer
	ResultPub    rabbitmq.IRabbitmqPublisher
	FailurePub   rabbitmq.IRabbitmqPublisher
	Logger       *logger.Logger
}

func NewAttestationWorker(
	orchestrator *pipeline.Orchestrator,
	admitter *admission.Admitter,
	consumer rabbitmq.IRabbitmqConsumer,
	resultPub rabbitmq.IRabbitmqPublisher,
	failurePub rabbitmq.IRabbitmqPublisher,
	log *logger.Logger,
) *AttestationWorker {
	return &AttestationWorker{
		Orchestrator: orchestrator,
		Admitter:     admitter,
		Consumer:     consumer,
		ResultPub:    resultPub,
		FailurePub:   failurePub,
		Logger:       log,
	}
}

func (aw *AttestationWorker) GetServiceName() string {
	return attestationServiceName
}

func (aw *AttestationWorker) StartService() {
	if err := aw.Consumer.StartConsuming(aw.HandleDelivery); err != nil {
		aw.Logger.Error(err, "attestation consumer stopped")
	}
}

// HandleDelivery processes one queue message end to end.
func (aw *AttestationWorker) HandleDelivery(d amqp.Delivery) {
	var job dto.AttestationJobDto
	responseFactory := dto.NewAttestationFailureFactory("", d.Body)

	if err := json.Unmarshal(d.Body, &job); err != nil {
		result := responseFactory.CreateErrorDto(err, reasoncodes.ErrUnmarshal)

		_ = aw.FailurePub.Publish(result)
		return
	}
	responseFactory = dto.NewAttestationFailureFactory(job.EventId, d.Body)

	req := pipeline.Request{
		Threshold: job.Threshold,
		Source: evidence.SourceConfig{
			URL:         job.SourceUrl,
			BearerToken: job.AccessToken,
		},
	}

	sink := progress.SinkFunc(func(ev progress.Event) {
		aw.Logger.Debugf("[%s] attestation progress %d%% (%s)", job.EventId, ev.Percent, ev.Label)
	})

	result, err := aw.Orchestrator.RunAttestation(context.Background(), req, sink)
	if err != nil {
		reason := pipeline.ReasonForError(err)
		aw.Logger.Errorf(err, "attestation for event %s failed with %s", job.EventId, reason)
		response := responseFactory.CreateErrorDto(err, reason)

		_ = aw.FailurePub.Publish(response)
		return
	}

	if _, err := aw.Admitter.Admit(job.UserId, job.GroupId, result); err != nil {
		aw.Logger.Errorf(err, "admission for event %s failed", job.EventId)
		response := responseFactory.CreateErrorDto(err, reasoncodes.ErrInternal)

		_ = aw.FailurePub.Publish(response)
		return
	}

	resultDto := dto.AttestationResultDto{
		EventId:        job.EventId,
		UserId:         job.UserId,
		GroupId:        job.GroupId,
		IsValid:        result.IsValid,
		ThresholdMicro: result.Public.ThresholdMicro,
		NonceB64:       base64.RawURLEncoding.EncodeToString(result.Public.Nonce),
		ProofB64:       base64.StdEncoding.EncodeToString(result.ProofBytes),
	}

	_ = aw.ResultPub.Publish(resultDto)
	aw.Logger.Infof("Processed attestation for %s. User %s admitted to group %s", job.EventId, job.UserId, job.GroupId)
}
