package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/bellujrb/zkvip-ethglobal/internal/app/admission"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/bootstrap"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/config"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/worker"
	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
	"github.com/bellujrb/zkvip-ethglobal/pkg/rabbitmq"
	"github.com/bellujrb/zkvip-ethglobal/pkg/utilities"
)

const (
	jobsConsumerAlias     = rabbitmq.ConsumerAlias("attestation-jobs")
	resultPublisherAlias  = rabbitmq.PublisherAlias("attestation-results")
	failurePublisherAlias = rabbitmq.PublisherAlias("attestation-failures")
	logSinkPublisherAlias = rabbitmq.PublisherAlias("log-sink")
)

func main() {
	_ = godotenv.Load()

	logger.InitDefaultLogger(logger.GlobalLoggerConfig{
		Args: []logger.LoggerArg{
			{Key: "application", Value: "proof-worker"},
			{Key: "version", Value: "1.0.0"},
		},
	})
	mainLogger := logger.Default()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	mainLogger.Infof("Preparing to load config from %s ...", configPath)
	gateConfig, err := utilities.ReadConfig[config.GateConfigJson, config.GateConfig](configPath)
	utilities.FailOnError(err, "Failed to load config")
	mainLogger.Info("Config successfully loaded.")

	rabbitmqConf := gateConfig.GetRabbitmqConfig()
	mainLogger.Info("Preparing to connect to Rabbitmq server...")
	conn, err := rabbitmq.ConnectToRabbitmq(
		rabbitmqConf.User,
		rabbitmqConf.Password,
		rabbitmqConf.Host,
		mainLogger,
	)
	utilities.FailOnError(err, "Failed to connect to RabbitMQ after retries")
	mainLogger.Info("Connection with Rabbitmq server established")

	registry, err := rabbitmq.NewRegistry(conn, rabbitmqConf, mainLogger)
	utilities.FailOnError(err, "Failed to initialize Rabbitmq registry")
	defer registry.Close()

	consumer, err := registry.Consumer(jobsConsumerAlias)
	utilities.FailOnError(err, "Job consumer missing from config")
	resultPub, err := registry.Publisher(resultPublisherAlias)
	utilities.FailOnError(err, "Result publisher missing from config")
	failurePub, err := registry.Publisher(failurePublisherAlias)
	utilities.FailOnError(err, "Failure publisher missing from config")

	// Mirror log lines to the queue when a log-sink publisher is configured.
	if logPub, sinkErr := registry.Publisher(logSinkPublisherAlias); sinkErr == nil {
		logger.AddSinkToLoggerInstance(mainLogger, rabbitmq.CreateRabbitmqLoggerSink(logPub))
	}

	orchestrator := bootstrap.BuildOrchestrator(gateConfig, mainLogger)
	store := admission.NewGroupStore()
	admitter := admission.NewAdmitter(store, mainLogger)

	attestationWorker := worker.NewAttestationWorker(
		orchestrator,
		admitter,
		consumer,
		resultPub,
		failurePub,
		mainLogger,
	)

	mainLogger.Infof("Starting %s WorkerService", attestationWorker.GetServiceName())
	attestationWorker.StartService()
}
