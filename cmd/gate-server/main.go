package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/bellujrb/zkvip-ethglobal/internal/app/admission"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/bootstrap"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/config"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/server"
	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
	"github.com/bellujrb/zkvip-ethglobal/pkg/rest"
	"github.com/bellujrb/zkvip-ethglobal/pkg/utilities"
)

func main() {
	_ = godotenv.Load()

	logger.InitDefaultLogger(logger.GlobalLoggerConfig{
		Args: []logger.LoggerArg{
			{Key: "application", Value: "gate-server"},
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

	orchestrator := bootstrap.BuildOrchestrator(gateConfig, mainLogger)

	store := admission.NewGroupStore()
	admitter := admission.NewAdmitter(store, mainLogger)
	handler := server.NewHandler(orchestrator, admitter, store, mainLogger)

	router := gin.Default()
	rest.RegisterRoutes(router, mainLogger, handler.Middlewares(), handler.Routes())

	addr := fmt.Sprintf("0.0.0.0:%d", gateConfig.GetRestApiPort())
	mainLogger.Infof("REST API is now listening on: %s", addr)
	utilities.FailOnError(router.Run(addr), "REST API stopped")
}
