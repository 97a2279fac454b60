package config

import (
	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
	"github.com/bellujrb/zkvip-ethglobal/pkg/rabbitmq"
)

type GateConfigJson struct {
	LoggerConf      logger.LoggerConfigJson    `json:"logger"`
	RabbitmqConf    rabbitmq.RabbimqConfigJson `json:"rabbitmq"`
	RestConf        GateRestConfigJson         `json:"rest"`
	SourceConf      SourceConfigJson           `json:"source"`
	RatesConf       RatesConfigJson            `json:"rates"`
	AttestationConf AttestationConfigJson      `json:"attestation"`
}

func (gcj GateConfigJson) ConvertToDomain() GateConfig {
	return GateConfig{
		LoggerConf:      gcj.LoggerConf.ConvertToDomain(),
		RabbitmqConf:    gcj.RabbitmqConf.ConvertToDomain(),
		RestConf:        gcj.RestConf.ConvertToDomain(),
		SourceConf:      gcj.SourceConf.ConvertToDomain(),
		RatesConf:       gcj.RatesConf.ConvertToDomain(),
		AttestationConf: gcj.AttestationConf.ConvertToDomain(),
	}
}

type GateConfig struct {
	LoggerConf      logger.LoggerConfig
	RabbitmqConf    rabbitmq.RabbitmqConfig
	RestConf        GateRestConfig
	SourceConf      SourceConfig
	RatesConf       RatesConfig
	AttestationConf AttestationConfig
}

func (gc GateConfig) GetLoggerConfig() logger.LoggerConfig {
	return gc.LoggerConf
}

func (gc GateConfig) GetRabbitmqConfig() rabbitmq.RabbitmqConfig {
	return gc.RabbitmqConf
}

func (gc GateConfig) GetRestApiPort() uint16 {
	return gc.RestConf.Port
}

type GateRestConfigJson struct {
	Port uint16 `json:"port"`
}

type GateRestConfig struct {
	Port uint16
}

func (grcj GateRestConfigJson) ConvertToDomain() GateRestConfig {
	return GateRestConfig{
		Port: grcj.Port,
	}
}

// SourceConfigJson configures how balance evidence is fetched and verified.
type SourceConfigJson struct {
	JwksUrl           string `json:"jwks_url"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
	OauthTokenUrl     string `json:"oauth_token_url"`
	OauthClientId     string `json:"oauth_client_id"`
	OauthClientSecret string `json:"oauth_client_secret"`
}

type SourceConfig struct {
	JwksUrl           string
	RequestTimeoutSec int
	OauthTokenUrl     string
	OauthClientId     string
	OauthClientSecret string
}

func (scj SourceConfigJson) ConvertToDomain() SourceConfig {
	return SourceConfig{
		JwksUrl:           scj.JwksUrl,
		RequestTimeoutSec: scj.RequestTimeoutSec,
		OauthTokenUrl:     scj.OauthTokenUrl,
		OauthClientId:     scj.OauthClientId,
		OauthClientSecret: scj.OauthClientSecret,
	}
}

// RatesConfigJson seeds the conversion rate table and optionally points at a
// refresh endpoint polled on a cron schedule.
type RatesConfigJson struct {
	StaticTable     map[string]string `json:"static_table"`
	RefreshUrl      string            `json:"refresh_url"`
	RefreshSchedule string            `json:"refresh_schedule"`
}

type RatesConfig struct {
	StaticTable     map[string]string
	RefreshUrl      string
	RefreshSchedule string
}

func (rcj RatesConfigJson) ConvertToDomain() RatesConfig {
	return RatesConfig{
		StaticTable:     rcj.StaticTable,
		RefreshUrl:      rcj.RefreshUrl,
		RefreshSchedule: rcj.RefreshSchedule,
	}
}

type AttestationConfigJson struct {
	CollectCheckpoints []int `json:"collect_checkpoints"`
	ProvingCeiling     int   `json:"proving_ceiling"`
}

type AttestationConfig struct {
	CollectCheckpoints []int
	ProvingCeiling     int
}

func (acj AttestationConfigJson) ConvertToDomain() AttestationConfig {
	return AttestationConfig{
		CollectCheckpoints: acj.CollectCheckpoints,
		ProvingCeiling:     acj.ProvingCeiling,
	}
}
