package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/bellujrb/zkvip-ethglobal/internal/app/attest"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/config"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/evidence"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/pipeline"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/rates"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/zkp"
	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
	"github.com/bellujrb/zkvip-ethglobal/pkg/utilities"
)

// BuildOrchestrator assembles the attestation pipeline from config: source
// adapter, evidence verifier, rate provider and proving engine.
func BuildOrchestrator(gateConfig config.GateConfig, log *logger.Logger) *pipeline.Orchestrator {
	sourceConf := gateConfig.SourceConf

	timeout := 30 * time.Second
	if sourceConf.RequestTimeoutSec > 0 {
		timeout = time.Duration(sourceConf.RequestTimeoutSec) * time.Second
	}
	source := evidence.NewSourceAdapter(&http.Client{Timeout: timeout}, log)

	verifier := evidence.NewVerifier()
	if sourceConf.JwksUrl != "" {
		keySet, err := jwk.Fetch(context.Background(), sourceConf.JwksUrl)
		utilities.FailOnError(err, "Failed to fetch provider JWKS")
		verifier = evidence.NewVerifierWithKeySet(keySet)
		log.Infof("Loaded %d provider keys from %s", keySet.Len(), sourceConf.JwksUrl)
	}

	rateProvider := BuildRateProvider(gateConfig.RatesConf, log)

	engine := attest.NewEngine(zkp.NewProver(log), attest.EngineConfig{
		CollectCheckpoints: gateConfig.AttestationConf.CollectCheckpoints,
		ProvingCeiling:     gateConfig.AttestationConf.ProvingCeiling,
	}, log)

	orchestrator := pipeline.NewOrchestrator(source, verifier, rateProvider, engine, log)

	if sourceConf.OauthTokenUrl != "" {
		cc := clientcredentials.Config{
			ClientID:     sourceConf.OauthClientId,
			ClientSecret: sourceConf.OauthClientSecret,
			TokenURL:     sourceConf.OauthTokenUrl,
		}
		orchestrator.WithDefaultTokenSource(cc.TokenSource(context.Background()))
		log.Info("Using client credentials grant for source requests")
	}

	return orchestrator
}

// BuildRateProvider returns a static provider, or a cron-refreshing one when
// a refresh endpoint is configured.
func BuildRateProvider(ratesConf config.RatesConfig, log *logger.Logger) rates.Provider {
	if ratesConf.RefreshUrl == "" {
		return rates.NewStatic(ratesConf.StaticTable)
	}

	schedule := ratesConf.RefreshSchedule
	if schedule == "" {
		schedule = "@every 15m"
	}
	refreshing, err := rates.NewRefreshing(ratesConf.StaticTable, ratesConf.RefreshUrl, schedule, log)
	utilities.FailOnError(err, "Failed to build refreshing rate provider")
	refreshing.Start()
	log.Infof("Rate table refresh scheduled (%s) from %s", schedule, ratesConf.RefreshUrl)
	return refreshing
}
