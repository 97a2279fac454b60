package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/bellujrb/zkvip-ethglobal/internal/app/accounts"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/attest"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/evidence"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/progress"
	"github.com/bellujrb/zkvip-ethglobal/internal/app/rates"
	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
)

// Request describes one attestation run: prove that the requesting user's
// best account balance, converted to the reference currency, meets Threshold.
type Request struct {
	// Threshold is in reference currency major units, decimal text.
	Threshold string
	Source    evidence.SourceConfig
}

// Orchestrator wires the evidence, account, rate and proving stages into a
// single attestation run.
type Orchestrator struct {
	source       *evidence.SourceAdapter
	verifier     *evidence.Verifier
	rates        rates.Provider
	engine       *attest.Engine
	log          *logger.Logger
	defaultToken oauth2.TokenSource
}

func NewOrchestrator(
	source *evidence.SourceAdapter,
	verifier *evidence.Verifier,
	rateProvider rates.Provider,
	engine *attest.Engine,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		source:   source,
		verifier: verifier,
		rates:    rateProvider,
		engine:   engine,
		log:      log,
	}
}

// WithDefaultTokenSource sets a token source used for requests that carry no
// credentials of their own, typically a client credentials grant against the
// account provider.
func (o *Orchestrator) WithDefaultTokenSource(ts oauth2.TokenSource) *Orchestrator {
	o.defaultToken = ts
	return o
}

// RunAttestation executes the full pipeline for one request. The sink sees a
// strictly increasing progress sequence and 100 only when the returned
// result is valid. The balance itself never appears in logs or in the result.
func (o *Orchestrator) RunAttestation(ctx context.Context, req Request, sink progress.Sink) (attest.Result, error) {
	thresholdMicro, err := accounts.NormalizeThreshold(req.Threshold)
	if err != nil {
		return attest.Result{}, fmt.Errorf("normalize threshold: %w", err)
	}

	if req.Source.TokenSource == nil && req.Source.BearerToken == "" {
		req.Source.TokenSource = o.defaultToken
	}

	collect := func(ctx context.Context, advance func(label string)) (uint64, error) {
		ev, err := o.source.Fetch(ctx, req.Source)
		if err != nil {
			return 0, err
		}
		advance("evidence fetched")

		view, err := o.verifier.Verify(ev)
		if err != nil {
			return 0, err
		}
		advance("evidence verified")

		record, err := accounts.SelectAccount(view)
		if err != nil {
			return 0, err
		}
		advance("account selected")
		o.log.Debugf("selected account %s (%s)", record.ID, record.Kind)

		rate, err := o.rates.Rate(record.CurrencyCode)
		if err != nil {
			return 0, err
		}
		advance("rate resolved")

		balanceMicro, err := accounts.Normalize(record, rate)
		if err != nil {
			return 0, err
		}
		advance("balance normalized")
		return balanceMicro, nil
	}

	result, err := o.engine.Attest(ctx, thresholdMicro, collect, sink)
	if err != nil {
		return attest.Result{}, err
	}
	return result, nil
}
