package attest

import (
	"context"
	"errors"
	"fmt"

	"github.com/bellujrb/zkvip-ethglobal/internal/app/progress"
	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
)

type State int

const (
	StateIdle State = iota
	StateCollecting
	StateProving
	StateFinalizedValid
	StateFinalizedInvalid
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollecting:
		return "collecting"
	case StateProving:
		return "proving"
	case StateFinalizedValid:
		return "finalized_valid"
	case StateFinalizedInvalid:
		return "finalized_invalid"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// CollectFunc gathers and normalizes the balance to attest. It calls advance
// once per completed collection step so the engine can report progress.
type CollectFunc func(ctx context.Context, advance func(label string)) (balanceMicro uint64, err error)

type EngineConfig struct {
	// CollectCheckpoints are the percents reported for successive collection
	// steps, in order. NewEngine drops entries that are not strictly
	// increasing or that reach the proving ceiling.
	CollectCheckpoints []int
	// ProvingCeiling caps remapped proving progress so 100 is reserved for
	// the final success report.
	ProvingCeiling int
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		CollectCheckpoints: []int{10, 20, 30, 40, 50},
		ProvingCeiling:     99,
	}
}

// Engine drives a single attestation attempt through collection, proving and
// finalization, reporting strictly increasing progress along the way.
type Engine struct {
	proofSystem ProofSystem
	cfg         EngineConfig
	log         *logger.Logger

	// OnState, when set, observes every state transition.
	OnState func(State)
}

func NewEngine(proofSystem ProofSystem, cfg EngineConfig, log *logger.Logger) *Engine {
	if cfg.ProvingCeiling <= 0 || cfg.ProvingCeiling >= 100 {
		cfg.ProvingCeiling = DefaultEngineConfig().ProvingCeiling
	}
	cfg.CollectCheckpoints = sanitizeCheckpoints(cfg.CollectCheckpoints, cfg.ProvingCeiling)
	return &Engine{proofSystem: proofSystem, cfg: cfg, log: log}
}

// sanitizeCheckpoints drops configured checkpoints that would break the
// progress contract: entries must stay strictly increasing, above 0 and
// below the proving ceiling so 100 remains reserved for success.
func sanitizeCheckpoints(checkpoints []int, ceiling int) []int {
	sanitized := make([]int, 0, len(checkpoints))
	last := 0
	for _, p := range checkpoints {
		if p <= last || p >= ceiling {
			continue
		}
		sanitized = append(sanitized, p)
		last = p
	}
	if len(sanitized) == 0 && len(checkpoints) == 0 {
		return sanitizeCheckpoints(DefaultEngineConfig().CollectCheckpoints, ceiling)
	}
	return sanitized
}

// Attest runs one attempt. Exactly one of the following holds on return:
// a valid Result with nil error, or a zero Result with a non-nil error.
// Progress never reaches 100 unless the attempt succeeded.
func (e *Engine) Attest(ctx context.Context, thresholdMicro uint64, collect CollectFunc, sink progress.Sink) (Result, error) {
	if sink == nil {
		sink = progress.Discard
	}

	lastPercent := -1
	emit := func(percent int, label string) {
		if percent <= lastPercent {
			return
		}
		lastPercent = percent
		sink.Emit(progress.Event{Percent: percent, Label: label})
	}

	e.setState(StateCollecting)
	emit(0, "starting")

	checkpoint := 0
	advance := func(label string) {
		if checkpoint >= len(e.cfg.CollectCheckpoints) {
			return
		}
		emit(e.cfg.CollectCheckpoints[checkpoint], label)
		checkpoint++
	}

	balanceMicro, err := collect(ctx, advance)
	if err != nil {
		e.setState(StateAborted)
		return Result{}, e.mapCancellation(ctx, err)
	}
	if err := ctx.Err(); err != nil {
		e.setState(StateAborted)
		return Result{}, fmt.Errorf("%w: %v", ErrCancelled, err)
	}

	if balanceMicro < thresholdMicro {
		e.setState(StateAborted)
		return Result{}, &InsufficientBalanceError{
			RequiredMicro:  thresholdMicro,
			AvailableMicro: balanceMicro,
		}
	}

	nonce, err := e.proofSystem.GenerateRandomNonce()
	if err != nil {
		e.setState(StateAborted)
		return Result{}, fmt.Errorf("generating nonce: %w", err)
	}
	blinding, err := e.proofSystem.GenerateBlinding()
	if err != nil {
		e.setState(StateAborted)
		return Result{}, fmt.Errorf("generating blinding factor: %w", err)
	}

	e.setState(StateProving)
	provingBase := lastPercent
	if provingBase < 0 {
		provingBase = 0
	}
	span := e.cfg.ProvingCeiling - provingBase

	inputs := Inputs{
		ThresholdMicro: thresholdMicro,
		BalanceMicro:   balanceMicro,
		Nonce:          nonce,
		Blinding:       blinding,
	}
	output, err := e.proofSystem.GenerateProof(ctx, inputs, func(percent int) {
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
		emit(provingBase+percent*span/100, "proving")
	})
	if err != nil {
		e.setState(StateAborted)
		return Result{}, e.mapCancellation(ctx, err)
	}
	if !output.IsValid {
		e.setState(StateFinalizedInvalid)
		return Result{}, ErrProofInvalid
	}

	emit(100, "done")
	e.setState(StateFinalizedValid)
	return Result{
		IsValid:    true,
		ProofBytes: output.ProofBytes,
		Public: PublicInputs{
			ThresholdMicro: thresholdMicro,
			Nonce:          nonce,
		},
	}, nil
}

func (e *Engine) setState(s State) {
	if e.OnState != nil {
		e.OnState(s)
	}
}

func (e *Engine) mapCancellation(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	return err
}
