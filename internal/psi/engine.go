package psi

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/meridianhq/go-psi/internal/codeset"
	"github.com/meridianhq/go-psi/internal/encounter"
)

// AllIndicators lists every PSI code the engine is asked about in batch
// runs, in numeric order. PSI_16 has no registered evaluator and resolves
// to Not Implemented.
var AllIndicators = []string{
	"PSI_02", "PSI_03", "PSI_04", "PSI_05", "PSI_06", "PSI_07", "PSI_08",
	"PSI_09", "PSI_10", "PSI_11", "PSI_12", "PSI_13", "PSI_14", "PSI_15",
	"PSI_16", "PSI_17", "PSI_18", "PSI_19",
}

type evaluatorFunc func(*Engine, *encounter.Encounter) (Result, error)

// Engine evaluates encounters against the PSI rule set. It is immutable
// after construction and safe for concurrent use across any number of
// goroutines; every evaluation is a pure function of its inputs.
type Engine struct {
	reg    *codeset.Registry
	defs   Definitions
	logger *zap.Logger

	evaluators map[string]evaluatorFunc

	// Derived views, precomputed once so evaluators never rebuild them.
	ulcerPrincipalExclusion codeset.Set // all site/DTI/unspecified ulcer codes
	specificUlcerSites      []ulcerSite
	unspecifiedUlcerSets    []string
	organSystems            []organSystem
	injuryDxCodes           codeset.Set
}

// New builds an engine over a loaded registry and definition table.
func New(reg *codeset.Registry, defs Definitions, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = codeset.NewRegistry(logger)
	}
	if defs == nil {
		defs = Definitions{}
	}

	e := &Engine{
		reg:    reg,
		defs:   defs,
		logger: logger,
	}

	e.evaluators = map[string]evaluatorFunc{
		"PSI_02": (*Engine).evalPSI02,
		"PSI_03": (*Engine).evalPSI03,
		"PSI_04": (*Engine).evalPSI04,
		"PSI_05": (*Engine).evalPSI05,
		"PSI_06": (*Engine).evalPSI06,
		"PSI_07": (*Engine).evalPSI07,
		"PSI_08": (*Engine).evalPSI08,
		"PSI_09": (*Engine).evalPSI09,
		"PSI_10": (*Engine).evalPSI10,
		"PSI_11": (*Engine).evalPSI11,
		"PSI_12": (*Engine).evalPSI12,
		"PSI_13": (*Engine).evalPSI13,
		"PSI_14": (*Engine).evalPSI14,
		"PSI_15": (*Engine).evalPSI15,
		"PSI_17": (*Engine).evalPSI17,
		"PSI_18": (*Engine).evalPSI18,
		"PSI_19": (*Engine).evalPSI19,
	}

	e.buildDerivedViews()
	return e
}

// Implemented reports whether the code has a registered evaluator.
func (e *Engine) Implemented(indicator string) bool {
	_, ok := e.evaluators[indicator]
	return ok
}

// Indicators returns the registered indicator codes in sorted order.
func (e *Engine) Indicators() []string {
	out := make([]string, 0, len(e.evaluators))
	for code := range e.evaluators {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Evaluate classifies one encounter against one indicator. The base
// eligibility filter runs first and may short-circuit with an exclusion;
// otherwise the indicator evaluator runs. Any error or panic inside an
// evaluator is confined to this single result.
func (e *Engine) Evaluate(enc *encounter.Encounter, indicator string) (res Result) {
	eval, ok := e.evaluators[indicator]
	if !ok {
		return Result{
			Status:    StatusNotImplemented,
			Rationale: fmt.Sprintf("Evaluation logic for %s not found", indicator),
		}
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("evaluator panic",
				zap.String("indicator", indicator),
				zap.String("encounter_id", enc.ID),
				zap.Any("panic", r))
			res = Result{
				Status:    StatusError,
				Rationale: fmt.Sprintf("An error occurred during PSI evaluation: %v", r),
			}
		}
	}()

	if excl, excluded := e.baseExclusion(enc, indicator); excluded {
		return excl
	}

	res, err := eval(e, enc)
	if err != nil {
		return Result{
			Status:    StatusError,
			Rationale: fmt.Sprintf("An error occurred during PSI evaluation: %v", err),
		}
	}
	return res
}
