package proxied

import (
	"fmt"
	"slices"
	"sort"
	"time"
)

// ComputedOption configures a Computed interceptor.
type ComputedOption func(*computedConfig)

type computedConfig struct {
	evaluator Evaluator
	cache     ProgramCache
	registry  *FunctionRegistry
	logger    EvaluatorLogger
	fallback  Interceptor
	args      map[string]any
	metadata  map[string]any
	now       func() time.Time
}

// ComputedWithEvaluator selects the expression engine. Defaults to
// NewExprEvaluator configured with the cache and registry options.
func ComputedWithEvaluator(evaluator Evaluator) ComputedOption {
	return func(cfg *computedConfig) {
		cfg.evaluator = evaluator
	}
}

// ComputedWithProgramCache sets the cache used by the default evaluator.
func ComputedWithProgramCache(cache ProgramCache) ComputedOption {
	return func(cfg *computedConfig) {
		cfg.cache = cache
	}
}

// ComputedWithFunctionRegistry exposes registry functions to the default
// evaluator.
func ComputedWithFunctionRegistry(registry *FunctionRegistry) ComputedOption {
	return func(cfg *computedConfig) {
		cfg.registry = registry
	}
}

// ComputedWithLogger receives one event per computed read.
func ComputedWithLogger(logger EvaluatorLogger) ComputedOption {
	return func(cfg *computedConfig) {
		cfg.logger = logger
	}
}

// ComputedWithFallback sets the interceptor used for properties without an
// expression. Defaults to PassThrough.
func ComputedWithFallback(fallback Interceptor) ComputedOption {
	return func(cfg *computedConfig) {
		cfg.fallback = fallback
	}
}

// ComputedWithArgs binds args, available to expressions as `args`.
func ComputedWithArgs(args map[string]any) ComputedOption {
	return func(cfg *computedConfig) {
		cfg.args = copyRecord(args)
	}
}

// ComputedWithMetadata binds metadata, available to expressions as
// `metadata`.
func ComputedWithMetadata(metadata map[string]any) ComputedOption {
	return func(cfg *computedConfig) {
		cfg.metadata = copyRecord(metadata)
	}
}

// ComputedWithClock overrides the time source bound as `now`.
func ComputedWithClock(now func() time.Time) ComputedOption {
	return func(cfg *computedConfig) {
		cfg.now = now
	}
}

// Computed is an Interceptor that derives selected properties from the rest
// of the Record. Each computed property maps to an expression evaluated with
// the Record's keys bound as variables, plus now, args, metadata and
// property. A failing expression reads as nil and is reported to the
// evaluator logger.
type Computed struct {
	rules       map[string]CompiledRule
	expressions map[string]string
	engine      string
	fallback    Interceptor
	logger      EvaluatorLogger
	args        map[string]any
	metadata    map[string]any
	now         func() time.Time
}

// NewComputed compiles every expression up front and fails on the first
// compile error.
func NewComputed(expressions map[string]string, opts ...ComputedOption) (*Computed, error) {
	cfg := computedConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.evaluator == nil {
		var exprOpts []ExprEvaluatorOption
		if cfg.cache != nil {
			exprOpts = append(exprOpts, ExprWithProgramCache(cfg.cache))
		}
		if cfg.registry != nil {
			exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.registry))
		}
		cfg.evaluator = NewExprEvaluator(exprOpts...)
	}
	if cfg.fallback == nil {
		cfg.fallback = PassThrough()
	}
	if cfg.logger == nil {
		cfg.logger = noopEvaluatorLogger{}
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}

	c := &Computed{
		rules:       make(map[string]CompiledRule, len(expressions)),
		expressions: make(map[string]string, len(expressions)),
		engine:      evaluatorEngineName(cfg.evaluator),
		fallback:    cfg.fallback,
		logger:      cfg.logger,
		args:        cfg.args,
		metadata:    cfg.metadata,
		now:         cfg.now,
	}
	properties := make([]string, 0, len(expressions))
	for property := range expressions {
		properties = append(properties, property)
	}
	sort.Strings(properties)
	for _, property := range properties {
		expression := expressions[property]
		if expression == "" {
			return nil, argumentError("computed", fmt.Sprintf("expression for %q", property), "must not be empty")
		}
		rule, err := cfg.evaluator.Compile(expression, CompileForProperty(property))
		if err != nil {
			return nil, wrapEvaluationError(c.engine, expression, property, err)
		}
		c.rules[property] = rule
		c.expressions[property] = expression
	}
	return c, nil
}

// Properties returns the computed property names, sorted. Properties derived
// by a fallback that also derives properties (another Computed) are
// included.
func (c *Computed) Properties() []string {
	properties := make([]string, 0, len(c.rules))
	for property := range c.rules {
		properties = append(properties, property)
	}
	if derived, ok := c.fallback.(derivedProperties); ok {
		properties = append(properties, derived.Properties()...)
	}
	sort.Strings(properties)
	return slices.Compact(properties)
}

// Get implements Interceptor.
func (c *Computed) Get(record Record, property string) any {
	value, err := c.Evaluate(record, property)
	if err != nil {
		return nil
	}
	return value
}

// Evaluate is Get with the evaluation error exposed.
func (c *Computed) Evaluate(record Record, property string) (any, error) {
	rule, ok := c.rules[property]
	if !ok {
		return c.fallback.Get(record, property), nil
	}
	now := c.now()
	ctx := RuleContext{
		Snapshot: map[string]any(record),
		Property: property,
		Now:      &now,
		Args:     c.args,
		Metadata: c.metadata,
	}
	start := time.Now()
	value, err := rule.Evaluate(ctx)
	err = wrapEvaluationError(c.engine, c.expressions[property], property, err)
	c.logger.LogEvaluation(EvaluatorLogEvent{
		Engine:   c.engine,
		Expr:     c.expressions[property],
		Property: property,
		Duration: time.Since(start),
		Err:      err,
	})
	return value, err
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if name := fmt.Sprintf("%T", e); name == "*proxied.jsEvaluator" {
			return "js"
		}
		return "custom"
	}
}
