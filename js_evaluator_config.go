package formstate

// jsSettings is shared by the goja evaluator and its stub so callers compile
// the same options with or without the js_eval tag.
type jsSettings struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// JSEvaluatorOption configures the JS evaluator.
type JSEvaluatorOption func(*jsSettings)

// JSWithProgramCache caches compiled scripts by source text.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(s *jsSettings) {
		s.cache = cache
	}
}

// JSWithFunctionRegistry exposes registered functions to scripts, both by
// name and through call(name, ...args).
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(s *jsSettings) {
		s.registry = registry.Clone()
	}
}

func newJSSettings(opts []JSEvaluatorOption) jsSettings {
	var settings jsSettings
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}
	return settings
}
