package metrics

import "github.com/kilianp07/evac/core/factory"

var sinkRegistry = factory.NewRegistry[TrialSink]()

func init() {
	_ = RegisterSink("nop", func(map[string]any) (TrialSink, error) { return NopSink{}, nil })
}

// RegisterSink adds a sink factory identified by name.
func RegisterSink(name string, f factory.Factory[TrialSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewSink creates a TrialSink from the configured modules. No modules yields
// a NopSink and several yield a MultiSink.
func NewSink(cfgs []factory.ModuleConfig) (TrialSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]TrialSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
