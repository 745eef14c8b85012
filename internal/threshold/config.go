package threshold

import "ragbot/internal/provider"

// Config is the static similarity-threshold policy for one embedding
// provider. Useful ranges differ wildly between providers (Gemini scores
// cluster near zero, OpenAI-style cosine scores near the top of the range),
// so configs are never shared across providers.
type Config struct {
	Provider provider.Kind
	// Default is the starting threshold before contextual adjustment.
	Default float32
	// Min and Max bound every threshold this provider may ever use.
	Min float32
	Max float32
	// AdjustmentStep is the decrement between retry-ladder rungs.
	AdjustmentStep float32
	// Ladder is the configured descending retry sequence. The trailing nil is
	// the accept-all sentinel: the final rung applies no threshold at all.
	Ladder []*float32
	// ContentTypeAdjustments are additive deltas keyed by content type.
	ContentTypeAdjustments map[string]float32
}

func f(v float32) *float32 { return &v }

var providerConfigs = map[provider.Kind]Config{
	provider.KindOpenAI: {
		Provider:       provider.KindOpenAI,
		Default:        0.7,
		Min:            0.3,
		Max:            0.9,
		AdjustmentStep: 0.1,
		Ladder:         []*float32{f(0.7), f(0.5), f(0.3), nil},
		ContentTypeAdjustments: map[string]float32{
			"technical":      0.05,
			"conversational": -0.05,
		},
	},
	provider.KindGemini: {
		Provider:       provider.KindGemini,
		Default:        0.01,
		Min:            0.001,
		Max:            0.1,
		AdjustmentStep: 0.004,
		Ladder:         []*float32{f(0.01), f(0.005), f(0.001), nil},
		ContentTypeAdjustments: map[string]float32{
			"technical":      0.005,
			"conversational": -0.004,
		},
	},
	provider.KindOpenRouter: {
		Provider:       provider.KindOpenRouter,
		Default:        0.5,
		Min:            0.2,
		Max:            0.8,
		AdjustmentStep: 0.1,
		Ladder:         []*float32{f(0.5), f(0.4), f(0.3), f(0.2), nil},
		ContentTypeAdjustments: map[string]float32{
			"technical":      0.05,
			"conversational": -0.05,
		},
	},
	provider.KindLocal: {
		Provider:       provider.KindLocal,
		Default:        0.5,
		Min:            0.2,
		Max:            0.8,
		AdjustmentStep: 0.1,
		Ladder:         []*float32{f(0.5), f(0.4), f(0.3), f(0.2), nil},
		ContentTypeAdjustments: map[string]float32{
			"technical":      0.05,
			"conversational": -0.05,
		},
	},
}
