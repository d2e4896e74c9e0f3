package replay

import "sort"

// UpdateRule displayed for a step
type UpdateRule string

var (
	// tabular: new value of Q(s, a) after a TD update towards the target
	RuleTDUpdate UpdateRule = "td-update"
	// function approximation: Bellman target and squared error loss
	RuleTargetLoss UpdateRule = "target-loss"
)

// ColorSource is the set of values spanned by the Q-value color scale
type ColorSource string

var (
	// every value of the step's Q-table snapshot
	ColorFromSnapshot ColorSource = "snapshot"
	// the Q-values of the state and the next state
	ColorFromStep ColorSource = "step"
)

// Variant holds the per algorithm and environment constants
type Variant struct {
	Name        string      `mapstructure:"name" json:"name"`
	Environment string      `mapstructure:"environment" json:"environment"`
	Rule        UpdateRule  `mapstructure:"rule" json:"rule"`
	Gamma       float64     `mapstructure:"gamma" json:"gamma"`
	Alpha       float64     `mapstructure:"alpha" json:"alpha"`
	Actions     int         `mapstructure:"actions" json:"actions"`
	StateSize   int         `mapstructure:"state_size" json:"state_size"`
	ColorSource ColorSource `mapstructure:"color_source" json:"color_source"`
	Stops       ColorStops  `mapstructure:"stops" json:"stops"`
	Curve       CurveConfig `mapstructure:"curve" json:"curve"`
}

// Tabular is true when the displayed update is a TD update
func (v Variant) Tabular() bool {
	return v.Rule == RuleTDUpdate
}

// Copy returns a variant that shares no memory with v
func (v Variant) Copy() Variant {
	n := v
	if v.Curve.Floor != nil {
		n.Curve.Floor = floatPtr(*v.Curve.Floor)
	}
	if v.Curve.Ceiling != nil {
		n.Curve.Ceiling = floatPtr(*v.Curve.Ceiling)
	}
	return n
}

func (v Variant) zeros() []float64 {
	n := v.Actions
	if n <= 0 {
		n = 1
	}
	return make([]float64, n)
}

func floatPtr(f float64) *float64 {
	return &f
}

const (
	EnvCliffWalk = "cliffwalk"
	EnvCartPole  = "cartpole"
)

var builtinVariants = map[string]Variant{
	"ql-cliffwalk": {
		Name:        "ql-cliffwalk",
		Environment: EnvCliffWalk,
		Rule:        RuleTDUpdate,
		Gamma:       0.9,
		Alpha:       0.1,
		Actions:     4,
		StateSize:   0,
		ColorSource: ColorFromSnapshot,
		Stops:       DefaultStops,
		Curve: CurveConfig{
			Width:      900,
			Height:     150,
			Padding:    40,
			TopMargin:  40,
			XDomainMax: 500,
			Anchor:     AnchorMinMax,
		},
	},
	"dqn-cliffwalk": {
		Name:        "dqn-cliffwalk",
		Environment: EnvCliffWalk,
		Rule:        RuleTargetLoss,
		Gamma:       0.99,
		Actions:     4,
		StateSize:   48,
		ColorSource: ColorFromStep,
		Stops:       DefaultStops,
		Curve: CurveConfig{
			Width:      900,
			Height:     150,
			Padding:    40,
			TopMargin:  40,
			XDomainMax: 500,
			Anchor:     AnchorMinZero,
		},
	},
	"ql-cartpole": {
		Name:        "ql-cartpole",
		Environment: EnvCartPole,
		Rule:        RuleTDUpdate,
		Gamma:       0.99,
		Alpha:       0.1,
		Actions:     2,
		StateSize:   4,
		ColorSource: ColorFromStep,
		Stops:       DefaultStops,
		Curve: CurveConfig{
			Width:      900,
			Height:     150,
			Padding:    40,
			XDomainMax: 250,
			Anchor:     AnchorMinMax,
			Floor:      floatPtr(0),
			Ceiling:    floatPtr(1),
		},
	},
	"dqn-cartpole": {
		Name:        "dqn-cartpole",
		Environment: EnvCartPole,
		Rule:        RuleTargetLoss,
		Gamma:       0.99,
		Actions:     2,
		StateSize:   4,
		ColorSource: ColorFromStep,
		Stops:       DefaultStops,
		Curve: CurveConfig{
			Width:      900,
			Height:     150,
			Padding:    40,
			XDomainMax: 250,
			Anchor:     AnchorMinMax,
			Floor:      floatPtr(0),
			Ceiling:    floatPtr(1),
		},
	},
}

// LookupVariant returns a copy of the built-in variant with the given name
func LookupVariant(name string) (Variant, bool) {
	v, ok := builtinVariants[name]
	if !ok {
		return Variant{}, false
	}
	return v.Copy(), true
}

// Variants lists copies of all the built-in variants sorted by name
func Variants() []Variant {
	out := make([]Variant, 0, len(builtinVariants))
	for _, v := range builtinVariants {
		out = append(out, v.Copy())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
