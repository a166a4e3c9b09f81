package models

// Method tags a valuation result by the model that produced it.
type Method string

const (
	MethodDCF Method = "dcf"
	MethodCCA Method = "cca"
	MethodLBO Method = "lbo"
)

// ValuationResult is the common envelope every engine produces. Engines own
// only their result; all inputs are treated as read-only. A method that hit a
// calculation or data edge case reports Applicable=false with a named reason
// instead of a computed-looking zero.
type ValuationResult struct {
	Method          Method  `json:"method"`
	Applicable      bool    `json:"applicable"`
	Reason          string  `json:"reason,omitempty"`
	PerShare        float64 `json:"per_share,omitempty"`
	EnterpriseValue float64 `json:"enterprise_value,omitempty"`
	Detail          any     `json:"detail,omitempty"`
}

// NotApplicable builds a failed result envelope for a method.
func NotApplicable(method Method, reason string) ValuationResult {
	return ValuationResult{Method: method, Applicable: false, Reason: reason}
}

// ValueRange summarizes per-share values across applicable methods.
type ValueRange struct {
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
}

// MethodExclusion records why a method did not contribute to the blend.
type MethodExclusion struct {
	Method Method `json:"method"`
	Reason string `json:"reason"`
}

// ReconciledValuation merges the applicable results into a blended range.
// Missing methods are listed as exclusions, never fabricated.
type ReconciledValuation struct {
	Applicable     bool              `json:"applicable"`
	Reason         string            `json:"reason,omitempty"`
	AppliedMethods []Method          `json:"applicable_methods"`
	Exclusions     []MethodExclusion `json:"exclusions,omitempty"`
	Range          ValueRange        `json:"value_range"`
	Results        []ValuationResult `json:"results"`
}
