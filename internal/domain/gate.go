package domain

import "fmt"

// Thresholds are the gate ceilings. A nil ceiling is unbounded.
type Thresholds struct {
	Critical *int `json:"critical,omitempty"`
	High     *int `json:"high,omitempty"`
}

// Override returns t with every non-nil ceiling of o applied on top.
func (t Thresholds) Override(o Thresholds) Thresholds {
	if o.Critical != nil {
		t.Critical = o.Critical
	}
	if o.High != nil {
		t.High = o.High
	}
	return t
}

// GateResult is the pass/fail verdict used for pipeline gating.
type GateResult struct {
	Passed     bool       `json:"passed"`
	Thresholds Thresholds `json:"thresholds"`
	Reasons    []string   `json:"reasons,omitempty"`
}

// EvaluateGate fails when the final critical or high count exceeds its ceiling.
func EvaluateGate(s Summary, t Thresholds) GateResult {
	res := GateResult{Passed: true, Thresholds: t}
	if t.Critical != nil && s.Critical > *t.Critical {
		res.Passed = false
		res.Reasons = append(res.Reasons, fmt.Sprintf("%d critical findings exceed threshold %d", s.Critical, *t.Critical))
	}
	if t.High != nil && s.High > *t.High {
		res.Passed = false
		res.Reasons = append(res.Reasons, fmt.Sprintf("%d high findings exceed threshold %d", s.High, *t.High))
	}
	return res
}
