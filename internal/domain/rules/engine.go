// Package rules implements the heuristic detectors that turn capability
// metadata into findings. Every rule is a pure function of one capability (or
// one group), the group's validation signal and the vocabulary.
package rules

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mcpscan/mcpscan/internal/domain"
)

// MemberRule evaluates one capability within its owning group.
type MemberRule func(c domain.Capability, g domain.CapabilityGroup, validated bool, v domain.Vocabulary) []domain.Finding

// GroupRule evaluates a group as a whole.
type GroupRule func(g domain.CapabilityGroup, v domain.Vocabulary) []domain.Finding

// StandardMemberRules run on every scan.
var StandardMemberRules = []MemberRule{
	PromptInjection,
	ToolPoisoning,
	ToxicFlow,
	GeneralSecurity,
}

// StandardGroupRules run on every scan.
var StandardGroupRules = []GroupRule{
	GroupAccessControl,
}

// EnhancedMemberRules run only when enhanced analysis is requested.
var EnhancedMemberRules = []MemberRule{
	SecretsExposure,
	MissingAuditLogging,
}

// Engine evaluates a rule set over capability groups.
type Engine struct {
	vocab       domain.Vocabulary
	memberRules []MemberRule
	groupRules  []GroupRule
	concurrency int
}

// NewEngine builds an engine with the standard rules, plus the enhanced rules
// when enhanced is set.
func NewEngine(vocab domain.Vocabulary, enhanced bool) *Engine {
	members := append([]MemberRule(nil), StandardMemberRules...)
	if enhanced {
		members = append(members, EnhancedMemberRules...)
	}
	return &Engine{
		vocab:       vocab,
		memberRules: members,
		groupRules:  append([]GroupRule(nil), StandardGroupRules...),
		concurrency: runtime.GOMAXPROCS(0),
	}
}

// Evaluate runs every rule over every group. Groups are evaluated
// concurrently; the returned order is group order, then member order, then
// rule order, so output is deterministic.
func (e *Engine) Evaluate(ctx context.Context, groups []domain.CapabilityGroup) ([]domain.Finding, error) {
	signals := ValidationSignals(groups, e.vocab)
	perGroup := make([][]domain.Finding, len(groups))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, e.concurrency))
	for i, g := range groups {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perGroup[i] = e.evaluateGroup(g, signals[g.TypeName])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []domain.Finding
	for _, fs := range perGroup {
		all = append(all, fs...)
	}
	return all, nil
}

func (e *Engine) evaluateGroup(g domain.CapabilityGroup, validated bool) []domain.Finding {
	var out []domain.Finding
	for _, c := range g.Members {
		for _, rule := range e.memberRules {
			out = append(out, rule(c, g, validated, e.vocab)...)
		}
	}
	for _, rule := range e.groupRules {
		out = append(out, rule(g, e.vocab)...)
	}
	return out
}
