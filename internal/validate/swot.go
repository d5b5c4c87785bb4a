package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samtetlow/nof1-sub000/internal/model"
)

func buildSWOT(match model.MatchResult, conf model.ConfirmationResult, risks []string) model.SWOT {
	var swot model.SWOT

	swot.Strengths = append(swot.Strengths, match.Strengths...)
	for _, f := range conf.Factors {
		if f.Status == model.StatusConfirmed {
			swot.Strengths = append(swot.Strengths, fmt.Sprintf("%s confirmed by evidence", strings.ToLower(f.Name)))
		}
	}

	swot.Weaknesses = append(swot.Weaknesses, match.Gaps...)
	for _, f := range conf.Factors {
		switch f.Status {
		case model.StatusContradicted:
			swot.Weaknesses = append(swot.Weaknesses, fmt.Sprintf("%s contradicted by evidence", strings.ToLower(f.Name)))
		case model.StatusUnconfirmed:
			swot.Weaknesses = append(swot.Weaknesses, fmt.Sprintf("%s unconfirmed", strings.ToLower(f.Name)))
		}
	}

	if len(match.Strengths) > 0 {
		swot.Opportunities = append(swot.Opportunities, fmt.Sprintf(
			"leverage %d strong dimensions in the proposal narrative", len(match.Strengths)))
	}
	if match.Recommendation == model.MatchRecommended {
		swot.Opportunities = append(swot.Opportunities, "competitive position supports a prime bid")
	} else if match.Recommendation == model.MatchBorderline {
		swot.Opportunities = append(swot.Opportunities, "teaming could lift a borderline match into contention")
	}

	swot.Threats = append(swot.Threats, risks...)

	return swot
}

// actionSeverity ranks risk checklist items; higher outranks lower.
// Clearance and set-aside issues are disqualifying and sort first.
var actionSeverity = map[string]int{
	RiskClearanceIssue:     6,
	RiskSetAsideIssue:      5,
	RiskCapabilityMismatch: 4,
	RiskPastPerformanceGap: 3,
	RiskCapacityConstraint: 2,
	RiskDataQuality:        1,
}

// riskActions maps each checklist item to its remediation.
var riskActions = map[string]string{
	RiskClearanceIssue:     "pursue a teaming partner holding the required clearance",
	RiskSetAsideIssue:      "verify set-aside eligibility or team with a compliant prime",
	RiskCapabilityMismatch: "close capability gaps through partnering or targeted hiring",
	RiskPastPerformanceGap: "highlight adjacent past performance and consider a subcontract role first",
	RiskCapacityConstraint: "line up surge capacity before committing to full performance",
	RiskDataQuality:        "gather additional independent data before a pursuit decision",
}

// recommendActions derives one action per weakness/threat, ordered by the
// severity of the originating item (most severe first, ties in discovery
// order), deduplicated, capped at 10.
func recommendActions(weaknesses, risks []string) []string {
	type ranked struct {
		action   string
		severity int
		index    int
	}
	var all []ranked

	idx := 0
	for _, r := range risks {
		action, ok := riskActions[r]
		if !ok {
			continue
		}
		all = append(all, ranked{action: action, severity: actionSeverity[r], index: idx})
		idx++
	}
	for _, w := range weaknesses {
		all = append(all, ranked{
			action:   fmt.Sprintf("strengthen the record on %s", w),
			severity: 0,
			index:    idx,
		})
		idx++
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].severity != all[j].severity {
			return all[i].severity > all[j].severity
		}
		return all[i].index < all[j].index
	})

	seen := make(map[string]bool, len(all))
	var actions []string
	for _, a := range all {
		if seen[a.action] {
			continue
		}
		seen[a.action] = true
		actions = append(actions, a.action)
		if len(actions) == 10 {
			break
		}
	}
	return actions
}
