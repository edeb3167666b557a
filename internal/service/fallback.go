package service

import (
	"fmt"
	"strings"

	"github.com/caffit/caffit/internal/model"
)

// FallbackPlan produces a basic local schedule when the generative model is
// unreachable: products spaced two hours apart from the start time, with a
// verdict against the profile limits.
func FallbackPlan(profile model.Profile, products []model.PlanProduct, startTime string) string {
	start, err := parseClock(startTime)
	if err != nil {
		start, _ = parseClock(profile.WakeTime)
	}

	var b strings.Builder
	b.WriteString("Suggested schedule:\n")
	slot := start
	for _, p := range products {
		fmt.Fprintf(&b, "- %02d:%02d  %s (%.0fmg caffeine)\n", (slot/60)%24, slot%60, p.Name, p.CaffeineMg)
		slot += 120
	}

	totalCaffeine, totalSugar := PlanTotals(products)
	verdict := "safe"
	if totalCaffeine > profile.CaffeineLimitMg || totalSugar > profile.SugarLimitG {
		verdict = "danger"
	} else if totalCaffeine > profile.CaffeineLimitMg*0.8 || totalSugar > profile.SugarLimitG*0.8 {
		verdict = "caution"
	}
	fmt.Fprintf(&b, "\nTotal: %.0fmg caffeine / %.0fg sugar against limits %.0fmg / %.0fg.\n",
		totalCaffeine, totalSugar, profile.CaffeineLimitMg, profile.SugarLimitG)
	fmt.Fprintf(&b, "Verdict: %s\n", verdict)
	b.WriteString("Keep at least two hours between drinks and avoid caffeine close to bedtime.\n")
	return b.String()
}
