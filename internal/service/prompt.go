package service

import (
	"fmt"
	"strings"

	"github.com/caffit/caffit/internal/model"
)

// BuildPrompt assembles the planning prompt sent to the generative model:
// profile, selected products with totals against the personal limits, and
// the scheduling constraints the answer must respect.
func BuildPrompt(profile model.Profile, products []model.PlanProduct, startTime string) string {
	var lines []string
	for _, p := range products {
		sugar := "unknown"
		if p.SugarG != nil {
			sugar = fmt.Sprintf("%.0fg", *p.SugarG)
		}
		lines = append(lines, fmt.Sprintf("- %s (caffeine: %.0fmg, sugar: %s)", p.Name, p.CaffeineMg, sugar))
	}

	totalCaffeine, totalSugar := PlanTotals(products)
	caffeinePct := totalCaffeine / profile.CaffeineLimitMg * 100
	sugarPct := totalSugar / profile.SugarLimitG * 100

	var b strings.Builder
	b.WriteString("You are an assistant for healthy caffeine and sugar intake planning.\n\n")
	b.WriteString("User profile:\n")
	fmt.Fprintf(&b, "- Lifestyle: %s\n", profile.Category)
	fmt.Fprintf(&b, "- Age group: %s\n", profile.AgeGroup)
	fmt.Fprintf(&b, "- Weight: %.0fkg\n", profile.WeightKg)
	fmt.Fprintf(&b, "- Wakes at: %s\n", profile.WakeTime)
	fmt.Fprintf(&b, "- Sleeps at: %s\n", profile.SleepTime)
	fmt.Fprintf(&b, "- Waking hours: %.1f\n", profile.AwakeHours)
	fmt.Fprintf(&b, "- Daily caffeine limit: %.0fmg\n", profile.CaffeineLimitMg)
	fmt.Fprintf(&b, "- Daily sugar limit: %.0fg\n\n", profile.SugarLimitG)

	b.WriteString("Selected products:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nProjected intake:\n")
	fmt.Fprintf(&b, "- Total caffeine: %.0fmg (%.1f%% of the limit)\n", totalCaffeine, caffeinePct)
	fmt.Fprintf(&b, "- Total sugar: %.0fg (%.1f%% of the limit)\n\n", totalSugar, sugarPct)
	fmt.Fprintf(&b, "Start time: %s\n\n", startTime)

	b.WriteString("Request:\n")
	b.WriteString("1. Propose the safest consumption schedule for these products.\n")
	b.WriteString("2. Keep at least 2 hours between products.\n")
	fmt.Fprintf(&b, "3. Schedule everything between wake time (%s) and sleep time (%s).\n", profile.WakeTime, profile.SleepTime)
	b.WriteString("4. Avoid caffeine within 3 hours of bedtime.\n")
	b.WriteString("5. Include a safety verdict (safe / caution / danger).\n")
	b.WriteString("6. Include practical intake tips.\n")
	b.WriteString("Answer in friendly plain language.\n")
	return b.String()
}
