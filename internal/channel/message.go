package channel

import (
	"fmt"

	"github.com/shaharia-lab/renewd/internal/storage"
)

// cycleLabel maps a billing cycle to the suffix shown after the cost.
func cycleLabel(c storage.BillingCycle) string {
	switch c {
	case storage.CycleWeekly:
		return "week"
	case storage.CycleMonthly:
		return "month"
	case storage.CycleYearly:
		return "year"
	}
	return string(c)
}

// costLine formats the subscription cost, e.g. "9.99 USD/month".
func costLine(sub *storage.Subscription) string {
	return fmt.Sprintf("%.2f %s/%s",
		float64(sub.CostCents)/100, sub.Currency, cycleLabel(sub.BillingCycle))
}

// dayWord returns "day" or "days" for n.
func dayWord(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}

// reminderSubject builds the one-line summary used as the email subject and
// the lead of the Telegram message.
func reminderSubject(sub *storage.Subscription, thresholdDays int) string {
	return fmt.Sprintf("%s renews in %d %s", sub.Name, thresholdDays, dayWord(thresholdDays))
}

// reminderBody builds the plain-text reminder body shared by the email and
// Telegram adapters.
func reminderBody(sub *storage.Subscription, thresholdDays int) string {
	body := fmt.Sprintf(
		"Your %s subscription renews on %s (in %d %s).\nCost: %s",
		sub.Name,
		sub.NextRenewal.Format("Monday, 2 January 2006"),
		thresholdDays, dayWord(thresholdDays),
		costLine(sub),
	)
	if sub.Trial {
		body += "\n\nThis subscription is still in its trial period. Cancel before the renewal date to avoid being charged."
	}
	return body
}
