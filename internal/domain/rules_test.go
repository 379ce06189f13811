package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCombination(t *testing.T) {
	invalid := 0
	for _, category := range Categories {
		for _, priority := range Priorities {
			ok := ValidateCombination(category, priority)
			if category == TicketCategoryGeneral && priority == TicketPriorityUrgent {
				assert.False(t, ok)
				invalid++
				continue
			}
			assert.True(t, ok, "%s/%s should be allowed", category, priority)
		}
	}
	assert.Equal(t, 1, invalid)
}

func TestDefaultPriorityFor(t *testing.T) {
	tests := map[TicketCategory]TicketPriority{
		TicketCategoryTechnical:      TicketPriorityMedium,
		TicketCategoryBilling:        TicketPriorityHigh,
		TicketCategoryFeatureRequest: TicketPriorityLow,
		TicketCategoryBugReport:      TicketPriorityHigh,
		TicketCategoryGeneral:        TicketPriorityLow,
		TicketCategory("SALES"):      TicketPriorityMedium,
	}
	for category, want := range tests {
		assert.Equal(t, want, DefaultPriorityFor(category), string(category))
	}
}

func TestTeamFor(t *testing.T) {
	tests := map[TicketCategory]string{
		TicketCategoryTechnical:      "technical-support",
		TicketCategoryBilling:        "billing-team",
		TicketCategoryFeatureRequest: "product-team",
		TicketCategoryBugReport:      "engineering-team",
		TicketCategoryGeneral:        "customer-support",
		TicketCategory(""):           "customer-support",
	}
	for category, want := range tests {
		assert.Equal(t, want, TeamFor(category), string(category))
	}
}
