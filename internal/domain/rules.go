package domain

var defaultPriorities = map[TicketCategory]TicketPriority{
	TicketCategoryTechnical:      TicketPriorityMedium,
	TicketCategoryBilling:        TicketPriorityHigh,
	TicketCategoryFeatureRequest: TicketPriorityLow,
	TicketCategoryBugReport:      TicketPriorityHigh,
	TicketCategoryGeneral:        TicketPriorityLow,
}

// ValidateCombination reports whether a category/priority pair is allowed.
// General inquiries are never urgent.
func ValidateCombination(category TicketCategory, priority TicketPriority) bool {
	return !(category == TicketCategoryGeneral && priority == TicketPriorityUrgent)
}

// DefaultPriorityFor returns the fallback priority for a category.
func DefaultPriorityFor(category TicketCategory) TicketPriority {
	if priority, ok := defaultPriorities[category]; ok {
		return priority
	}
	return TicketPriorityMedium
}
