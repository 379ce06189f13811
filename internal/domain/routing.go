package domain

// DefaultTeam receives anything the routing table does not map.
const DefaultTeam = "customer-support"

var teamsByCategory = map[TicketCategory]string{
	TicketCategoryTechnical:      "technical-support",
	TicketCategoryBilling:        "billing-team",
	TicketCategoryFeatureRequest: "product-team",
	TicketCategoryBugReport:      "engineering-team",
	TicketCategoryGeneral:        DefaultTeam,
}

// TeamFor returns the team responsible for a category.
func TeamFor(category TicketCategory) string {
	if team, ok := teamsByCategory[category]; ok {
		return team
	}
	return DefaultTeam
}
