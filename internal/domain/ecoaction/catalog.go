package ecoaction

// DefaultCatalog is seeded when the catalog is empty.
func DefaultCatalog() []Action {
	return []Action{
		{Title: "Switch to LED Bulbs", Description: "Replace all incandescent bulbs with energy-efficient LEDs.", CO2SavedKg: 50, Category: "Energy", Difficulty: "Easy"},
		{Title: "Ride a Bike to Work", Description: "Commute by bicycle instead of driving a car.", CO2SavedKg: 4.5, Category: "Transport", Difficulty: "Medium"},
		{Title: "Plant a Tree", Description: "Plant a native tree in your garden or community.", CO2SavedKg: 20, Category: "Nature", Difficulty: "Medium"},
		{Title: "Start Composting", Description: "Compost organic kitchen waste to reduce landfill methane.", CO2SavedKg: 150, Category: "Waste", Difficulty: "Medium"},
		{Title: "Use Reusable Bags", Description: "Bring your own bags when shopping.", CO2SavedKg: 5, Category: "Waste", Difficulty: "Easy"},
		{Title: "Lower Thermostat in Winter", Description: "Lower your thermostat by 2 degrees.", CO2SavedKg: 100, Category: "Energy", Difficulty: "Easy"},
		{Title: "Install Solar Panels", Description: "Generate your own clean electricity.", CO2SavedKg: 1500, Category: "Energy", Difficulty: "Hard"},
	}
}
