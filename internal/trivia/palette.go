package trivia

import "strings"

// TeamColors is the palette used for teams that were created without a colour.
var TeamColors = []string{
	"blue", "green", "yellow", "red", "purple",
	"orange", "teal", "pink", "indigo", "cyan",
}

var categoryTeamNames = map[string][]string{
	"bible": {
		"Israelites", "Levites", "Judeans", "Benjamites", "Ephraimites", "Shunammites",
		"Rechabites", "Ninevites", "Persians", "Cretans", "Romans", "Greeks", "Egyptians", "Philistines",
	},
	"animals": {
		"Lions", "Eagles", "Wolves", "Bears", "Tigers", "Hawks", "Foxes", "Dolphins",
		"Elephants", "Panthers", "Falcons", "Sharks", "Rhinos", "Jaguars",
	},
	"us history": {
		"Patriots", "Colonists", "Pioneers", "Revolutionaries", "Federalists", "Yankees",
		"Rebels", "Union", "Minutemen", "Founding Fathers", "Pilgrims", "Cowboys", "Explorers", "Settlers",
	},
	"world history": {
		"Spartans", "Vikings", "Samurai", "Knights", "Gladiators", "Crusaders",
		"Warriors", "Legions", "Conquerors", "Empire", "Dynasty", "Republic", "Pharaohs", "Emperors",
	},
	"geography": {
		"Explorers", "Navigators", "Mountaineers", "Voyagers", "Adventurers", "Trekkers",
		"Nomads", "Travelers", "Pioneers", "Compass", "Atlas", "Summit", "Valley", "Rivers",
	},
}

// TeamNames returns the default team names for a category, or nil when the
// category has none.
func TeamNames(category string) []string {
	return categoryTeamNames[strings.ToLower(strings.TrimSpace(category))]
}
