package nlquery

import (
	"regexp"
	"strings"

	"dealerchat/internal/interfaces"
)

// Deterministic fast-path search used during the wizard's vehicle-selection
// step: keyword-to-column matching with no LLM round trip.

var colorWords = map[string]bool{
	"black": true, "white": true, "silver": true, "gray": true, "grey": true,
	"red": true, "blue": true, "green": true, "brown": true, "beige": true,
	"gold": true, "orange": true, "yellow": true, "purple": true,
	"maroon": true, "burgundy": true, "tan": true, "charcoal": true,
}

var bodyStyleWords = map[string]bool{
	"suv": true, "sedan": true, "truck": true, "coupe": true,
	"convertible": true, "hatchback": true, "wagon": true, "van": true,
	"minivan": true, "crossover": true, "pickup": true,
}

var searchStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "show": true, "me": true,
	"find": true, "search": true, "for": true, "i": true, "want": true,
	"need": true, "looking": true, "am": true, "vehicle": true,
	"vehicles": true, "car": true, "cars": true, "with": true, "in": true,
	"any": true, "do": true, "you": true, "have": true, "please": true,
}

var searchTokenPattern = regexp.MustCompile(`[A-Za-z0-9]+`)

// BuildVehicleFilter classifies each input token as a color, a body style,
// or a make/model term. Every recognized attribute contributes its own
// AND-combined clause, so "red explorer" must match on color and model both.
func BuildVehicleFilter(input string) interfaces.VehicleFilter {
	filter := interfaces.VehicleFilter{Limit: 20}

	for _, token := range searchTokenPattern.FindAllString(input, -1) {
		word := strings.ToLower(token)
		switch {
		case searchStopWords[word]:
		case colorWords[word]:
			filter.Colors = append(filter.Colors, word)
		case bodyStyleWords[word]:
			filter.BodyStyles = append(filter.BodyStyles, word)
		case isNumeric(word):
			// Bare numbers (years, prices) are ignored by the fast path.
		default:
			filter.Terms = append(filter.Terms, word)
		}
	}

	return filter
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
