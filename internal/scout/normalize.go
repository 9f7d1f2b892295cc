package scout

import (
	"sort"
	"strconv"
	"strings"
)

// minutesPerHour converts the directory's per-minute price into the hourly
// rate stored on each judge.
const minutesPerHour = 60

// HeuristicScorer is the default additive relevance heuristic. Every profile
// starts at a base score; an "online" presence token and a Texas location
// each add a fixed bonus.
type HeuristicScorer struct{}

const (
	baseScore      = 80
	onlineBonus    = 10
	texasBonus     = 5
	texasSubstring = "TX"
)

// Score implements Scorer.
func (HeuristicScorer) Score(raw RawProfile) int {
	score := baseScore
	if raw.Status == "online" {
		score += onlineBonus
	}
	if strings.Contains(raw.Location, texasSubstring) {
		score += texasBonus
	}
	return score
}

// Normalize converts one raw profile into a typed Judge. The topic supplies
// the expertise label when the page did not.
func Normalize(topic string, raw RawProfile, scorer Scorer) Judge {
	expertise := strings.TrimSpace(raw.Expertise)
	if expertise == "" {
		expertise = HumanizeTopic(topic)
	}
	return Judge{
		Name:           raw.Name,
		Expertise:      expertise,
		Availability:   availabilityFromStatus(raw.Status),
		HourlyRate:     parseRate(raw.Price) * minutesPerHour,
		RelevanceScore: scorer.Score(raw),
		Location:       strings.TrimSpace(raw.Location),
	}
}

// NormalizeAll converts and ranks a batch of raw profiles. Ordering is
// descending by relevance; ties keep the source order.
func NormalizeAll(topic string, raws []RawProfile, scorer Scorer) []Judge {
	judges := make([]Judge, 0, len(raws))
	for _, raw := range raws {
		judges = append(judges, Normalize(topic, raw, scorer))
	}
	SortByRelevance(judges)
	return judges
}

// SortByRelevance orders judges by descending score with a stable sort.
func SortByRelevance(judges []Judge) {
	sort.SliceStable(judges, func(i, j int) bool {
		return judges[i].RelevanceScore > judges[j].RelevanceScore
	})
}

// HumanizeTopic renders a topic slug as an expertise label: hyphens become
// spaces and the result is upper-cased.
func HumanizeTopic(topic string) string {
	return strings.ToUpper(strings.ReplaceAll(topic, "-", " "))
}

// availabilityFromStatus maps the raw presence token. Only the exact token
// "offline" means unavailable; anything else, including an absent token,
// counts as available.
func availabilityFromStatus(status string) Availability {
	if status == "offline" {
		return Unavailable
	}
	return Available
}

// parseRate extracts the per-minute price from a raw token such as "$5.00",
// stripping everything that is not a digit or decimal point. Unparsable
// tokens yield 0.
func parseRate(price string) float64 {
	var b strings.Builder
	for _, r := range price {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	rate, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return rate
}
