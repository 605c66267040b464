package world

// Category is a placement bucket tag. Composite buckets ("gear" for
// weapon-or-armor) are ordinary categories that only ever appear as fallback
// destinations.
type Category string

// FallbackRule folds an exhausted bucket into a broader one. Rules are
// declared as data in the world document so the merge policy can be audited
// without reading fill code. When Intangible is set, locations that are not
// physically represented in the world promote there instead of To; entities
// always promote to To.
type FallbackRule struct {
	From       Category `yaml:"from"`
	To         Category `yaml:"to"`
	Intangible Category `yaml:"intangible,omitempty"`
}

// FallbackFor returns the destination bucket for a leftover of category from.
// physical is the location's physical attribute; entities pass true.
// The second return is false when no rule covers the category, which is only
// legal for terminal buckets.
func FallbackFor(rules []FallbackRule, from Category, physical bool) (Category, bool) {
	for _, r := range rules {
		if r.From != from {
			continue
		}
		if !physical && r.Intangible != "" {
			return r.Intangible, true
		}
		return r.To, true
	}
	return "", false
}

// Compatible reports whether an entity of category ent may occupy a location
// of category loc: either directly, or because both sides promote to a common
// bucket along the fallback chains.
func Compatible(rules []FallbackRule, ent, loc Category, physical bool) bool {
	entChain := chain(rules, ent, true)
	for c := range chain(rules, loc, physical) {
		if entChain[c] {
			return true
		}
	}
	return false
}

func chain(rules []FallbackRule, from Category, physical bool) map[Category]bool {
	seen := map[Category]bool{from: true}
	cur := from
	for {
		next, ok := FallbackFor(rules, cur, physical)
		if !ok || seen[next] {
			break
		}
		seen[next] = true
		cur = next
	}
	return seen
}
