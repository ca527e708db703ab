package playbook

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// dedupGuard is a best-effort filter against the curator re-adding advice
// it already wrote. It is a policy layer only; the contractual dedup of the
// playbook is structural (by id).
type dedupGuard struct {
	minScore int
}

func newDedupGuard(minScore int) *dedupGuard {
	if minScore <= 0 {
		minScore = 200
	}
	return &dedupGuard{minScore: minScore}
}

// nearDuplicate reports whether content fuzzily matches an existing bullet,
// returning the id of the bullet it collides with.
func (g *dedupGuard) nearDuplicate(p *Playbook, content string) (string, bool) {
	needle := normalize(content)
	if needle == "" {
		return "", false
	}
	for _, s := range p.sections {
		for _, b := range s.bullets {
			existing := normalize(b.Content)
			if existing == needle {
				return b.Id, true
			}
			// Match the shorter text against the longer one so a bullet
			// that merely rephrases an existing one still collides.
			pattern, target := needle, existing
			if len(pattern) > len(target) {
				pattern, target = target, pattern
			}
			matches := fuzzy.Find(pattern, []string{target})
			if len(matches) > 0 && matches[0].Score >= g.minScore {
				return b.Id, true
			}
		}
	}
	return "", false
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
