package playbook

import (
	"fmt"

	"github.com/felixbrock/patentace/internal/domain"
)

type SectionSnapshot struct {
	Name    string          `json:"name"`
	Bullets []domain.Bullet `json:"bullets"`
}

// Snapshot is the serialized form of a playbook: ordered sections, ordered
// bullets, plus the id counter so a restored playbook never reuses an id.
type Snapshot struct {
	NextId   int               `json:"next_id"`
	Sections []SectionSnapshot `json:"sections"`
}

func (p *Playbook) Snapshot() Snapshot {
	snap := Snapshot{NextId: p.nextId, Sections: []SectionSnapshot{}}
	for _, s := range p.sections {
		ss := SectionSnapshot{Name: s.name, Bullets: make([]domain.Bullet, 0, len(s.bullets))}
		for _, b := range s.bullets {
			ss.Bullets = append(ss.Bullets, *b)
		}
		snap.Sections = append(snap.Sections, ss)
	}
	return snap
}

// Restore rebuilds a playbook from a snapshot with identical ids, order and
// counters.
func Restore(snap Snapshot, opts ...Option) (*Playbook, error) {
	p := New(opts...)
	p.nextId = snap.NextId
	for _, ss := range snap.Sections {
		s := p.sectionFor(ss.Name)
		for i := range ss.Bullets {
			b := ss.Bullets[i]
			if b.Id == "" {
				return nil, fmt.Errorf("snapshot bullet in section %q has no id", ss.Name)
			}
			if _, exists := p.index[b.Id]; exists {
				return nil, fmt.Errorf("snapshot contains duplicate bullet id %q", b.Id)
			}
			b.Section = ss.Name
			s.bullets = append(s.bullets, &b)
			p.index[b.Id] = &b
		}
	}
	return p, nil
}
