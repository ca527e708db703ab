package playbook

import (
	"fmt"
	"strings"

	"github.com/felixbrock/patentace/internal/domain"
)

type UnknownBulletError struct {
	Id string
}

func (e UnknownBulletError) Error() string {
	return fmt.Sprintf("unknown bullet id %q", e.Id)
}

type Stats struct {
	Sections     int `json:"sections"`
	Bullets      int `json:"bullets"`
	HelpfulTotal int `json:"helpful_total"`
	HarmfulTotal int `json:"harmful_total"`
}

func (s Stats) String() string {
	return fmt.Sprintf("sections=%d bullets=%d helpful=%d harmful=%d",
		s.Sections, s.Bullets, s.HelpfulTotal, s.HarmfulTotal)
}

type section struct {
	name    string
	bullets []*domain.Bullet
}

// Playbook is the accumulated store of advisory bullets grouped into
// sections. Section order and bullet order within a section are insertion
// order. All mutation goes through the Add/Update/Tag/Remove primitives or
// through Apply; nothing is pruned implicitly.
type Playbook struct {
	sections []*section
	index    map[string]*domain.Bullet
	nextId   int
	guard    *dedupGuard
}

type Option func(*Playbook)

// WithDedupGuard enables the best-effort near-duplicate guard for ADD
// operations applied through Apply. Structural dedup by id is always on;
// this is an optional policy on top of it.
func WithDedupGuard(minScore int) Option {
	return func(p *Playbook) {
		p.guard = newDedupGuard(minScore)
	}
}

func New(opts ...Option) *Playbook {
	p := &Playbook{index: map[string]*domain.Bullet{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Add creates a bullet with a fresh id and returns the id. It never fails.
func (p *Playbook) Add(sectionName string, content string) string {
	p.nextId++
	b := &domain.Bullet{
		Id:      fmt.Sprintf("b%04d", p.nextId),
		Section: sectionName,
		Content: content,
	}
	s := p.sectionFor(sectionName)
	s.bullets = append(s.bullets, b)
	p.index[b.Id] = b
	return b.Id
}

// Update replaces the content of an existing bullet. It never moves a
// bullet between sections.
func (p *Playbook) Update(id string, content string) error {
	b, ok := p.index[id]
	if !ok {
		return UnknownBulletError{Id: id}
	}
	b.Content = content
	return nil
}

// Tag increments the helpful or harmful counter of an existing bullet.
func (p *Playbook) Tag(id string, helpful bool) error {
	b, ok := p.index[id]
	if !ok {
		return UnknownBulletError{Id: id}
	}
	if helpful {
		b.HelpfulCount++
	} else {
		b.HarmfulCount++
	}
	return nil
}

// Remove deletes a bullet from its section. The id is never reused.
func (p *Playbook) Remove(id string) error {
	b, ok := p.index[id]
	if !ok {
		return UnknownBulletError{Id: id}
	}
	delete(p.index, id)
	for _, s := range p.sections {
		if s.name != b.Section {
			continue
		}
		for i := range s.bullets {
			if s.bullets[i].Id == id {
				s.bullets = append(s.bullets[:i], s.bullets[i+1:]...)
				break
			}
		}
	}
	return nil
}

// Render produces the prompt-facing serialization: sections in insertion
// order, bullets in insertion order, each annotated with its id and
// counters so role outputs can reference it. Deterministic for a given
// state.
func (p *Playbook) Render() string {
	if len(p.index) == 0 {
		return "(playbook is empty)"
	}

	var b strings.Builder
	for _, s := range p.sections {
		if len(s.bullets) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n", s.name)
		for _, bullet := range s.bullets {
			fmt.Fprintf(&b, "- [%s] (helpful: %d, harmful: %d) %s\n",
				bullet.Id, bullet.HelpfulCount, bullet.HarmfulCount, bullet.Content)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderBullets renders only the bullets with the given ids, in the given
// order. Unknown ids are skipped.
func (p *Playbook) RenderBullets(ids []string) string {
	var b strings.Builder
	for _, id := range ids {
		bullet, ok := p.index[id]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- [%s] (helpful: %d, harmful: %d) %s\n",
			bullet.Id, bullet.HelpfulCount, bullet.HarmfulCount, bullet.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p *Playbook) Stats() Stats {
	stats := Stats{Bullets: len(p.index)}
	for _, s := range p.sections {
		if len(s.bullets) == 0 {
			continue
		}
		stats.Sections++
		for _, b := range s.bullets {
			stats.HelpfulTotal += b.HelpfulCount
			stats.HarmfulTotal += b.HarmfulCount
		}
	}
	return stats
}

// Bullets returns a copy of every bullet in render order.
func (p *Playbook) Bullets() []domain.Bullet {
	bullets := make([]domain.Bullet, 0, len(p.index))
	for _, s := range p.sections {
		for _, b := range s.bullets {
			bullets = append(bullets, *b)
		}
	}
	return bullets
}

func (p *Playbook) sectionFor(name string) *section {
	for _, s := range p.sections {
		if s.name == name {
			return s
		}
	}
	s := &section{name: name}
	p.sections = append(p.sections, s)
	return s
}
