package playbook

import (
	"fmt"

	"github.com/felixbrock/patentace/internal/domain"
)

type DroppedOperation struct {
	Operation domain.Operation
	Reason    string
}

// ApplyReport records what one curation batch did to the playbook.
type ApplyReport struct {
	Applied int
	Added   []string
	Dropped []DroppedOperation
}

// Apply executes curator operations in emitted order. An operation that
// names an unknown bullet id, or an unknown operation type, is dropped and
// reported; it never aborts the rest of the batch.
func (p *Playbook) Apply(ops []domain.Operation) ApplyReport {
	var report ApplyReport
	for _, op := range ops {
		switch op.Type {
		case domain.OperationAdd:
			if p.guard != nil {
				if dup, ok := p.guard.nearDuplicate(p, op.Content); ok {
					report.Dropped = append(report.Dropped, DroppedOperation{
						Operation: op,
						Reason:    fmt.Sprintf("near duplicate of %s", dup),
					})
					continue
				}
			}
			id := p.Add(op.Section, op.Content)
			report.Added = append(report.Added, id)
			report.Applied++
		case domain.OperationUpdate:
			if err := p.Update(op.BulletId, op.Content); err != nil {
				report.Dropped = append(report.Dropped, DroppedOperation{Operation: op, Reason: err.Error()})
				continue
			}
			report.Applied++
		case domain.OperationTag:
			if err := p.tagCounts(op.BulletId, op.Metadata.Helpful, op.Metadata.Harmful); err != nil {
				report.Dropped = append(report.Dropped, DroppedOperation{Operation: op, Reason: err.Error()})
				continue
			}
			report.Applied++
		case domain.OperationRemove:
			if err := p.Remove(op.BulletId); err != nil {
				report.Dropped = append(report.Dropped, DroppedOperation{Operation: op, Reason: err.Error()})
				continue
			}
			report.Applied++
		default:
			report.Dropped = append(report.Dropped, DroppedOperation{
				Operation: op,
				Reason:    fmt.Sprintf("unknown operation type %q", op.Type),
			})
		}
	}
	return report
}

func (p *Playbook) tagCounts(id string, helpful int, harmful int) error {
	b, ok := p.index[id]
	if !ok {
		return UnknownBulletError{Id: id}
	}
	if helpful > 0 {
		b.HelpfulCount += helpful
	}
	if harmful > 0 {
		b.HarmfulCount += harmful
	}
	return nil
}
