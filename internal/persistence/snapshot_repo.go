package persistence

import (
	"encoding/json"
	"os"

	"github.com/felixbrock/patentace/internal/playbook"
)

// SnapshotRepo persists playbook snapshots to a JSON file so a run can be
// resumed with identical ids, section order and counters.
type SnapshotRepo struct {
	Path string
}

func (r SnapshotRepo) Save(p *playbook.Playbook) error {
	content, err := json.MarshalIndent(p.Snapshot(), "", "  ")

	if err != nil {
		return err
	}

	return os.WriteFile(r.Path, content, 0644)
}

func (r SnapshotRepo) Load(opts ...playbook.Option) (*playbook.Playbook, error) {
	content, err := os.ReadFile(r.Path)

	if err != nil {
		return nil, err
	}

	var snap playbook.Snapshot
	if err = json.Unmarshal(content, &snap); err != nil {
		return nil, err
	}

	return playbook.Restore(snap, opts...)
}

// Exists reports whether a snapshot file is present at the repo path.
func (r SnapshotRepo) Exists() bool {
	_, err := os.Stat(r.Path)
	return err == nil
}
