package app

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"sync"

	"github.com/a-h/templ"
	"github.com/felixbrock/patentace/internal/domain"
	"github.com/felixbrock/patentace/internal/playbook"
	"github.com/felixbrock/patentace/internal/role"
)

type SnapshotRepo interface {
	Save(p *playbook.Playbook) error
	Load(opts ...playbook.Option) (*playbook.Playbook, error)
	Exists() bool
}

type ResultRepo interface {
	Append(result domain.AdaptationResult) error
	Read(runId string) ([]domain.AdaptationResult, error)
}

type RunSummary struct {
	RunId     string
	Results   []domain.AdaptationResult
	Stats     playbook.Stats
	Aggregate map[string]float64
}

type ComponentBuilder struct {
	Index func(stats playbook.Stats, bullets []domain.Bullet) templ.Component
	Run   func(summary RunSummary) templ.Component
	Error func(code int, title string, msg string) templ.Component
}

// App serves the playbook inspection UI and the adaptation run endpoint.
// The adaptation core is single-threaded by contract, so runs and playbook
// reads are serialized behind mu.
type App struct {
	Playbook         *playbook.Playbook
	Client           role.CompletionClient
	SnapshotRepo     SnapshotRepo
	ResultRepo       ResultRepo
	ComponentBuilder ComponentBuilder
	Config           Config

	mu sync.Mutex
}

func (a *App) Start() {
	http.Handle("/", ComponentHandler(a.index))
	http.Handle("/snapshot", http.HandlerFunc(a.snapshot))
	http.Handle("/adaptations", ComponentHandler(a.adapt))

	slog.Info(fmt.Sprintf("App running on %s...", a.Config.Port))
	log.Fatal(http.ListenAndServe(":"+a.Config.Port, nil))
}
