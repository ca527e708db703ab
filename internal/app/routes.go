package app

import (
	"encoding/json"
	"net/http"

	"github.com/felixbrock/patentace/internal/adapter"
	"github.com/felixbrock/patentace/internal/domain"
	"github.com/felixbrock/patentace/internal/patent"
	"github.com/felixbrock/patentace/internal/role"
)

type sampleReq struct {
	Claim       string `json:"claim"`
	Paragraph   string `json:"paragraph"`
	GroundTruth string `json:"ground_truth"`
	Context     string `json:"context"`
}

type adaptationReq struct {
	Samples []sampleReq `json:"samples"`
	Epochs  int         `json:"epochs"`
}

func (a *App) errResponse(ctx errCtx, err error) *ComponentResponse {
	return &ComponentResponse{
		Error:       err,
		Message:     ctx.Title,
		Code:        ctx.Code,
		ContentType: "text/html",
		Component:   a.ComponentBuilder.Error(ctx.Code, ctx.Title, ctx.Msg),
	}
}

func (a *App) index(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	if r.Method != http.MethodGet {
		return a.errResponse(get405(), nil)
	}

	a.mu.Lock()
	stats := a.Playbook.Stats()
	bullets := a.Playbook.Bullets()
	a.mu.Unlock()

	return &ComponentResponse{
		Code:        200,
		Message:     "OK",
		ContentType: "text/html",
		Component:   a.ComponentBuilder.Index(stats, bullets),
	}
}

func (a *App) snapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, get405().Title, 405)
		return
	}

	a.mu.Lock()
	snap := a.Playbook.Snapshot()
	a.mu.Unlock()

	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		http.Error(w, get500().Title, 500)
	}
}

func (a *App) adapt(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	if r.Method != http.MethodPost {
		return a.errResponse(get405(), nil)
	}

	body, err := Read(r.Body)

	if err != nil {
		return a.errResponse(get400(), err)
	}

	reqBody, err := ReadJSON[adaptationReq](body)

	if err != nil || len(reqBody.Samples) == 0 {
		return a.errResponse(get400(), err)
	}

	samples := make([]domain.Sample, len(reqBody.Samples))
	for i, s := range reqBody.Samples {
		samples[i] = patent.NewSample(s.Claim, s.Paragraph, s.GroundTruth, s.Context)
	}

	epochs := reqBody.Epochs
	if epochs < 1 {
		epochs = a.Config.Epochs
	}

	summary, err := a.runAdaptation(r, samples, epochs)

	if err != nil {
		return a.errResponse(get500(), err)
	}

	return &ComponentResponse{
		Code:        201,
		Message:     "Created",
		ContentType: "text/html",
		Component:   a.ComponentBuilder.Run(*summary),
	}
}

func (a *App) runAdaptation(r *http.Request, samples []domain.Sample, epochs int) (*RunSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	offline := adapter.OfflineAdapter{Adapter: adapter.Adapter{
		Playbook:            a.Playbook,
		Generator:           role.NewGenerator(a.Client, patent.GeneratorPrompt),
		Reflector:           role.NewReflector(a.Client, patent.ReflectorPrompt),
		Curator:             role.NewCurator(a.Client, patent.CuratorPrompt),
		MaxRefinementRounds: a.Config.MaxRefinementRounds,
	}}

	env := patent.NewEnvironment()
	results, err := offline.Run(r.Context(), samples, env, epochs)

	if err != nil {
		return nil, err
	}

	for _, result := range results {
		if err = a.ResultRepo.Append(result); err != nil {
			return nil, err
		}
	}
	if err = a.SnapshotRepo.Save(a.Playbook); err != nil {
		return nil, err
	}

	summary := RunSummary{
		Results:   results,
		Stats:     a.Playbook.Stats(),
		Aggregate: env.AggregateMetrics(),
	}
	if len(results) > 0 {
		summary.RunId = results[0].RunId
	}
	return &summary, nil
}
