package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/felixbrock/patentace/internal/adapter"
	"github.com/felixbrock/patentace/internal/app"
	"github.com/felixbrock/patentace/internal/component"
	"github.com/felixbrock/patentace/internal/domain"
	"github.com/felixbrock/patentace/internal/patent"
	"github.com/felixbrock/patentace/internal/persistence"
	"github.com/felixbrock/patentace/internal/playbook"
	"github.com/felixbrock/patentace/internal/role"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/time/rate"
)

func buildPlaybook(config app.Config, snapshotRepo persistence.SnapshotRepo) *playbook.Playbook {
	var opts []playbook.Option
	if config.DedupGuard {
		opts = append(opts, playbook.WithDedupGuard(config.DedupMinScore))
	}

	if snapshotRepo.Exists() {
		p, err := snapshotRepo.Load(opts...)
		if err == nil {
			slog.Info(fmt.Sprintf("resumed playbook from %s: %s", config.SnapshotPath, p.Stats()))
			return p
		}
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
	}
	return playbook.New(opts...)
}

func main() {
	demo := flag.Bool("demo", false, "run the bundled dummy-client walkthrough and exit")
	configPath := flag.String("config", "patentace.yaml", "path to the yaml run configuration")
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		os.Exit(1)
	}

	if *demo {
		runDemo(config)
		return
	}

	if config.OAIApiKey == "" {
		slog.Error("OAI_API_KEY environment variable not set")
	}

	oaiRepo := persistence.OAIRepo{
		BaseHeaders: []string{
			"Content-Type:application/json",
			fmt.Sprintf("Authorization: Bearer %s", config.OAIApiKey)},
		Model: config.Model,
	}
	if config.RateLimitPerMinute > 0 {
		oaiRepo.Limiter = rate.NewLimiter(rate.Limit(float64(config.RateLimitPerMinute)/60.0), 1)
	}
	snapshotRepo := persistence.SnapshotRepo{Path: config.SnapshotPath}
	resultRepo := persistence.ResultRepo{Path: config.ResultsPath}

	componentBuilder := app.ComponentBuilder{
		Index: component.Index,
		Run:   component.Run,
		Error: component.Error,
	}

	a := app.App{
		Playbook:         buildPlaybook(config, snapshotRepo),
		Client:           oaiRepo,
		SnapshotRepo:     snapshotRepo,
		ResultRepo:       resultRepo,
		ComponentBuilder: componentBuilder,
		Config:           config,
	}

	a.Start()
}

// runDemo replays a canned three-sample walkthrough against the dummy
// client and prints how the playbook evolves.
func runDemo(config app.Config) {
	samples := []struct {
		claim, paragraph, groundTruth, context string
	}{
		{
			claim:       "A method for processing data comprising: (a) receiving input data; (b) applying a neural network to transform the input data; and (c) outputting the transformed data.",
			paragraph:   "The disclosed system receives data, processes it through a deep learning model consisting of multiple neural network layers, and outputs the processed results.",
			groundTruth: "X",
			context:     "Computer Science - Machine Learning",
		},
		{
			claim:       "A device comprising a processor, a memory, and a display screen configured to show real-time notifications.",
			paragraph:   "The invention includes a computing unit with storage capability. It can display information to users.",
			groundTruth: "A",
			context:     "Computer Hardware",
		},
		{
			claim:       "A pharmaceutical composition comprising compound X in combination with compound Y for treating disease Z.",
			paragraph:   "The formulation contains compound X and compound Y. These compounds work synergistically to treat disease Z.",
			groundTruth: "X",
			context:     "Pharmaceutical",
		},
	}

	client := &role.DummyClient{}
	client.Queue(
		`{"reasoning": "All three claim steps (receive, neural network transform, output) appear in the paragraph in equivalent form.", "bullet_ids": [], "final_answer": "X"}`,
		`{"reasoning": "The classification was correct; every claim feature was located in the prior art.", "error_identification": "", "root_cause_analysis": "", "correct_approach": "Systematic feature-by-feature comparison.", "key_insight": "When all claim limitations are disclosed in the prior art, novelty is destroyed (X).", "bullet_tags": []}`,
		`{"reasoning": "Adding guidance on feature identification.", "operations": [{"type": "ADD", "section": "feature_identification", "content": "Break down claims into individual limitations and verify each limitation is present in the prior art."}]}`,
		`{"reasoning": "The claim needs processor, memory, display AND real-time notifications; the paragraph lacks the notification feature.", "bullet_ids": ["b0001"], "final_answer": "A"}`,
		`{"reasoning": "Correct; the missing feature was identified.", "error_identification": "", "root_cause_analysis": "", "correct_approach": "Check completeness of all claim features.", "key_insight": "If even one claim limitation is absent from prior art, novelty is maintained (A).", "bullet_tags": [{"id": "b0001", "tag": "helpful"}]}`,
		`{"reasoning": "Adding guidance on completeness checking.", "operations": [{"type": "ADD", "section": "common_errors", "content": "Avoid classifying as X if any claim limitation is missing from the prior art, even if most features match."}, {"type": "TAG", "bullet_id": "b0001", "metadata": {"helpful": 1}}]}`,
		`{"reasoning": "Compound X, compound Y and the treatment of disease Z are all disclosed, including the functional relationship.", "bullet_ids": [], "final_answer": "X"}`,
		`{"reasoning": "Correct; both composition and function were identified.", "error_identification": "", "root_cause_analysis": "", "correct_approach": "Consider structural and functional aspects.", "key_insight": "In pharmaceutical claims, verify both the composition components and their intended use.", "bullet_tags": []}`,
		`{"reasoning": "Adding domain-specific guidance.", "operations": [{"type": "ADD", "section": "domain_specific", "content": "For pharmaceutical claims, check both composition (compounds) and function (therapeutic use)."}]}`,
	)

	p := playbook.New()
	offline := adapter.OfflineAdapter{Adapter: adapter.Adapter{
		Playbook:            p,
		Generator:           role.NewGenerator(client, patent.GeneratorPrompt),
		Reflector:           role.NewReflector(client, patent.ReflectorPrompt),
		Curator:             role.NewCurator(client, patent.CuratorPrompt),
		MaxRefinementRounds: config.MaxRefinementRounds,
	}}

	domainSamples := make([]domain.Sample, len(samples))
	for i, s := range samples {
		domainSamples[i] = patent.NewSample(s.claim, s.paragraph, s.groundTruth, s.context)
	}

	env := patent.NewEnvironment()
	results, err := offline.Run(context.Background(), domainSamples, env, 1)
	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("completed %d adaptations\n\n", len(results))
	for i, result := range results {
		fmt.Printf("sample %d: predicted %s, ground truth %s, accuracy %.3f\n",
			i+1, result.GeneratorOutput.FinalAnswer, result.Sample.GroundTruth,
			result.EnvironmentResult.Metrics["accuracy"])
	}

	fmt.Printf("\nplaybook: %s\n", p.Stats())
	for _, b := range p.Bullets() {
		fmt.Printf("  [%s] %s\n", b.Section, b.Content)
	}

	metrics := env.Metrics()
	fmt.Printf("\naccuracy %.3f, precision %.3f, recall %.3f, f1 %.3f, perplexity %.3f\n",
		metrics["accuracy"], metrics["precision"], metrics["recall"], metrics["f1"], metrics["perplexity"])
}
