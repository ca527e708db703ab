package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixbrock/patentace/internal/domain"
	"github.com/felixbrock/patentace/internal/playbook"
	"github.com/felixbrock/patentace/internal/role"
	"github.com/google/uuid"
)

// Environment is the external task collaborator. Its errors propagate
// as-is; validation failures are expected to come back as ordinary results
// (feedback text plus metrics), not as errors.
type Environment interface {
	Evaluate(sample domain.Sample, generatorOutput domain.GeneratorOutput) (domain.EnvironmentResult, error)
}

// Adapter sequences generate -> evaluate -> reflect -> curate for one
// sample and applies the curator's operations to the shared playbook. The
// playbook is the single mutable resource; execution is strictly
// sequential.
type Adapter struct {
	Playbook            *playbook.Playbook
	Generator           *role.Generator
	Reflector           *role.Reflector
	Curator             *role.Curator
	MaxRefinementRounds int
}

type progress struct {
	epoch, epochs int
	sample, total int
}

func (a *Adapter) adaptSample(ctx context.Context, runId string, p progress, sample domain.Sample, env Environment) (domain.AdaptationResult, error) {
	result := domain.AdaptationResult{
		Id:     uuid.New().String(),
		RunId:  runId,
		Epoch:  p.epoch,
		Sample: sample,
	}

	rounds := a.MaxRefinementRounds
	if rounds < 1 {
		rounds = 1
	}

	var lastGen *domain.GeneratorOutput
	var lastEnv *domain.EnvironmentResult
	reflection := ""
	skipReason := ""

	for round := 1; round <= rounds; round++ {
		playbookText := a.Playbook.Render()

		genOut, err := a.Generator.Run(ctx, a.generatorFields(sample, playbookText, reflection))
		if err != nil {
			if !isParseError(err) {
				return result, err
			}
			slog.Warn(fmt.Sprintf("generation failed, skipping sample %d: %s", p.sample, err.Error()))
			skipReason = err.Error()
			break
		}

		envResult, err := env.Evaluate(sample, *genOut)
		if err != nil {
			return result, err
		}
		lastGen, lastEnv = genOut, &envResult

		excerpt := a.Playbook.RenderBullets(genOut.BulletIds)
		if excerpt == "" {
			excerpt = playbookText
		}
		reflOut, err := a.Reflector.Run(ctx, a.reflectorFields(sample, genOut, envResult, playbookText, excerpt))
		if err != nil {
			if !isParseError(err) {
				return result, err
			}
			slog.Warn(fmt.Sprintf("reflection failed, skipping curation for sample %d: %s", p.sample, err.Error()))
			break
		}
		reflection = reflectionSummary(reflOut)

		curOut, err := a.Curator.Run(ctx, a.curatorFields(sample, reflOut, playbookText, p, round, rounds))
		if err != nil {
			if !isParseError(err) {
				return result, err
			}
			slog.Warn(fmt.Sprintf("curation failed, skipping curation for sample %d: %s", p.sample, err.Error()))
			break
		}

		report := a.Playbook.Apply(curOut.Operations)
		result.DroppedOps += len(report.Dropped)
		for _, dropped := range report.Dropped {
			slog.Warn(fmt.Sprintf("dropped %s operation: %s", dropped.Operation.Type, dropped.Reason))
		}
	}

	if lastGen == nil {
		result.Skipped = true
		result.SkipReason = skipReason
		return result, nil
	}
	result.GeneratorOutput = *lastGen
	result.EnvironmentResult = *lastEnv
	return result, nil
}

func (a *Adapter) generatorFields(sample domain.Sample, playbookText string, reflection string) map[string]string {
	if reflection == "" {
		reflection = "(none yet)"
	}
	fields := sampleFields(sample)
	fields["playbook"] = playbookText
	fields["reflection"] = reflection
	return fields
}

func (a *Adapter) reflectorFields(sample domain.Sample, genOut *domain.GeneratorOutput, envResult domain.EnvironmentResult, playbookText string, excerpt string) map[string]string {
	fields := sampleFields(sample)
	fields["reasoning"] = genOut.Reasoning
	fields["prediction"] = genOut.FinalAnswer
	fields["ground_truth"] = envResult.GroundTruth
	fields["feedback"] = envResult.Feedback
	fields["playbook"] = playbookText
	fields["playbook_excerpt"] = excerpt
	return fields
}

func (a *Adapter) curatorFields(sample domain.Sample, reflOut *domain.ReflectorOutput, playbookText string, p progress, round int, rounds int) map[string]string {
	reflJSON, err := json.MarshalIndent(reflOut, "", "  ")
	if err != nil {
		reflJSON = []byte(reflOut.Reasoning)
	}

	fields := sampleFields(sample)
	fields["progress"] = fmt.Sprintf("epoch %d/%d, sample %d/%d, round %d/%d",
		p.epoch, p.epochs, p.sample, p.total, round, rounds)
	fields["stats"] = a.Playbook.Stats().String()
	fields["reflection"] = string(reflJSON)
	fields["playbook"] = playbookText
	fields["question_context"] = strings.TrimSpace(sample.Question + "\n\n" + sample.Context)
	return fields
}

func sampleFields(sample domain.Sample) map[string]string {
	fields := map[string]string{
		"question": sample.Question,
		"context":  sample.Context,
	}
	for k, v := range sample.Fields {
		fields[k] = v
	}
	return fields
}

// reflectionSummary condenses a reflection into the text the next
// refinement round's generator prompt receives.
func reflectionSummary(r *domain.ReflectorOutput) string {
	var parts []string
	if r.KeyInsight != "" {
		parts = append(parts, "Key insight: "+r.KeyInsight)
	}
	if r.CorrectApproach != "" {
		parts = append(parts, "Correct approach: "+r.CorrectApproach)
	}
	if len(parts) == 0 {
		return r.Reasoning
	}
	return strings.Join(parts, "\n")
}

func isParseError(err error) bool {
	var parseErr role.ResponseParseError
	return errors.As(err, &parseErr)
}
