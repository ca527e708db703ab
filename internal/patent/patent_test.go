package patent

import (
	"testing"

	"github.com/felixbrock/patentace/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSampleBuildsQuestionAndFields(t *testing.T) {
	sample := NewSample(
		"A method for processing data using a neural network",
		"The system uses machine learning to process information",
		"A", "Computer Science domain")

	assert.Contains(t, sample.Question, "Claim:")
	assert.Contains(t, sample.Question, "Paragraph:")
	assert.Equal(t, "A", sample.GroundTruth)
	assert.Equal(t, "A method for processing data using a neural network", sample.Fields["claim"])
	assert.Equal(t, "The system uses machine learning to process information", sample.Fields["paragraph"])
}

func TestEvaluateCorrectClassification(t *testing.T) {
	env := NewEnvironment()
	sample := NewSample("A device with feature X and feature Y",
		"The invention includes feature X and feature Y", "X", "")

	result, err := env.Evaluate(sample, domain.GeneratorOutput{
		Reasoning:   "Both features are present",
		FinalAnswer: "X",
		Raw:         map[string]any{"confidence": 0.9},
	})

	require.NoError(t, err)
	assert.Contains(t, result.Feedback, "Correct")
	assert.Equal(t, 1.0, result.Metrics["accuracy"])
	assert.Equal(t, "X", result.Prediction)
	require.NotNil(t, result.Probability)
	assert.Equal(t, 0.9, *result.Probability)
}

func TestEvaluateIncorrectClassification(t *testing.T) {
	env := NewEnvironment()
	sample := NewSample("A device with feature X and feature Y",
		"The invention includes only feature X", "A", "")

	result, err := env.Evaluate(sample, domain.GeneratorOutput{FinalAnswer: "X"})

	require.NoError(t, err)
	assert.Contains(t, result.Feedback, "Incorrect")
	assert.Equal(t, 0.0, result.Metrics["accuracy"])
}

func TestEvaluateNormalizesPrediction(t *testing.T) {
	env := NewEnvironment()
	sample := NewSample("c", "p", " x ", "")

	result, err := env.Evaluate(sample, domain.GeneratorOutput{FinalAnswer: " x\n"})

	require.NoError(t, err)
	assert.Equal(t, "X", result.Prediction)
	assert.Equal(t, "X", result.GroundTruth)
	assert.Equal(t, 1.0, result.Metrics["accuracy"])
}

func TestEvaluateInvalidLabelIsDataNotError(t *testing.T) {
	env := NewEnvironment()
	sample := NewSample("c", "p", "X", "")

	result, err := env.Evaluate(sample, domain.GeneratorOutput{FinalAnswer: "MAYBE"})

	require.NoError(t, err)
	assert.Contains(t, result.Feedback, "Invalid classification")
	assert.Equal(t, 0.0, result.Metrics["accuracy"])
	assert.Equal(t, 1.0, result.Metrics["error"])
	assert.Zero(t, env.calc.Count(), "invalid labels do not enter the metric history")
}

func TestMetricsAccumulateAcrossEvaluations(t *testing.T) {
	env := NewEnvironment()

	_, err := env.Evaluate(NewSample("Feature A and B", "Has A and B", "X", ""),
		domain.GeneratorOutput{FinalAnswer: "X"})
	require.NoError(t, err)
	_, err = env.Evaluate(NewSample("Feature A and B", "Has only A", "A", ""),
		domain.GeneratorOutput{FinalAnswer: "A"})
	require.NoError(t, err)
	result, err := env.Evaluate(NewSample("Feature A and B", "Has A and B", "X", ""),
		domain.GeneratorOutput{FinalAnswer: "A"})
	require.NoError(t, err)

	assert.InDelta(t, 2.0/3.0, result.Metrics["accuracy"], 0.01)
	assert.Greater(t, result.Metrics["precision"], 0.0)
	assert.Greater(t, result.Metrics["recall"], 0.0)

	aggregate := env.AggregateMetrics()
	assert.Contains(t, aggregate, "accuracy_mean")
	assert.Contains(t, aggregate, "accuracy_std")

	env.ResetMetrics()
	assert.Zero(t, env.calc.Count())
	assert.Empty(t, env.AggregateMetrics())
}
