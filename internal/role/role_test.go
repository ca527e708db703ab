package role

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	out, err := render("Claim: {claim}\nContext: {context}", map[string]string{
		"claim":   "a device",
		"context": "hardware",
	})

	require.NoError(t, err)
	assert.Equal(t, "Claim: a device\nContext: hardware", out)
}

func TestRenderEscapedBraces(t *testing.T) {
	out, err := render(`Respond with JSON:
{{
  "final_answer": "{label}"
}}`, map[string]string{"label": "X"})

	require.NoError(t, err)
	assert.Equal(t, `Respond with JSON:
{
  "final_answer": "X"
}`, out)
}

func TestRenderFailsEagerlyOnMissingField(t *testing.T) {
	_, err := render("Claim: {claim}", map[string]string{})

	var tmplErr TemplateError
	require.True(t, errors.As(err, &tmplErr))
	assert.Equal(t, "claim", tmplErr.Field)
}

func TestExtractObjectToleratesSurroundingProse(t *testing.T) {
	obj, err := extractObject("Here is my answer:\n{\"final_answer\": \"X\", \"reasoning\": \"...\", \"bullet_ids\": []}\nThanks.")

	require.NoError(t, err)
	assert.JSONEq(t, `{"final_answer": "X", "reasoning": "...", "bullet_ids": []}`, string(obj))
}

func TestExtractObjectHandlesBracesInStrings(t *testing.T) {
	obj, err := extractObject(`prefix {"reasoning": "uses {curly} and \"quoted\" text", "final_answer": "A"} suffix`)

	require.NoError(t, err)
	assert.Contains(t, string(obj), "final_answer")
}

func TestExtractObjectFailsWithoutObject(t *testing.T) {
	_, err := extractObject("no json here at all")
	require.Error(t, err)
}

func TestGeneratorParsesAnswerAndKeepsRawFields(t *testing.T) {
	client := &DummyClient{}
	client.Queue(`The result:
{"reasoning": "both features present", "bullet_ids": ["b0001"], "final_answer": "x ", "confidence": 0.9}
Done.`)
	g := NewGenerator(client, "{claim}")

	out, err := g.Run(context.Background(), map[string]string{"claim": "c"})

	require.NoError(t, err)
	assert.Equal(t, "x ", out.FinalAnswer, "wrapper returns the raw answer; normalization is the environment's job")
	assert.Equal(t, []string{"b0001"}, out.BulletIds)
	assert.Equal(t, 0.9, out.Raw["confidence"])
	assert.NotContains(t, out.Raw, "reasoning")
}

func TestGeneratorFailsOnMissingFinalAnswer(t *testing.T) {
	client := &DummyClient{}
	client.Queue(`{"reasoning": "thought about it"}`)
	g := NewGenerator(client, "{claim}")

	_, err := g.Run(context.Background(), map[string]string{"claim": "c"})

	var parseErr ResponseParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "generator", parseErr.Role)
}

func TestGeneratorFailsOnNonJSON(t *testing.T) {
	client := &DummyClient{}
	client.Queue("I refuse to answer in JSON")
	g := NewGenerator(client, "{claim}")

	_, err := g.Run(context.Background(), map[string]string{"claim": "c"})

	var parseErr ResponseParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestGeneratorPropagatesTemplateError(t *testing.T) {
	g := NewGenerator(&DummyClient{}, "{claim} and {paragraph}")

	_, err := g.Run(context.Background(), map[string]string{"claim": "c"})

	var tmplErr TemplateError
	require.True(t, errors.As(err, &tmplErr))
}

func TestReflectorRequiresReasoningAndBulletTags(t *testing.T) {
	client := &DummyClient{}
	client.Queue(`{"reasoning": "fine", "key_insight": "check features"}`)
	r := NewReflector(client, "{feedback}")

	_, err := r.Run(context.Background(), map[string]string{"feedback": "f"})

	var parseErr ResponseParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Reason, "bullet_tags")
}

func TestReflectorParsesTags(t *testing.T) {
	client := &DummyClient{}
	client.Queue(`{"reasoning": "ok", "error_identification": "", "root_cause_analysis": "", "correct_approach": "a", "key_insight": "k", "bullet_tags": [{"id": "b0001", "tag": "helpful"}]}`)
	r := NewReflector(client, "{feedback}")

	out, err := r.Run(context.Background(), map[string]string{"feedback": "f"})

	require.NoError(t, err)
	require.Len(t, out.BulletTags, 1)
	assert.Equal(t, "helpful", out.BulletTags[0].Tag)
	assert.Equal(t, "k", out.KeyInsight)
}

func TestCuratorDefaultsToEmptyOperations(t *testing.T) {
	client := &DummyClient{}
	client.Queue(`{"reasoning": "nothing new"}`)
	c := NewCurator(client, "{reflection}")

	out, err := c.Run(context.Background(), map[string]string{"reflection": "r"})

	require.NoError(t, err)
	assert.NotNil(t, out.Operations)
	assert.Empty(t, out.Operations)
}

func TestCuratorParsesOperations(t *testing.T) {
	client := &DummyClient{}
	client.Queue(`{"reasoning": "add one", "operations": [{"type": "ADD", "section": "s", "content": "advice", "metadata": {"helpful": 1}}]}`)
	c := NewCurator(client, "{reflection}")

	out, err := c.Run(context.Background(), map[string]string{"reflection": "r"})

	require.NoError(t, err)
	require.Len(t, out.Operations, 1)
	assert.Equal(t, "ADD", string(out.Operations[0].Type))
	assert.Equal(t, "advice", out.Operations[0].Content)
}

func TestDummyClientFailsWhenExhausted(t *testing.T) {
	client := &DummyClient{}

	_, err := client.Complete(context.Background(), "p")
	require.Error(t, err)
}
