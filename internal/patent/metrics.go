package patent

import (
	"fmt"
	"math"
	"sort"
)

// MetricsCalculator tracks classification outcomes and derives accuracy,
// precision, recall, F1 and perplexity over everything added so far.
type MetricsCalculator struct {
	predictions   []string
	labels        []string
	probabilities []float64
}

func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

func (c *MetricsCalculator) Reset() {
	c.predictions = nil
	c.labels = nil
	c.probabilities = nil
}

func (c *MetricsCalculator) Count() int {
	return len(c.predictions)
}

// Add records one prediction/label pair. The probability is optional; pass
// nil when the generator reported no confidence.
func (c *MetricsCalculator) Add(prediction string, label string, probability *float64) {
	c.predictions = append(c.predictions, prediction)
	c.labels = append(c.labels, label)
	if probability != nil {
		c.probabilities = append(c.probabilities, *probability)
	}
}

// Compute derives all metrics from the pairs added so far. "X" (novelty
// broken) is the positive class when present.
func (c *MetricsCalculator) Compute() map[string]float64 {
	if len(c.predictions) == 0 {
		return map[string]float64{
			"accuracy":   0,
			"precision":  0,
			"recall":     0,
			"f1":         0,
			"perplexity": math.Inf(1),
		}
	}

	metrics := map[string]float64{}

	correct := 0
	for i := range c.predictions {
		if c.predictions[i] == c.labels[i] {
			correct++
		}
	}
	metrics["accuracy"] = float64(correct) / float64(len(c.predictions))

	positive := c.positiveClass()
	var tp, fp, fn float64
	for i := range c.predictions {
		predPos := c.predictions[i] == positive
		labelPos := c.labels[i] == positive
		switch {
		case predPos && labelPos:
			tp++
		case predPos && !labelPos:
			fp++
		case !predPos && labelPos:
			fn++
		}
	}

	metrics["precision"] = 0
	if tp+fp > 0 {
		metrics["precision"] = tp / (tp + fp)
	}
	metrics["recall"] = 0
	if tp+fn > 0 {
		metrics["recall"] = tp / (tp + fn)
	}
	metrics["f1"] = 0
	if metrics["precision"]+metrics["recall"] > 0 {
		metrics["f1"] = 2 * metrics["precision"] * metrics["recall"] / (metrics["precision"] + metrics["recall"])
	}

	metrics["perplexity"] = c.perplexity(metrics["accuracy"])
	return metrics
}

func (c *MetricsCalculator) positiveClass() string {
	seen := map[string]bool{}
	classes := []string{}
	for _, l := range c.labels {
		if !seen[l] {
			seen[l] = true
			classes = append(classes, l)
		}
	}
	sort.Strings(classes)
	switch {
	case seen["X"]:
		return "X"
	case len(classes) >= 2:
		return classes[1]
	case len(classes) == 1:
		return classes[0]
	default:
		return "X"
	}
}

func (c *MetricsCalculator) perplexity(accuracy float64) float64 {
	if len(c.probabilities) == len(c.predictions) && len(c.probabilities) > 0 {
		logLikelihood := 0.0
		for i, prob := range c.probabilities {
			// Confidence counts toward the predicted class; an incorrect
			// prediction contributes the complement.
			actual := prob
			if c.predictions[i] != c.labels[i] {
				actual = 1 - prob
			}
			logLikelihood += math.Log(math.Max(actual, 1e-10))
		}
		return math.Exp(-logLikelihood / float64(len(c.probabilities)))
	}

	// No per-prediction confidences: estimate from the error rate.
	if accuracy > 0 {
		return math.Exp(-math.Log(math.Max(accuracy, 0.01)))
	}
	return math.Inf(1)
}

// ComputeAggregate reduces per-step metric maps into mean and std per
// metric, ignoring infinite values.
func ComputeAggregate(steps []map[string]float64) map[string]float64 {
	if len(steps) == 0 {
		return map[string]float64{}
	}

	aggregates := map[string]float64{}
	for key := range steps[0] {
		var values []float64
		for _, step := range steps {
			v, ok := step[key]
			if ok && !math.IsInf(v, 0) {
				values = append(values, v)
			}
		}
		meanKey := fmt.Sprintf("%s_mean", key)
		stdKey := fmt.Sprintf("%s_std", key)
		if len(values) == 0 {
			aggregates[meanKey] = 0
			aggregates[stdKey] = 0
			continue
		}
		mean := 0.0
		for _, v := range values {
			mean += v
		}
		mean /= float64(len(values))
		variance := 0.0
		for _, v := range values {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(len(values))
		aggregates[meanKey] = mean
		aggregates[stdKey] = math.Sqrt(variance)
	}
	return aggregates
}
