package domain

type Bullet struct {
	Id           string `json:"id"`
	Section      string `json:"section"`
	Content      string `json:"content"`
	HelpfulCount int    `json:"helpful_count"`
	HarmfulCount int    `json:"harmful_count"`
}

type OperationType string

const (
	OperationAdd    OperationType = "ADD"
	OperationUpdate OperationType = "UPDATE"
	OperationTag    OperationType = "TAG"
	OperationRemove OperationType = "REMOVE"
)

type OperationMetadata struct {
	Helpful int `json:"helpful"`
	Harmful int `json:"harmful"`
}

type Operation struct {
	Type     OperationType     `json:"type"`
	Section  string            `json:"section,omitempty"`
	Content  string            `json:"content,omitempty"`
	BulletId string            `json:"bullet_id,omitempty"`
	Metadata OperationMetadata `json:"metadata,omitempty"`
}

// Sample is owned by the caller and immutable once passed into an adapter.
// Fields carries the task-specific prompt placeholders (e.g. claim and
// paragraph for the patent task).
type Sample struct {
	Question    string            `json:"question"`
	GroundTruth string            `json:"ground_truth"`
	Context     string            `json:"context"`
	Fields      map[string]string `json:"fields,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type GeneratorOutput struct {
	Reasoning   string   `json:"reasoning"`
	FinalAnswer string   `json:"final_answer"`
	BulletIds   []string `json:"bullet_ids"`

	// Raw keeps non-essential response fields (confidence, probability, ...)
	// without locking them into the schema.
	Raw map[string]any `json:"raw,omitempty"`
}

type BulletTag struct {
	Id  string `json:"id"`
	Tag string `json:"tag"`
}

type ReflectorOutput struct {
	Reasoning           string      `json:"reasoning"`
	ErrorIdentification string      `json:"error_identification"`
	RootCauseAnalysis   string      `json:"root_cause_analysis"`
	CorrectApproach     string      `json:"correct_approach"`
	KeyInsight          string      `json:"key_insight"`
	BulletTags          []BulletTag `json:"bullet_tags"`
}

type CuratorOutput struct {
	Reasoning  string      `json:"reasoning"`
	Operations []Operation `json:"operations"`
}

type EnvironmentResult struct {
	Feedback    string             `json:"feedback"`
	GroundTruth string             `json:"ground_truth"`
	Metrics     map[string]float64 `json:"metrics"`
	Prediction  string             `json:"prediction,omitempty"`
	Probability *float64           `json:"probability,omitempty"`
}

type AdaptationResult struct {
	Id                string            `json:"id"`
	RunId             string            `json:"run_id"`
	Epoch             int               `json:"epoch"`
	Sample            Sample            `json:"sample"`
	GeneratorOutput   GeneratorOutput   `json:"generator_output"`
	EnvironmentResult EnvironmentResult `json:"environment_result"`
	Skipped           bool              `json:"skipped"`
	SkipReason        string            `json:"skip_reason,omitempty"`
	DroppedOps        int               `json:"dropped_ops"`
}
