package models

// AnswerSource identifies which stage of the routing pipeline produced an
// answer. It is carried through to the caller for provenance and feedback
// attribution, and is immutable once set.
type AnswerSource string

const (
	SourceArithmetic    AnswerSource = "arithmetic"
	SourceLinear        AnswerSource = "linear"
	SourceDerivative    AnswerSource = "derivative"
	SourceKnowledgeBase AnswerSource = "knowledge_base"
	SourceWebSearch     AnswerSource = "web_search"
	SourceLLM           AnswerSource = "llm"
	SourceGuardrail     AnswerSource = "guardrail"
)

// AnswerRecord is the single result of routing a question.
// Confidence is only meaningful for similarity-scored sources and is zero
// for the deterministic solvers.
type AnswerRecord struct {
	Text       string       `json:"text"`
	Source     AnswerSource `json:"source"`
	Confidence float64      `json:"confidence,omitempty"`
}
