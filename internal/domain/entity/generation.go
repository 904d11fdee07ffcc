package entity

import (
	"time"

	"github.com/google/uuid"
)

type GenerationOutcome string

const (
	OutcomeSucceeded         GenerationOutcome = "succeeded"
	OutcomeTranslationFailed GenerationOutcome = "translation_failed"
	OutcomeDecodeFailed      GenerationOutcome = "decode_failed"
	OutcomeUploadFailed      GenerationOutcome = "upload_failed"
)

// Generation is a journal record of one finished prompt pipeline.
type Generation struct {
	ID          string            `json:"id" bson:"id"`
	ScriptID    string            `json:"script_id" bson:"script_id"`
	Instruction string            `json:"instruction" bson:"instruction"`
	Explanation string            `json:"explanation,omitempty" bson:"explanation,omitempty"`
	Outcome     GenerationOutcome `json:"outcome" bson:"outcome"`
	Error       string            `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at" bson:"created_at"`
}

func NewGeneration(requestID, scriptID, instruction string) *Generation {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return &Generation{
		ID:          requestID,
		ScriptID:    scriptID,
		Instruction: instruction,
		CreatedAt:   time.Now().UTC(),
	}
}

func (g *Generation) Succeed(explanation string) {
	g.Outcome = OutcomeSucceeded
	g.Explanation = explanation
}

func (g *Generation) Fail(err *PipelineError) {
	switch err.Kind {
	case KindTranslationFailed:
		g.Outcome = OutcomeTranslationFailed
	case KindDecodeFailed:
		g.Outcome = OutcomeDecodeFailed
	default:
		g.Outcome = OutcomeUploadFailed
	}
	g.Error = err.Message
}
