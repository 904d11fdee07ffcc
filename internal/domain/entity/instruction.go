package entity

import "errors"

var (
	ErrMissingFields = errors.New("instruction, scriptId and timezone are required")
	ErrMissingToken  = errors.New("unauthorized")
)

// InstructionRequest is one /prompt call. It lives for a single request.
type InstructionRequest struct {
	Instruction string `json:"instruction"`
	ScriptID    string `json:"scriptId"`
	Timezone    string `json:"timezone"`
	BearerToken string `json:"-"`
	RequestID   string `json:"-"`
}

// ValidateFields checks the body fields. The token is checked separately so
// that a missing token can be reported as unauthorized.
func (r InstructionRequest) ValidateFields() error {
	if r.Instruction == "" || r.ScriptID == "" || r.Timezone == "" {
		return ErrMissingFields
	}
	return nil
}

func (r InstructionRequest) Validate() error {
	if err := r.ValidateFields(); err != nil {
		return err
	}
	if r.BearerToken == "" {
		return ErrMissingToken
	}
	return nil
}
