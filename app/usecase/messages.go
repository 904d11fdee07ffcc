package usecase

import "gsheetagent/internal/infrastructure/scriptapi"

// uploadMessage is the caller-facing text for a failed upload. Only the
// scope error is rewritten; anything else passes through verbatim.
func uploadMessage(err error) string {
	if scriptapi.Classify(err) == scriptapi.UpstreamScopeInsufficient {
		return scriptapi.MsgReinstall
	}
	return err.Error()
}

// setupMessage additionally rewrites a disabled API into console guidance.
func setupMessage(err error) string {
	switch scriptapi.Classify(err) {
	case scriptapi.UpstreamScopeInsufficient:
		return scriptapi.MsgReinstall
	case scriptapi.UpstreamServiceDisabled:
		return scriptapi.MsgEnableAPI
	default:
		return err.Error()
	}
}
