package scriptapi

import (
	"errors"
	"strings"

	"google.golang.org/api/googleapi"
)

// UpstreamKind is the local name for a recognized script API failure.
type UpstreamKind int

const (
	UpstreamOther UpstreamKind = iota
	UpstreamScopeInsufficient
	UpstreamServiceDisabled
)

func (k UpstreamKind) String() string {
	switch k {
	case UpstreamScopeInsufficient:
		return "scope_insufficient"
	case UpstreamServiceDisabled:
		return "service_disabled"
	default:
		return "other"
	}
}

const (
	MsgReinstall = "This document hasn't been properly authorized to do an end-to-end automation. Please reinstall the add-on."
	MsgEnableAPI = "The Google Apps Script API is disabled for your account. Enable it at https://script.google.com/home/usersettings and try again."
)

// signatures is the compatibility surface with the script API's error text.
// The API does not document these strings; they are matched as substrings of
// the error message and, for *googleapi.Error, of the raw response body.
// Order matters: the first match wins.
var signatures = []struct {
	kind   UpstreamKind
	needle string
}{
	{UpstreamScopeInsufficient, "ACCESS_TOKEN_SCOPE_INSUFFICIENT"},
	{UpstreamServiceDisabled, "SERVICE_DISABLED"},
	{UpstreamServiceDisabled, "User has not enabled the Apps Script API"},
	{UpstreamServiceDisabled, "has not been used in project"},
}

// Classify maps an upstream error onto a known kind.
func Classify(err error) UpstreamKind {
	if err == nil {
		return UpstreamOther
	}

	haystack := err.Error()
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		haystack += "\n" + gerr.Body
	}

	for _, s := range signatures {
		if strings.Contains(haystack, s.needle) {
			return s.kind
		}
	}
	return UpstreamOther
}
