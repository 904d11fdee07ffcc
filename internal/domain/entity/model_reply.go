package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const NoExplanation = "No explanation provided"

var ErrMissingCode = errors.New("model reply has no code field")

// ModelReply is the structured answer decoded from the chat endpoint.
type ModelReply struct {
	Explanation string `json:"explanation"`
	Code        string `json:"code"`
}

// ParseModelReply decodes the raw completion text. One enclosing markdown
// fence is tolerated; the object must carry a code field.
func ParseModelReply(raw string) (ModelReply, error) {
	content := stripFence(raw)

	var decoded struct {
		Explanation *string `json:"explanation"`
		Code        *string `json:"code"`
	}
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		return ModelReply{}, fmt.Errorf("decode model reply: %w", err)
	}
	if decoded.Code == nil {
		return ModelReply{}, ErrMissingCode
	}

	reply := ModelReply{Code: *decoded.Code, Explanation: NoExplanation}
	if decoded.Explanation != nil && *decoded.Explanation != "" {
		reply.Explanation = *decoded.Explanation
	}
	return reply, nil
}

// stripFence removes one enclosing markdown fence along with its info string
// (json, JSON, javascript...).
func stripFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	if idx := strings.LastIndex(content, "```"); idx != -1 {
		content = content[:idx]
	}
	content = strings.TrimLeft(content, " \t")
	if !strings.HasPrefix(content, "{") && !strings.HasPrefix(content, "[") {
		if idx := strings.IndexByte(content, '\n'); idx != -1 {
			content = content[idx+1:]
		} else {
			content = strings.TrimLeftFunc(content, unicode.IsLetter)
		}
	}
	return strings.TrimSpace(content)
}
