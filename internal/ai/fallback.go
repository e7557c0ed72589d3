package ai

import (
	"fmt"
	"strings"
)

// Rule pairs a keyword with a canned reply. Rules are evaluated in
// declaration order and the first keyword found in the message wins,
// so put the more specific keywords first.
type Rule struct {
	Keyword string
	Reply   string
}

var defaultRules = []Rule{
	{Keyword: "how are you", Reply: "I'm doing well, thanks for asking! What can I do for you?"},
	{Keyword: "hello", Reply: "Hello there! How can I help you today?"},
	{Keyword: "help", Reply: "I can chat with you and keep a tamper-evident record of every exchange. Ask me anything."},
	{Keyword: "your name", Reply: "I'm NeuralSync, your chat assistant."},
	{Keyword: "thank", Reply: "You're welcome!"},
	{Keyword: "bye", Reply: "Goodbye! Come back any time."},
}

// Fallback is the deterministic local responder used when no remote
// provider is configured or the remote call fails. It never errors.
type Fallback struct {
	rules []Rule
}

func NewFallback(rules ...Rule) *Fallback {
	if len(rules) == 0 {
		rules = defaultRules
	}
	return &Fallback{rules: rules}
}

// Reply matches case-insensitively against the rule table and falls back
// to echoing the message.
func (f *Fallback) Reply(message string) string {
	lower := strings.ToLower(message)
	for _, r := range f.rules {
		if strings.Contains(lower, strings.ToLower(r.Keyword)) {
			return r.Reply
		}
	}
	return fmt.Sprintf("You said: %s", message)
}
