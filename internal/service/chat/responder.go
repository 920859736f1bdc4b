// Package chat answers patient questions from a fixed list of keyword rules.
// There is no language model; the first matching rule wins.
package chat

import (
	"strings"

	"github.com/jwalitptl/medschedule-api/internal/model"
)

// Rule pairs a predicate over the lower-cased message with a canned reply.
type Rule struct {
	Topic string
	Match func(msg string) bool
	Reply string
}

// Keywords matches when the message contains any of words.
func Keywords(words ...string) func(string) bool {
	return func(msg string) bool {
		for _, w := range words {
			if strings.Contains(msg, w) {
				return true
			}
		}
		return false
	}
}

type Responder struct {
	rules    []Rule
	fallback Rule
}

func NewResponder(rules []Rule, fallback Rule) *Responder {
	return &Responder{rules: rules, fallback: fallback}
}

// Reply returns the first rule that matches, or the fallback.
func (r *Responder) Reply(message string) model.ChatReply {
	msg := strings.ToLower(strings.TrimSpace(message))
	for _, rule := range r.rules {
		if rule.Match(msg) {
			return model.ChatReply{Topic: rule.Topic, Text: rule.Reply}
		}
	}
	return model.ChatReply{Topic: r.fallback.Topic, Text: r.fallback.Reply}
}

// Greeting opens the conversation, by first name when the profile has one.
func Greeting(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "there"
	}
	return "Hello " + name + "! I'm your MedSchedule assistant. I can help with appointments, " +
		"allergy questions, medications, forms and testing. What can I help you with today?"
}
