// Package quiz builds the review quiz shown for a conversation.
//
// The quiz is a placeholder: every question is a true/false statement built
// from an assistant reply and "True" is always the correct answer, whatever
// the reply said.
package quiz

import (
	"health-coach/internal/session"
)

const (
	OptionTrue  = "True"
	OptionFalse = "False"

	excerptLength = 100
)

type Item struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// Generate emits one item per assistant turn, in conversation order.
func Generate(turns []session.Turn) []Item {
	var items []Item
	for _, t := range turns {
		if t.Role != session.RoleAssistant {
			continue
		}
		items = append(items, Item{
			Question:      "Based on our discussion: " + excerpt(t.Content) + "...",
			Options:       []string{OptionTrue, OptionFalse},
			CorrectAnswer: OptionTrue,
		})
	}
	return items
}

// Score counts answers matching the correct option. answers[i] belongs to
// items[i]; missing answers count as wrong.
func Score(items []Item, answers []string) int {
	score := 0
	for i, it := range items {
		if i < len(answers) && answers[i] == it.CorrectAnswer {
			score++
		}
	}
	return score
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= excerptLength {
		return s
	}
	return string(r[:excerptLength])
}
