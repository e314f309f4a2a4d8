package analyzer

import (
	"fmt"
	"strings"

	"github.com/kalambet/redditpersona/internal/ollama"
	"github.com/kalambet/redditpersona/internal/persona"
)

// maxSampleItems caps how many posts and how many comments go into the prompt.
const maxSampleItems = 20

// The labels below are matched verbatim by persona.Parse.
const promptTemplate = `Create a detailed user persona for Reddit user '%s' based on their content.
Follow this EXACT format:

**Basic Information**
Age: [estimate]
Occupation: [inferred]
Status: [Single/Married/Unknown]
Location: [country/region]
Reddit Archetype: [The Creator, The Critic, The Helper, The Observer, The Debater, The Enthusiast]

---

## Top Traits: [Primary Trait 1] [Primary Trait 2]

### Secondary Traits: [Secondary Trait 1] [Secondary Trait 2]

---

## Motivations
- [Motivation 1]
- [Motivation 2]
- [Motivation 3]

---

## Behavior & Habits
- [Habit 1]
- [Habit 2]
- [Habit 3]

---

## Goals & Needs
- [Goal 1]
- [Goal 2]
- [Goal 3]

---

## Frustrations
- [Frustration 1]
- [Frustration 2]
- [Frustration 3]

---

Signature Quote: [representative quote]

Content to analyze:
%s`

// ContentSample concatenates up to 20 posts and 20 comments, each prefixed
// with its kind and subreddit, separated by blank lines.
func ContentSample(act persona.Activity) string {
	var samples []string
	for i, p := range act.Posts {
		if i == maxSampleItems {
			break
		}
		samples = append(samples, fmt.Sprintf("POST [%s]: %s\n%s", p.Subreddit, p.Title, p.SelfText))
	}
	for i, c := range act.Comments {
		if i == maxSampleItems {
			break
		}
		samples = append(samples, fmt.Sprintf("COMMENT [%s]: %s", c.Subreddit, c.Body))
	}
	return strings.Join(samples, "\n\n")
}

// BuildPrompt constructs the single user message sent to the model.
func BuildPrompt(username, content string) []ollama.Message {
	return []ollama.Message{
		{Role: "user", Content: fmt.Sprintf(promptTemplate, username, content)},
	}
}
