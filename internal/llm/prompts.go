package llm

import "fmt"

// SimilarityPrompt generates the prompt for scoring semantic similarity
// between a message and a trigger word.
func SimilarityPrompt(a, b string) string {
	return fmt.Sprintf(`Rate the semantic similarity between the following message and topic on a scale from 0 to 1.

MESSAGE: %s
TOPIC: %s

0 means completely unrelated, 1 means the message is clearly about this topic.
Answer with a single decimal number between 0 and 1 and nothing else.`, a, b)
}

// ExtractionPrompt generates the prompt for analyzing a user message for
// memorable personal information.
func ExtractionPrompt(message string) string {
	return fmt.Sprintf(`You are a memory extraction system for a conversational assistant. Analyze this user message and decide whether it discloses personal information worth remembering.

MESSAGE:
%s

Categories: travail, famille, loisirs, sante, personnel, autre

Rules:
- "important" is true only if the message reveals durable personal information (job, family, tastes, habits, plans)
- "memory" is a short third-person summary of what was learned, with a category and an importance from 1 (trivial) to 10 (defining)
- "triggers" are up to 5 keywords from the message that should recall this memory later, each with a category and a few suggested synonyms
- Skip greetings, questions, and small talk: return {"important": false}
- Return ONLY one JSON object, no other text

Return a JSON object:
{
  "important": true,
  "memory": {"content": "...", "category": "...", "importance": 5},
  "triggers": [{"word": "...", "category": "...", "synonyms": ["..."]}]
}`, message)
}
