package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var questions = []string{
	"What is the main topic?",
	"What are the takeaways?",
	"Who is it for?",
}

const labelledResponse = `**Description:**
This video explains binary search trees. It covers insertion, lookup
and traversal with worked examples.

**Key Points:**

- **Binary Trees**: Each node has at most two children.
- **Ordering Property**: Left subtree values are smaller than the root,
  which is smaller than the right subtree.

- Traversal: In-order traversal prints nodes in sorted order.

**Answer Section:**
ANSWER1: Binary search trees.
ANSWER2: Keep trees balanced and
watch for null checks.
ANSWER3: Interview candidates.
`

func TestParseSummary_LabelledAnswers(t *testing.T) {
	p, err := ParseSummary(labelledResponse, questions)
	require.NoError(t, err)

	assert.Equal(t, "This video explains binary search trees. It covers insertion, lookup and traversal with worked examples.", p.Description)
	assert.Equal(t, []string{
		"Binary Trees: Each node has at most two children.",
		"Ordering Property: Left subtree values are smaller than the root, which is smaller than the right subtree.",
		"Traversal: In-order traversal prints nodes in sorted order.",
	}, p.KeyPoints)

	require.Len(t, p.FAQs, 3)
	assert.Equal(t, "What is the main topic?", p.FAQs[0].Question)
	assert.Equal(t, "Binary search trees.", p.FAQs[0].Answer)
	assert.Equal(t, "Keep trees balanced and watch for null checks.", p.FAQs[1].Answer)
	assert.Equal(t, "Interview candidates.", p.FAQs[2].Answer)
}

func TestParseSummary_SeparatorAnswers(t *testing.T) {
	raw := `**Description:** A short talk about coffee.

**Key Points:**
- Beans: Origin matters.

**Answer Section:**
Coffee.
---ANSWER_SEPARATOR---
Grind fresh.
---ANSWER_SEPARATOR---
Anyone who drinks coffee.
---ANSWER_SEPARATOR---`

	p, err := ParseSummary(raw, questions)
	require.NoError(t, err)

	assert.Equal(t, "A short talk about coffee.", p.Description)
	assert.Equal(t, []string{"Beans: Origin matters."}, p.KeyPoints)
	assert.Equal(t, "Coffee.", p.FAQs[0].Answer)
	assert.Equal(t, "Grind fresh.", p.FAQs[1].Answer)
	assert.Equal(t, "Anyone who drinks coffee.", p.FAQs[2].Answer)
}

func TestParseSummary_OutOfOrderAndMissingAnswers(t *testing.T) {
	raw := `Description: Something.
Key Points:
- One
ANSWER3: third
ANSWER1: first`

	p, err := ParseSummary(raw, questions)
	require.NoError(t, err)

	assert.Equal(t, []string{"One"}, p.KeyPoints)
	assert.Equal(t, "first", p.FAQs[0].Answer)
	assert.Equal(t, noAnswer, p.FAQs[1].Answer)
	assert.Equal(t, "third", p.FAQs[2].Answer)
}

func TestParseSummary_ProseStartingWithSectionName(t *testing.T) {
	raw := `## Description
The host reviews a phone.
Key points are then listed by the host.

## Key Points
- **Camera:** great.
- **Battery:** lasts two days.

## Answer Section
ANSWER1: A phone.`

	p, err := ParseSummary(raw, questions[:1])
	require.NoError(t, err)

	assert.Equal(t, "The host reviews a phone. Key points are then listed by the host.", p.Description)
	assert.Equal(t, []string{"Camera: great.", "Battery: lasts two days."}, p.KeyPoints)
	assert.Equal(t, "A phone.", p.FAQs[0].Answer)
}

func TestParseSummary_BoldHeadingWithOuterColon(t *testing.T) {
	raw := "**Description**: Cooking pasta.\n**Key Points**:\n- Salt the water."

	p, err := ParseSummary(raw, nil)
	require.NoError(t, err)

	assert.Equal(t, "Cooking pasta.", p.Description)
	assert.Equal(t, []string{"Salt the water."}, p.KeyPoints)
}

func TestParseSummary_NoQuestions(t *testing.T) {
	p, err := ParseSummary(labelledResponse, nil)
	require.NoError(t, err)
	assert.Empty(t, p.FAQs)
}

func TestParseSummary_Unparseable(t *testing.T) {
	_, err := ParseSummary("I'm sorry, I can't help with that.", questions)
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("hello transcript", questions)

	assert.Contains(t, prompt, "**Description:**")
	assert.Contains(t, prompt, "**Key Points:**")
	assert.Contains(t, prompt, "**Answer Section:**")
	assert.Contains(t, prompt, "ANSWER3: Answer for Question 3")
	assert.NotContains(t, prompt, "ANSWER4")
	assert.Contains(t, prompt, "2. What are the takeaways?")
	assert.Contains(t, prompt, "hello transcript")
}

func TestTruncateRunes(t *testing.T) {
	s, cut := TruncateRunes("short", 100)
	assert.False(t, cut)
	assert.Equal(t, "short", s)

	s, cut = TruncateRunes("one two three four", 10)
	assert.True(t, cut)
	assert.Equal(t, "one two", s)

	s, cut = TruncateRunes(strings.Repeat("é", 20), 5)
	assert.True(t, cut)
	assert.Equal(t, strings.Repeat("é", 5), s)

	s, cut = TruncateRunes("anything", 0)
	assert.False(t, cut)
	assert.Equal(t, "anything", s)
}
