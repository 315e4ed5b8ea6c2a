package llm

import (
	"fmt"
	"strings"
	"unicode"
)

const AnswerSeparator = "---ANSWER_SEPARATOR---"

const systemPrompt = "You summarize YouTube video transcripts. Follow the requested output format exactly."

// BuildPrompt renders the summarization prompt. The model is asked for a
// description, dash-bulleted key points and one ANSWERn line per question.
func BuildPrompt(transcript string, questions []string) string {
	var b strings.Builder

	b.WriteString("I will send you a transcript from a YouTube video and some questions about the video. Do three things:\n")
	b.WriteString("- Give a description of the transcript.\n")
	b.WriteString("- Give the key points from the transcript.\n")
	b.WriteString("- Answer the questions users want to know.\n\n")

	b.WriteString("Format the response exactly as follows:\n\n")
	b.WriteString("**Description:**\n")
	b.WriteString("Roughly four detailed sentences describing what the video covers.\n\n")
	b.WriteString("**Key Points:**\n\n")
	b.WriteString("- First Key Point: Explain this idea in 4-5 lines with context and examples.\n")
	b.WriteString("- Another Key Point: Explain this concept in 4-5 lines.\n")
	b.WriteString("- More Key Points as Needed: Continue until the transcript is covered.\n\n")

	b.WriteString("**Answer Section:**\n")
	for i := range questions {
		fmt.Fprintf(&b, "ANSWER%d: Answer for Question %d\n", i+1, i+1)
	}

	b.WriteString("\nFormatting rules:\n")
	b.WriteString("- The headings **Description:**, **Key Points:** and **Answer Section:** must appear exactly as written.\n")
	b.WriteString("- Do not add any other labels or sections.\n")
	b.WriteString("- Each key point must be `- [Short subheading]: [Explanation]`. Use a dash, never numbers or asterisks.\n")
	b.WriteString("- Answer each question concisely, based only on the transcript. If unsure, give your best answer.\n\n")

	b.WriteString("Questions:\n")
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}

	b.WriteString("\n---TRANSCRIPT START---\n")
	b.WriteString(transcript)
	b.WriteString("\n---TRANSCRIPT END---\n")

	return b.String()
}

// TruncateRunes cuts s to at most max runes, backing up to the last word
// boundary when there is one. max <= 0 disables truncation.
func TruncateRunes(s string, max int) (string, bool) {
	if max <= 0 {
		return s, false
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s, false
	}

	cut := runes[:max]
	for i := len(cut) - 1; i > max/2; i-- {
		if unicode.IsSpace(cut[i]) {
			cut = cut[:i]
			break
		}
	}
	return strings.TrimSpace(string(cut)), true
}
