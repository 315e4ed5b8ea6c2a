package llm

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"tldw-backend/internal/models"
)

// ErrUnparseable means the response had neither a description nor key points.
var ErrUnparseable = errors.New("could not parse summary from model response")

const noAnswer = "The video doesn't seem to cover this one."

var (
	// a heading is the section name followed by a colon or alone on its line;
	// prose that merely starts with the name is not a heading
	sectionRe   = regexp.MustCompile(`(?im)^[ \t#>]*(?:\*\*)?[ \t]*(description|key points|answer section)[ \t]*(?:\*\*[ \t]*:(?:[ \t]*\*\*)?|:[ \t]*\*\*|:|\*\*[ \t]*$|$)`)
	answerRe    = regexp.MustCompile(`(?i)\**ANSWER[ \t]*(\d+)[ \t]*\**[ \t]*:\**`)
	bulletRe    = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+`)
	boldRe      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	separatorRe = regexp.MustCompile(`-{2,}\s*ANSWER_SEPARATOR\s*-{2,}`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

type Parsed struct {
	Description string
	KeyPoints   []string
	FAQs        []models.FAQ
}

// ParseSummary splits a model response into description, key points and
// answers. Answers are matched to questions by ANSWERn label, or by order
// when the response uses the answer separator instead.
func ParseSummary(raw string, questions []string) (Parsed, error) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	sections := splitSections(raw)

	p := Parsed{
		Description: cleanInline(sections["description"]),
		KeyPoints:   parseKeyPoints(sections["key points"]),
	}
	if p.Description == "" && len(p.KeyPoints) == 0 {
		return Parsed{}, ErrUnparseable
	}

	answerText, ok := sections["answer section"]
	if !ok {
		// answers sometimes trail the key points without a heading
		answerText = sections["key points"]
	}
	answers := parseAnswers(answerText, len(questions))

	p.FAQs = make([]models.FAQ, len(questions))
	for i, q := range questions {
		a := answers[i]
		if a == "" {
			a = noAnswer
		}
		p.FAQs[i] = models.FAQ{Question: q, Answer: a}
	}
	return p, nil
}

func splitSections(raw string) map[string]string {
	out := make(map[string]string)
	locs := sectionRe.FindAllStringSubmatchIndex(raw, -1)
	for i, loc := range locs {
		name := strings.ToLower(raw[loc[2]:loc[3]])
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if _, seen := out[name]; !seen {
			out[name] = raw[loc[1]:end]
		}
	}
	return out
}

func parseKeyPoints(section string) []string {
	var points []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if answerRe.MatchString(line) || separatorRe.MatchString(line) {
			break
		}
		if bulletRe.MatchString(line) {
			points = append(points, cleanInline(bulletRe.ReplaceAllString(line, "")))
			continue
		}
		// continuation of a wrapped bullet
		if len(points) > 0 {
			points[len(points)-1] = cleanInline(points[len(points)-1] + " " + line)
		}
	}

	out := points[:0]
	for _, p := range points {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseAnswers(section string, n int) []string {
	answers := make([]string, n)
	if n == 0 {
		return answers
	}

	locs := answerRe.FindAllStringSubmatchIndex(section, -1)
	if len(locs) > 0 {
		for i, loc := range locs {
			num, _ := strconv.Atoi(section[loc[2]:loc[3]])
			idx := num - 1
			end := len(section)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			if idx < 0 || idx >= n || answers[idx] != "" {
				continue
			}
			text := separatorRe.ReplaceAllString(section[loc[1]:end], " ")
			answers[idx] = cleanInline(text)
		}
		return answers
	}

	if separatorRe.MatchString(section) {
		i := 0
		for _, part := range separatorRe.Split(section, -1) {
			part = cleanInline(part)
			if part == "" {
				continue
			}
			if i >= n {
				break
			}
			answers[i] = part
			i++
		}
	}
	return answers
}

func cleanInline(s string) string {
	s = boldRe.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "**", "")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
