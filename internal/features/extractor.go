package features

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/skimmerhq/skimmer/internal/models"
)

var (
	hashtagRe = regexp.MustCompile(`#(\w+)`)
	mentionRe = regexp.MustCompile(`@(\w+)`)
	urlRe     = regexp.MustCompile(`https?://\S+`)

	// A run of consecutive emoji-block codepoints counts as one emoji.
	emojiRe = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}]+`)

	threadRe   = regexp.MustCompile(`(?i)\b\d+/\d+\b|thread|` + threadEmoji)
	sentenceRe = regexp.MustCompile(`[.!?]+`)
)

const threadEmoji = "\U0001F9F5"

// Extract derives the deterministic feature set from a post's text and
// creation time. It is total: malformed or empty text yields zero values,
// never an error. Text is NFC-normalized first so codepoint counts are
// stable across equivalent encodings.
func Extract(text string, createdAt time.Time) models.FeatureSet {
	text = norm.NFC.String(text)

	hashtags := captureGroups(hashtagRe, text)
	mentions := captureGroups(mentionRe, text)
	urls := urlRe.FindAllString(text, -1)
	if urls == nil {
		urls = []string{}
	}

	charCount := utf8.RuneCountInString(text)
	upper := 0
	for _, r := range text {
		if r >= 'A' && r <= 'Z' {
			upper++
		}
	}
	denom := charCount
	if denom < 1 {
		denom = 1
	}

	return models.FeatureSet{
		HashtagCount:     len(hashtags),
		MentionCount:     len(mentions),
		URLCount:         len(urls),
		EmojiCount:       len(emojiRe.FindAllString(text, -1)),
		ExclamationCount: strings.Count(text, "!"),
		QuestionCount:    strings.Count(text, "?"),
		CapsRatio:        float64(upper) / float64(denom),
		WordCount:        len(strings.Fields(text)),
		CharCount:        charCount,
		HourOfDay:        createdAt.Hour(),
		DayOfWeek:        mondayWeekday(createdAt),
		IsReply:          strings.HasPrefix(text, "@"),
		IsRetweet:        strings.HasPrefix(text, "RT @"),
		ThreadIndicators: threadRe.MatchString(text),
		Hashtags:         hashtags,
		Mentions:         mentions,
		URLs:             urls,

		ReadabilityScore:   Readability(text),
		PositiveIndicators: countKeywords(positiveRe, text),
		NegativeIndicators: countKeywords(negativeRe, text),
		TechIndicators:     countKeywords(techRe, text),
		BusinessIndicators: countKeywords(businessRe, text),
	}
}

// Readability scores text in [0,1] from average sentence and word lengths.
// Returns the neutral 0.5 when there are no sentences or no words.
func Readability(text string) float64 {
	sentences := len(sentenceRe.Split(text, -1))
	words := len(strings.Fields(text))

	if sentences == 0 || words == 0 {
		return 0.5
	}

	avgWordsPerSentence := float64(words) / float64(sentences)
	avgCharsPerWord := float64(utf8.RuneCountInString(text)) / float64(words)
	complexity := avgWordsPerSentence/20 + avgCharsPerWord/10

	return clamp01(1 - complexity)
}

func captureGroups(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// mondayWeekday maps Go's Sunday-based weekday to the 0=Monday..6=Sunday
// convention the rest of the data model uses.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
