package intent

import (
	"regexp"
	"strings"
)

// Entities are the filter fragments pulled out of a message. Empty fields
// mean the message did not mention that dimension.
type Entities struct {
	Region       string
	Category     string
	Status       string
	BusinessName string
}

func (e Entities) IsZero() bool {
	return e.Region == "" && e.Category == "" && e.Status == "" && e.BusinessName == ""
}

// Extractor pulls entities out of a message. The engine only needs this
// slice of behaviour, so tests can swap in a fixed vocabulary.
type Extractor interface {
	Extract(message string) Entities
}

// Matcher is the vocabulary lookup the extractor leans on; a refreshed
// catalog.Vocabulary satisfies it.
type Matcher interface {
	MatchRegion(message string) string
	MatchCategory(message string) string
}

// Name patterns are tried in order; the first capture wins.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`apa itu (.+)`),
	regexp.MustCompile(`jelaskan tentang (.+)`),
	regexp.MustCompile(`jelaskan (.+)`),
	regexp.MustCompile(`deskripsikan (.+)`),
	regexp.MustCompile(`info tentang (.+)`),
	regexp.MustCompile(`ceritakan tentang (.+)`),
	regexp.MustCompile(`ceritakan (.+)`),
	regexp.MustCompile(`cari info (.+)`),
}

var leadingNoise = regexp.MustCompile(`^(usaha|toko|warung|tentang)(\s+|$)`)

type VocabExtractor struct {
	vocab Matcher
}

func NewVocabExtractor(vocab Matcher) *VocabExtractor {
	return &VocabExtractor{vocab: vocab}
}

func (x *VocabExtractor) Extract(message string) Entities {
	lowered := strings.ToLower(message)

	return Entities{
		Region:       x.vocab.MatchRegion(lowered),
		Category:     x.vocab.MatchCategory(lowered),
		Status:       extractStatus(lowered),
		BusinessName: ExtractName(lowered),
	}
}

// "tidak aktif" has to be checked before "aktif" matches inside it.
func extractStatus(lowered string) string {
	if strings.Contains(lowered, "nonaktif") || strings.Contains(lowered, "tidak aktif") {
		return "nonaktif"
	}
	if strings.Contains(lowered, "aktif") {
		return "aktif"
	}
	return ""
}

// ExtractName finds the business name a describe-style question is about.
// The input is expected to be lowercased already.
func ExtractName(lowered string) string {
	for _, pattern := range namePatterns {
		match := pattern.FindStringSubmatch(lowered)
		if match == nil {
			continue
		}

		name := strings.TrimSpace(match[1])
		name = strings.TrimRight(name, "?!.")
		name = strings.TrimSpace(name)
		name = leadingNoise.ReplaceAllString(name, "")
		name = strings.TrimSpace(name)

		if len(name) > 2 {
			return name
		}
	}
	return ""
}
