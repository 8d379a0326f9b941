package services

import (
	"regexp"
	"strings"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
)

// casualReplies maps small-talk keywords to canned replies. Keywords
// are matched as whole words; first match in this order wins.
var casualReplies = []struct {
	Keyword string
	Reply   string
}{
	{"hello", "Hi there! How can I help you today?"},
	{"hi", "Hi there! How can I help you today?"},
	{"hey", "Hey! What can I do for you?"},
	{"thank you", "You're welcome! Let me know if there's anything else."},
	{"thanks", "You're welcome! Let me know if there's anything else."},
	{"bye", "Goodbye! Feel free to come back any time."},
	{"goodbye", "Goodbye! Feel free to come back any time."},
}

// comparisonCues are phrases that signal the user wants products
// compared.
var comparisonCues = []string{
	"compare",
	"vs",
	"versus",
	"difference",
	"which is better",
	"which one is better",
}

// Matcher scans utterances for product mentions, casual keywords and
// comparison cues using whole-word matching. It is immutable after
// construction and safe for concurrent use.
type Matcher struct {
	products []productPattern
	casual   []casualPattern
	cues     []*regexp.Regexp
}

type productPattern struct {
	product models.Product
	names   []*regexp.Regexp // name and model patterns
}

type casualPattern struct {
	reply string
	re    *regexp.Regexp
}

// NewMatcher compiles whole-word patterns for every catalog product,
// every casual keyword and every comparison cue.
func NewMatcher(catalog *Catalog) *Matcher {
	m := &Matcher{}

	for _, p := range catalog.Products() {
		pp := productPattern{product: p}
		for _, term := range []string{p["name"], p["model"]} {
			if term != "" {
				pp.names = append(pp.names, wholeWordPattern(term))
			}
		}
		m.products = append(m.products, pp)
	}

	for _, c := range casualReplies {
		m.casual = append(m.casual, casualPattern{
			reply: c.Reply,
			re:    wholeWordPattern(c.Keyword),
		})
	}

	for _, cue := range comparisonCues {
		m.cues = append(m.cues, wholeWordPattern(cue))
	}

	return m
}

// wholeWordPattern builds a case-insensitive pattern matching term only
// at word boundaries, so "pro" never matches inside "processor".
func wholeWordPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(strings.TrimSpace(term)) + `\b`)
}

// MatchProducts returns the catalog products whose name or model
// appears as a whole word in the utterance, in catalog order.
func (m *Matcher) MatchProducts(utterance string) []models.Product {
	var matched []models.Product
	for _, pp := range m.products {
		for _, re := range pp.names {
			if re.MatchString(utterance) {
				matched = append(matched, pp.product)
				break
			}
		}
	}
	return matched
}

// MatchCasual returns the canned reply for the first casual keyword
// found in the utterance.
func (m *Matcher) MatchCasual(utterance string) (string, bool) {
	for _, c := range m.casual {
		if c.re.MatchString(utterance) {
			return c.reply, true
		}
	}
	return "", false
}

// HasComparisonCue reports whether the utterance contains an explicit
// comparison phrase.
func (m *Matcher) HasComparisonCue(utterance string) bool {
	for _, re := range m.cues {
		if re.MatchString(utterance) {
			return true
		}
	}
	return false
}
