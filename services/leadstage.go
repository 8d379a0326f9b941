package services

import (
	"strings"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
)

// Cue phrases advancing the sales funnel. Matched as substrings of the
// lowercased message, the Roman Urdu terms included for mixed-language
// chats.
var (
	warmCues = []string{
		"interested", "price", "demo", "details", "info",
		"tell me", "more about", "maloomat",
	}
	hotCues = []string{
		"buy", "purchase", "sign up", "signup", "subscribe",
		"order", "pay", "payment", "kharidna",
	}
	closedCues = []string{
		"done", "deal", "contract", "payment received", "paid",
		"completed", "ho gaya",
	}
)

// AdvanceLeadStage applies keyword cues to the current stage. The
// progression is strictly monotonic: cold → warm → hot → closed, never
// backwards.
func AdvanceLeadStage(current models.LeadStage, message string) models.LeadStage {
	text := strings.ToLower(message)

	if current == models.StageCold && containsAny(text, warmCues) {
		current = models.StageWarm
	}
	if (current == models.StageCold || current == models.StageWarm) && containsAny(text, hotCues) {
		current = models.StageHot
	}
	if (current == models.StageWarm || current == models.StageHot) && containsAny(text, closedCues) {
		current = models.StageClosed
	}
	return current
}

// MergeLeadStage accepts a suggested stage (typically from the LLM)
// only when it is valid and strictly ahead of the current one.
func MergeLeadStage(current, suggested models.LeadStage) models.LeadStage {
	if suggested.Valid() && suggested.Rank() > current.Rank() {
		return suggested
	}
	return current
}

// Emotion keyword sets, checked in order; satisfied beats happy beats
// curious so "thanks, great laptop" reads as satisfied.
var (
	satisfiedCues = []string{"thanks", "thank you", "satisfied", "helpful", "sounds good"}
	happyCues     = []string{"love", "great", "awesome", "perfect", "happy", "amazing", "excellent"}
	curiousCues   = []string{"interested", "how", "what", "why", "tell me", "more about", "curious", "?"}
)

// DetectEmotion classifies a message into the coarse emotion enum.
func DetectEmotion(message string) models.Emotion {
	text := strings.ToLower(message)
	switch {
	case containsAny(text, satisfiedCues):
		return models.EmotionSatisfied
	case containsAny(text, happyCues):
		return models.EmotionHappy
	case containsAny(text, curiousCues):
		return models.EmotionCurious
	}
	return models.EmotionNeutral
}

// urduChars covers the Urdu script range used for language detection.
const urduChars = "اآبپتٹثجچحخدڈذرزژسشصضطظعغفقکگلمنوہی"

// DetectLanguage returns "ur" when the text contains Urdu script,
// otherwise "en".
func DetectLanguage(text string) string {
	if strings.ContainsAny(text, urduChars) {
		return "ur"
	}
	return "en"
}

func containsAny(text string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(text, cue) {
			return true
		}
	}
	return false
}
