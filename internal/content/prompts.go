// ABOUTME: Prompt banks, personality hints, and hashtag decoration for generated posts.
// ABOUTME: Pure helpers over an injected random source for deterministic tests.
package content

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/hoshiko-bot/hoshiko/internal/models"
)

// maxPostLength leaves headroom under the platform's 280-character limit so a
// hashtag can still fit.
const maxPostLength = 275

var promptTemplates = map[models.Category][]string{
	models.CategoryAnime: {
		"share a hot take about a popular anime",
		"recommend an underrated anime that deserves more love",
		"complain about a common anime trope in a funny way",
		"describe what its like waiting for your favorite anime to get a new season",
		"make a joke about anime fans",
	},
	models.CategoryGaming: {
		"share a gaming opinion thatll start arguments",
		"describe a frustrating gaming moment everyone can relate to",
		"recommend an indie game people are sleeping on",
		"make fun of a gaming trend",
		"share a nostalgic gaming memory",
	},
	models.CategoryTech: {
		"complain about a tech problem everyone deals with",
		"share a hot take about a popular tech product",
		"joke about programmers or tech workers",
		"share a tech tip in a casual way",
		"make fun of tech hype",
	},
}

var personalityPrompts = map[string]string{
	"chill":    "Write in a relaxed, casual tone. Be friendly but not too excited. Use lowercase mostly.",
	"hyped":    "Write with energy and enthusiasm! Use caps sometimes, emojis are okay. Be fun!",
	"shitpost": "Write in an ironic, slightly unhinged way. Be absurd but still coherent. very lowercase, questionable grammar is a vibe",
}

var hashtags = map[models.Category][]string{
	models.CategoryAnime:  {"#anime", "#weeb", "#otaku", "#animememes"},
	models.CategoryGaming: {"#gaming", "#gamer", "#videogames", "#indiegames"},
	models.CategoryTech:   {"#tech", "#programming", "#coding", "#developer"},
	models.CategoryNews:   {"#news", "#tech", "#trending"},
}

// PickCategory draws a random content category. The news category joins the
// pool only when a headline source is available.
func PickCategory(rng *rand.Rand, newsEnabled bool) models.Category {
	pool := models.Categories
	if newsEnabled {
		pool = append(append([]models.Category{}, pool...), models.CategoryNews)
	}
	return pool[rng.Intn(len(pool))]
}

// PickPrompt draws a random prompt for the category, falling back to the
// anime bank for unknown categories.
func PickPrompt(rng *rand.Rand, category models.Category) string {
	prompts, ok := promptTemplates[category]
	if !ok {
		prompts = promptTemplates[models.CategoryAnime]
	}
	return prompts[rng.Intn(len(prompts))]
}

// HeadlinePrompt builds a prompt around a fetched news headline.
func HeadlinePrompt(headline string) string {
	return fmt.Sprintf("react to this headline in your own words: %q", headline)
}

// BuildSystemPrompt assembles the system message for the given category and
// personality mode.
func BuildSystemPrompt(category models.Category, personality string) string {
	hint, ok := personalityPrompts[personality]
	if !ok {
		hint = personalityPrompts["chill"]
	}
	return fmt.Sprintf(
		"You are a social media account that posts about %s. %s Keep it under 250 characters. "+
			"Dont use quotes around the post. Just output the post text, nothing else.",
		category, hint)
}

// MaybeHashtag appends a random category hashtag roughly 40% of the time,
// skipping when hashtags are disabled or the post would exceed the length cap.
func MaybeHashtag(rng *rand.Rand, text string, category models.Category, enabled bool) string {
	if !enabled {
		return text
	}
	if rng.Float64() > 0.4 {
		return text
	}
	tags := hashtags[category]
	if len(tags) == 0 {
		return text
	}
	tag := tags[rng.Intn(len(tags))]
	if len(text)+1+len(tag) >= maxPostLength {
		return text
	}
	return text + " " + tag
}

// CleanCandidate strips wrapping quotes and whitespace the model sometimes
// emits despite instructions.
func CleanCandidate(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, `"'`)
	return strings.TrimSpace(text)
}
