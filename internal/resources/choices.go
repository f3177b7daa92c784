package resources

import (
	"context"
	"slices"
	"strings"

	"github.com/goliatone/go-cms-admin/internal/settings"
)

// Vocabulary supplies the language and tag options forms pick from.
type Vocabulary interface {
	Tags(ctx context.Context, lang string) []string
	Languages(ctx context.Context) []settings.Option
}

// Choices is a snapshot of the language and per-language tag options.
type Choices struct {
	Languages  []settings.Option
	Tags       map[string][]string
	Language   string
	StrictTags bool
}

// LoadChoices reads every language and its tag vocabulary from vocab.
// language becomes the default for create forms; it falls back to the first
// known language.
func LoadChoices(ctx context.Context, vocab Vocabulary, language string) Choices {
	choices := Choices{Tags: map[string][]string{}, Language: strings.ToUpper(strings.TrimSpace(language))}
	if vocab == nil {
		return choices
	}
	choices.Languages = vocab.Languages(ctx)
	for _, option := range choices.Languages {
		choices.Tags[option.Value] = vocab.Tags(ctx, option.Value)
	}
	if choices.Language == "" && len(choices.Languages) > 0 {
		choices.Language = choices.Languages[0].Value
	}
	return choices
}

// HasLanguage reports whether code is a known language. With no languages
// configured every code is accepted.
func (c Choices) HasLanguage(code string) bool {
	if len(c.Languages) == 0 {
		return true
	}
	return slices.ContainsFunc(c.Languages, func(option settings.Option) bool {
		return strings.EqualFold(option.Value, code)
	})
}

// TagsFor returns the tag vocabulary of lang.
func (c Choices) TagsFor(lang string) []string {
	for code, tags := range c.Tags {
		if strings.EqualFold(code, lang) {
			return tags
		}
	}
	return nil
}

// HasTag reports whether tag belongs to the vocabulary of lang. An empty
// vocabulary accepts any tag.
func (c Choices) HasTag(lang, tag string) bool {
	vocabulary := c.TagsFor(lang)
	if len(vocabulary) == 0 {
		return true
	}
	return slices.ContainsFunc(vocabulary, func(candidate string) bool {
		return strings.EqualFold(candidate, tag)
	})
}

func (c Choices) defaultLanguage() string {
	if c.Language != "" {
		return c.Language
	}
	return "EN"
}
