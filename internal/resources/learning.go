package resources

import (
	"context"
	"strconv"
	"time"

	"github.com/goliatone/go-cms-admin/internal/datagrid"
)

// VocabularyItem is a word with its translation.
type VocabularyItem struct {
	ID            string    `json:"id"`
	Word          string    `json:"word"`
	Translation   string    `json:"translation"`
	Transcription string    `json:"transcription"`
	Example       string    `json:"example"`
	Tags          []string  `json:"tags"`
	Lang          string    `json:"lang"`
	IsActive      bool      `json:"isActive"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FreeTextQuestion is answered by typing the answer.
type FreeTextQuestion struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Hint      string    `json:"hint"`
	Tags      []string  `json:"tags"`
	Lang      string    `json:"lang"`
	IsActive  bool      `json:"isActive"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TrueFalseQuestion asks whether a statement holds.
type TrueFalseQuestion struct {
	ID          string    `json:"id"`
	Statement   string    `json:"statement"`
	Answer      bool      `json:"answer"`
	Explanation string    `json:"explanation"`
	Tags        []string  `json:"tags"`
	Lang        string    `json:"lang"`
	IsActive    bool      `json:"isActive"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewVocabularyEngine builds the engine behind the Vocabulary screen.
func NewVocabularyEngine(ctx context.Context, deps Deps, opts ...datagrid.Option) (*datagrid.Engine[VocabularyItem], error) {
	choices := deps.choices(ctx)
	return build(deps, definition[VocabularyItem]{
		resource: ResourceVocabulary,
		id:       func(v VocabularyItem) string { return v.ID },
		project: func(v VocabularyItem) datagrid.Form {
			return datagrid.Form{
				"word":          v.Word,
				"translation":   v.Translation,
				"transcription": v.Transcription,
				"example":       v.Example,
				"tags":          JoinTags(v.Tags),
				"lang":          v.Lang,
				"isActive":      v.IsActive,
			}
		},
		defaults: func() datagrid.Form {
			return datagrid.Form{
				"word":          "",
				"translation":   "",
				"transcription": "",
				"example":       "",
				"tags":          "",
				"lang":          choices.defaultLanguage(),
				"isActive":      true,
			}
		},
		fields: []datagrid.FilterField[VocabularyItem]{
			textField("word", func(v VocabularyItem) string { return v.Word }),
			textField("translation", func(v VocabularyItem) string { return v.Translation }),
			langField(func(v VocabularyItem) string { return v.Lang }),
			activeField(func(v VocabularyItem) bool { return v.IsActive }),
		},
		predicates: []datagrid.Predicate[VocabularyItem]{tagsPredicate(func(v VocabularyItem) []string { return v.Tags })},
		rules:      contentRules(choices, "word", "translation"),
	}, opts...)
}

// VocabularyColumns renders a vocabulary listing.
func VocabularyColumns() []Column[VocabularyItem] {
	return []Column[VocabularyItem]{
		{Title: "ID", Width: 10, Value: func(v VocabularyItem) string { return v.ID }},
		{Title: "Word", Width: 20, Value: func(v VocabularyItem) string { return v.Word }},
		{Title: "Translation", Width: 20, Value: func(v VocabularyItem) string { return v.Translation }},
		{Title: "Transcription", Width: 16, Value: func(v VocabularyItem) string { return v.Transcription }},
		{Title: "Lang", Width: 4, Value: func(v VocabularyItem) string { return v.Lang }},
		{Title: "Active", Width: 6, Value: func(v VocabularyItem) string { return activeLabel(v.IsActive) }},
	}
}

// NewFreeTextQuestionEngine builds the engine behind the free-text question
// bank.
func NewFreeTextQuestionEngine(ctx context.Context, deps Deps, opts ...datagrid.Option) (*datagrid.Engine[FreeTextQuestion], error) {
	choices := deps.choices(ctx)
	return build(deps, definition[FreeTextQuestion]{
		resource: ResourceFreeTextQuestions,
		id:       func(q FreeTextQuestion) string { return q.ID },
		project: func(q FreeTextQuestion) datagrid.Form {
			return datagrid.Form{
				"question": q.Question,
				"answer":   q.Answer,
				"hint":     q.Hint,
				"tags":     JoinTags(q.Tags),
				"lang":     q.Lang,
				"isActive": q.IsActive,
			}
		},
		defaults: func() datagrid.Form {
			return datagrid.Form{
				"question": "",
				"answer":   "",
				"hint":     "",
				"tags":     "",
				"lang":     choices.defaultLanguage(),
				"isActive": true,
			}
		},
		fields: []datagrid.FilterField[FreeTextQuestion]{
			textField("question", func(q FreeTextQuestion) string { return q.Question }),
			textField("answer", func(q FreeTextQuestion) string { return q.Answer }),
			langField(func(q FreeTextQuestion) string { return q.Lang }),
			activeField(func(q FreeTextQuestion) bool { return q.IsActive }),
		},
		predicates: []datagrid.Predicate[FreeTextQuestion]{tagsPredicate(func(q FreeTextQuestion) []string { return q.Tags })},
		rules:      contentRules(choices, "question", "answer"),
	}, opts...)
}

// FreeTextQuestionColumns renders a free-text question listing.
func FreeTextQuestionColumns() []Column[FreeTextQuestion] {
	return []Column[FreeTextQuestion]{
		{Title: "ID", Width: 10, Value: func(q FreeTextQuestion) string { return q.ID }},
		{Title: "Question", Width: 36, Value: func(q FreeTextQuestion) string { return q.Question }},
		{Title: "Answer", Width: 20, Value: func(q FreeTextQuestion) string { return q.Answer }},
		{Title: "Lang", Width: 4, Value: func(q FreeTextQuestion) string { return q.Lang }},
		{Title: "Active", Width: 6, Value: func(q FreeTextQuestion) string { return activeLabel(q.IsActive) }},
	}
}

// NewTrueFalseQuestionEngine builds the engine behind the true/false
// question bank.
func NewTrueFalseQuestionEngine(ctx context.Context, deps Deps, opts ...datagrid.Option) (*datagrid.Engine[TrueFalseQuestion], error) {
	choices := deps.choices(ctx)
	return build(deps, definition[TrueFalseQuestion]{
		resource: ResourceTrueFalseQuestion,
		id:       func(q TrueFalseQuestion) string { return q.ID },
		project: func(q TrueFalseQuestion) datagrid.Form {
			return datagrid.Form{
				"statement":   q.Statement,
				"answer":      q.Answer,
				"explanation": q.Explanation,
				"tags":        JoinTags(q.Tags),
				"lang":        q.Lang,
				"isActive":    q.IsActive,
			}
		},
		defaults: func() datagrid.Form {
			return datagrid.Form{
				"statement":   "",
				"answer":      true,
				"explanation": "",
				"tags":        "",
				"lang":        choices.defaultLanguage(),
				"isActive":    true,
			}
		},
		fields: []datagrid.FilterField[TrueFalseQuestion]{
			textField("statement", func(q TrueFalseQuestion) string { return q.Statement }),
			{Name: "answer", Kind: datagrid.FieldTriState, Value: func(q TrueFalseQuestion) any { return q.Answer }},
			langField(func(q TrueFalseQuestion) string { return q.Lang }),
			activeField(func(q TrueFalseQuestion) bool { return q.IsActive }),
		},
		predicates: []datagrid.Predicate[TrueFalseQuestion]{tagsPredicate(func(q TrueFalseQuestion) []string { return q.Tags })},
		rules:      contentRules(choices, "statement"),
	}, opts...)
}

// TrueFalseQuestionColumns renders a true/false question listing.
func TrueFalseQuestionColumns() []Column[TrueFalseQuestion] {
	return []Column[TrueFalseQuestion]{
		{Title: "ID", Width: 10, Value: func(q TrueFalseQuestion) string { return q.ID }},
		{Title: "Statement", Width: 40, Value: func(q TrueFalseQuestion) string { return q.Statement }},
		{Title: "Answer", Width: 6, Value: func(q TrueFalseQuestion) string { return strconv.FormatBool(q.Answer) }},
		{Title: "Lang", Width: 4, Value: func(q TrueFalseQuestion) string { return q.Lang }},
		{Title: "Active", Width: 6, Value: func(q TrueFalseQuestion) string { return activeLabel(q.IsActive) }},
	}
}
