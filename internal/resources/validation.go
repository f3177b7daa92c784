package resources

import (
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-cms-admin/internal/datagrid"
)

// ruleSet maps a form field to the rules it must satisfy.
type ruleSet map[string][]validation.Rule

func validator(rules func(datagrid.Action, datagrid.Form) ruleSet) datagrid.Validator {
	return func(action datagrid.Action, form datagrid.Form) datagrid.FieldErrors {
		set := rules(action, form)
		fields := make([]string, 0, len(set))
		for field := range set {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		errs := datagrid.FieldErrors{}
		for _, field := range fields {
			value := form[field]
			if str, ok := value.(string); ok {
				value = strings.TrimSpace(str)
			}
			if err := validation.Validate(value, set[field]...); err != nil {
				errs.Add(field, err.Error())
			}
		}
		return errs
	}
}

func languageRule(choices Choices) validation.Rule {
	return validation.By(func(value any) error {
		code, _ := value.(string)
		if code == "" || choices.HasLanguage(code) {
			return nil
		}
		return validation.NewError("validation_language_unknown", "is not a known language")
	})
}

func tagsRule(choices Choices, lang string) validation.Rule {
	return validation.By(func(value any) error {
		if !choices.StrictTags {
			return nil
		}
		raw, _ := value.(string)
		for _, tag := range SplitTags(raw) {
			if !choices.HasTag(lang, tag) {
				return validation.NewError("validation_tag_unknown", "contains unknown tag "+tag)
			}
		}
		return nil
	})
}

// assetRules validates the shared metadata of files, images and videos.
// urlField is only required when creating by reference.
func assetRules(choices Choices, urlField string) func(datagrid.Action, datagrid.Form) ruleSet {
	return func(action datagrid.Action, form datagrid.Form) ruleSet {
		set := ruleSet{
			"name": {validation.Required, validation.Length(1, 255)},
			"lang": {validation.Required, languageRule(choices)},
			"tags": {tagsRule(choices, form.String("lang"))},
		}
		switch {
		case action == datagrid.ActionCreate && form.String(datagrid.MethodField) == datagrid.UploadMethodFile:
		case action == datagrid.ActionCreate:
			set[urlField] = []validation.Rule{validation.Required, is.URL}
		default:
			set[urlField] = []validation.Rule{is.URL}
		}
		return set
	}
}

// contentRules validates the shared language and tag fields plus the
// required text fields of a learning item.
func contentRules(choices Choices, required ...string) func(datagrid.Action, datagrid.Form) ruleSet {
	return func(_ datagrid.Action, form datagrid.Form) ruleSet {
		set := ruleSet{
			"lang": {validation.Required, languageRule(choices)},
			"tags": {tagsRule(choices, form.String("lang"))},
		}
		for _, field := range required {
			set[field] = []validation.Rule{validation.Required}
		}
		return set
	}
}
