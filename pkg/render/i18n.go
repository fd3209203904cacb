package render

import (
	"strings"

	"github.com/goliatone/go-quillfield/pkg/i18n"
	"github.com/goliatone/go-quillfield/pkg/model"
)

const (
	formTitleKeyMetadata = "titleKey"

	fieldLabelKeyHint       = "labelKey"
	fieldDescriptionKeyHint = "descriptionKey"
	fieldPlaceholderKeyHint = "placeholderKey"
	fieldHelpTextKeyHint    = "helpTextKey"
)

// LocalizeFormModel mutates form in place, replacing text whose message id is
// configured through a "*Key" hint with the translation for opts.Locale. Misses
// keep the existing text and go through opts.OnMissing when set.
func LocalizeFormModel(form *model.FormModel, opts RenderOptions) {
	if form == nil {
		return
	}
	translate := i18n.FuncWithHandler(opts.Translator, opts.Locale, opts.OnMissing)

	if key := strings.TrimSpace(form.Metadata[formTitleKeyMetadata]); key != "" {
		form.Title = translate(key, form.Title)
	}
	for i := range form.Fields {
		localizeField(&form.Fields[i], translate)
	}
}

func localizeField(field *model.Field, translate func(key, fallback string) string) {
	if key := strings.TrimSpace(field.Hint(fieldLabelKeyHint)); key != "" {
		field.Label = translate(key, strings.TrimSpace(field.Label))
	}
	if key := strings.TrimSpace(field.Hint(fieldDescriptionKeyHint)); key != "" {
		field.Description = translate(key, strings.TrimSpace(field.Description))
	}
	if key := strings.TrimSpace(field.Hint(fieldPlaceholderKeyHint)); key != "" {
		field.Placeholder = translate(key, strings.TrimSpace(field.Placeholder))
	}
	if key := strings.TrimSpace(field.Hint(fieldHelpTextKeyHint)); key != "" {
		field.UIHints["helpText"] = translate(key, strings.TrimSpace(field.UIHints["helpText"]))
	}
}
