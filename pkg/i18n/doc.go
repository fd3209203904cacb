// Package i18n holds the locale-keyed message catalog used to resolve field
// labels and descriptions.
//
// Translation files are flat (or nested) JSON objects loaded per locale with
// LoadLocales. A locale whose file cannot be read or decoded yields an empty
// TranslationSet; load failures never reach the caller. Lookups go through the
// Translator interface so hosts can plug their own message source.
package i18n
