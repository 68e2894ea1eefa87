package utils

import (
	"embed"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	yaml "gopkg.in/yaml.v2"
)

//go:embed i18n/*.yaml
var messageFiles embed.FS

var bundle *i18n.Bundle

func init() {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	entries, err := messageFiles.ReadDir("i18n")
	if err != nil {
		panic(err)
	}
	for _, entry := range entries {
		if _, err := bundle.LoadMessageFileFS(messageFiles, "i18n/"+entry.Name()); err != nil {
			panic(err)
		}
	}
}

// NewLocalizer returns a localizer for the given language preferences,
// falling back to English.
func NewLocalizer(langs ...string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, langs...)
}
