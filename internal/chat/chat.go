package chat

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

var (
	ErrEmptyPrompt     = errors.New("please enter a request")
	ErrUnknownModel    = errors.New("unknown model")
	ErrUnknownLanguage = errors.New("unknown language")
)

// Models offered by the request form; the first is the default.
var Models = []string{"gpt-4o", "gpt-4", "gpt-3.5-turbo"}

// Language is a selectable response language.
type Language struct {
	Name string
	Tag  language.Tag
}

// Languages offered for either panel, in display order.
var Languages = []Language{
	{Name: "English", Tag: language.English},
	{Name: "Mandarin Chinese", Tag: language.MustParse("cmn")},
	{Name: "Spanish", Tag: language.Spanish},
	{Name: "Hindi", Tag: language.Hindi},
	{Name: "Arabic", Tag: language.Arabic},
	{Name: "French", Tag: language.French},
	{Name: "Russian", Tag: language.Russian},
	{Name: "Portuguese", Tag: language.Portuguese},
	{Name: "German", Tag: language.German},
	{Name: "Japanese", Tag: language.Japanese},
}

// LookupLanguage finds a language by its display name.
func LookupLanguage(name string) (Language, bool) {
	for _, l := range Languages {
		if l.Name == name {
			return l, true
		}
	}
	return Language{}, false
}

func knownModel(model string) bool {
	for _, m := range Models {
		if m == model {
			return true
		}
	}
	return false
}

// Request is one submit of the form. It is rebuilt on every submit.
type Request struct {
	Model  string
	Prompt string
	Lang1  string
	Lang2  string
}

// Validate checks presence of the prompt and membership of the enumerated
// fields. The two languages may be equal. Only an empty prompt is rejected;
// whitespace is sent as typed.
func (r Request) Validate() error {
	if r.Prompt == "" {
		return ErrEmptyPrompt
	}
	if !knownModel(r.Model) {
		return fmt.Errorf("%w: %q", ErrUnknownModel, r.Model)
	}
	for _, name := range []string{r.Lang1, r.Lang2} {
		if _, ok := LookupLanguage(name); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
		}
	}
	return nil
}

// Lang returns the language name shown in panel side.
func (r Request) Lang(side Side) string {
	if side == Second {
		return r.Lang2
	}
	return r.Lang1
}
