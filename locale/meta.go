package locale

import "strings"

// Meta describes locale display metadata for report summaries.
type Meta struct {
	Name string
}

// registry contains native display names for common Android locales.
// Region variants not listed here fall back to their base language
// in Resolve.
var registry = map[string]Meta{
	"ar":    {Name: "العربية"},
	"bn":    {Name: "বাংলা"},
	"cs":    {Name: "Čeština"},
	"da":    {Name: "Dansk"},
	"de":    {Name: "Deutsch"},
	"el":    {Name: "Ελληνικά"},
	"en":    {Name: "English"},
	"en-GB": {Name: "English (UK)"},
	"en-US": {Name: "English (US)"},
	"es":    {Name: "Español"},
	"fa":    {Name: "فارسی"},
	"fi":    {Name: "Suomi"},
	"fr":    {Name: "Français"},
	"he":    {Name: "עברית"},
	"hi":    {Name: "हिन्दी"},
	"hu":    {Name: "Magyar"},
	"id":    {Name: "Bahasa Indonesia"},
	"it":    {Name: "Italiano"},
	"ja":    {Name: "日本語"},
	"ko":    {Name: "한국어"},
	"ms":    {Name: "Bahasa Melayu"},
	"nl":    {Name: "Nederlands"},
	"no":    {Name: "Norsk"},
	"pl":    {Name: "Polski"},
	"pt":    {Name: "Português"},
	"pt-BR": {Name: "Português (Brasil)"},
	"ro":    {Name: "Română"},
	"ru":    {Name: "Русский"},
	"sv":    {Name: "Svenska"},
	"th":    {Name: "ไทย"},
	"tr":    {Name: "Türkçe"},
	"uk":    {Name: "Українська"},
	"vi":    {Name: "Tiếng Việt"},
	"zh":    {Name: "中文"},
	"zh-CN": {Name: "中文 (简体)"},
	"zh-TW": {Name: "中文 (繁體)"},
}

// Resolve returns display metadata for a locale tag. Lookup order: the
// normalized tag itself, then its base language ("pt-PT" → "pt"). The
// second return is false when nothing matches (including Default, which
// has no language identity of its own).
func Resolve(tag string) (Meta, bool) {
	if tag == Default {
		return Meta{}, false
	}
	norm := Normalize(tag)
	if m, ok := registry[norm]; ok {
		return m, true
	}
	if base, _, found := strings.Cut(norm, "-"); found {
		if m, ok := registry[base]; ok {
			return m, true
		}
	}
	return Meta{}, false
}
