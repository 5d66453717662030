package i18n

import "testing"

func TestTranslations(t *testing.T) {
	if got := T("en", "auth.login"); got != "Log in" {
		t.Errorf("T(en, auth.login) = %q", got)
	}
	if got := T("it", "auth.login"); got != "Accedi" {
		t.Errorf("T(it, auth.login) = %q", got)
	}
}

func TestFallbackToEnglish(t *testing.T) {
	if got := T("de", "auth.login"); got != "Log in" {
		t.Errorf("unsupported language should fall back to English, got %q", got)
	}
}

func TestUnknownKeyReturnsKey(t *testing.T) {
	if got := T("en", "no.such.key"); got != "no.such.key" {
		t.Errorf("unknown key should come back verbatim, got %q", got)
	}
}

func TestEveryEnglishKeyHasItalian(t *testing.T) {
	for key := range catalogs["en"] {
		if _, ok := catalogs["it"][key]; !ok {
			t.Errorf("missing Italian translation for %q", key)
		}
	}
	for key := range catalogs["it"] {
		if _, ok := catalogs["en"][key]; !ok {
			t.Errorf("missing English translation for %q", key)
		}
	}
}

func TestTranslator(t *testing.T) {
	tr := Translator("it")
	if got := tr("nav.wallets"); got != "Portafogli" {
		t.Errorf("Translator(it)(nav.wallets) = %q", got)
	}
	tr = Translator("unknown")
	if got := tr("nav.wallets"); got != "Wallets" {
		t.Errorf("Translator(unknown) should bind English, got %q", got)
	}
}
