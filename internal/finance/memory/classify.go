package memory

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"borsa/internal/core"
	"borsa/internal/finance"
)

var (
	amountRe = regexp.MustCompile(`(?:€|\$)?\s*([0-9]+(?:[.,][0-9]{1,2})?)`)
	dateRes  = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`), // YYYY-MM-DD
		regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{4})\b`), // DD/MM/YYYY
	}
	creditWords = []string{"salary", "stipendio", "refund", "rimborso", "received", "bonus", "income"}
)

// Classify is a keyword/regex stand-in for the backend classifier: it
// guesses amount, date, type and category from free text and returns a
// draft for the confirmation form.
func (s *Store) Classify(ctx context.Context, text string) (core.Draft, error) {
	text = strings.Join(strings.Fields(strings.TrimSpace(text)), " ")
	if text == "" {
		return core.Draft{}, finance.NewAPIError(http.StatusUnprocessableEntity, "empty text")
	}
	cats, err := s.ListCategories(ctx)
	if err != nil {
		return core.Draft{}, err
	}

	draft := core.Draft{
		Type:        guessType(text),
		Date:        guessDate(text),
		Description: text,
		Confidence:  0.5,
	}
	if m := amountRe.FindStringSubmatch(text); len(m) >= 2 {
		if cents, err := core.ParseDecimalToCents(m[1]); err == nil {
			draft.Amount = core.Money{Cents: cents}
			draft.Confidence += 0.2
		}
	}
	if cat, sub, hit := guessCategory(text, draft.Type, cats); hit {
		draft.Category = cat
		draft.Subcategory = sub
		draft.Confidence += 0.2
	} else {
		draft.Category = cat
		draft.Subcategory = sub
	}
	return draft, nil
}

func guessType(text string) core.TransactionType {
	l := strings.ToLower(text)
	for _, w := range creditWords {
		if strings.Contains(l, w) {
			return core.Credit
		}
	}
	return core.Debit
}

func guessDate(text string) core.Date {
	for i, re := range dateRes {
		m := re.FindStringSubmatch(text)
		if len(m) != 4 {
			continue
		}
		var d core.Date
		var err error
		if i == 0 {
			d, err = core.ParseDate(m[1] + "-" + m[2] + "-" + m[3])
		} else {
			d, err = core.ParseDate(m[3] + "-" + m[2] + "-" + m[1])
		}
		if err == nil {
			return d
		}
	}
	now := time.Now()
	return core.NewDate(now.Year(), int(now.Month()), now.Day())
}

// guessCategory matches category and subcategory names as keywords, falling
// back to the first visible category of the draft's type.
func guessCategory(text string, typ core.TransactionType, cats []core.Category) (string, string, bool) {
	l := strings.ToLower(text)
	var fallback string
	for _, c := range cats {
		if c.Hidden || c.Type != typ {
			continue
		}
		if fallback == "" {
			fallback = c.Name
		}
		for _, sub := range c.VisibleSubcategories() {
			if strings.Contains(l, strings.ToLower(sub.Name)) {
				return c.Name, sub.Name, true
			}
		}
		if strings.Contains(l, strings.ToLower(c.Name)) {
			subs := c.VisibleSubcategories()
			if len(subs) > 0 {
				return c.Name, subs[0].Name, true
			}
			return c.Name, "", true
		}
	}
	return fallback, "", false
}
