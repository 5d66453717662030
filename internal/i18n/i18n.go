// Package i18n holds the UI message catalogs. Lookups fall back to English
// so a missing translation never breaks a page.
package i18n

var supported = map[string]bool{"en": true, "it": true}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	return supported[lang]
}

// Languages returns the selectable language codes in display order.
func Languages() []string {
	return []string{"en", "it"}
}

// T translates key into lang. Unknown keys come back verbatim so the
// template shows something greppable instead of an empty string.
func T(lang, key string) string {
	if msgs, ok := catalogs[lang]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs["en"][key]; ok {
		return msg
	}
	return key
}

// Translator binds a language so templates can call a one-argument func.
func Translator(lang string) func(string) string {
	if !Supported(lang) {
		lang = "en"
	}
	return func(key string) string { return T(lang, key) }
}

var catalogs = map[string]map[string]string{
	"en": {
		"app.title":            "Borsa",
		"nav.dashboard":        "Dashboard",
		"nav.wallets":          "Wallets",
		"nav.categories":       "Categories",
		"nav.reports":          "Reports",
		"nav.logout":           "Log out",
		"auth.login":           "Log in",
		"auth.register":        "Register",
		"auth.username":        "Username",
		"auth.email":           "Email",
		"auth.password":        "Password",
		"auth.failed":          "Invalid username or password",
		"auth.registered":      "Account created, you can log in now",
		"wallet.create":        "Create wallet",
		"wallet.name":          "Name",
		"wallet.currency":      "Currency",
		"wallet.balance":       "Balance",
		"wallet.delete":        "Delete wallet",
		"wallet.deleted":       "Wallet deleted",
		"wallet.created":       "Wallet created",
		"wallet.none":          "No wallets yet",
		"tx.add":               "Add transaction",
		"tx.type":              "Type",
		"tx.debit":             "Expense",
		"tx.credit":            "Income",
		"tx.category":          "Category",
		"tx.search":            "Search categories",
		"tx.subcategory":       "Subcategory",
		"tx.amount":            "Amount",
		"tx.date":              "Date",
		"tx.description":       "Description",
		"tx.delete":            "Delete",
		"tx.created":           "Transaction saved",
		"tx.deleted":           "Transaction deleted",
		"tx.recent":            "Recent transactions",
		"tx.none":              "No transactions yet",
		"import.title":         "Import CSV",
		"import.file":          "CSV file",
		"import.submit":        "Import",
		"import.done":          "transactions imported",
		"quickadd.title":       "Quick add",
		"quickadd.placeholder": "e.g. coffee 2.40 at the station bar",
		"quickadd.submit":      "Parse",
		"quickadd.confirm":     "Confirm",
		"quickadd.discard":     "Discard",
		"quickadd.confidence":  "Confidence",
		"cat.create":           "Create category",
		"cat.add_sub":          "Add subcategory",
		"cat.hide":             "Hide",
		"cat.restore":          "Restore",
		"cat.hidden":           "hidden",
		"cat.created":          "Category created",
		"cat.sub_created":      "Subcategory created",
		"cat.updated":          "Category updated",
		"report.title":         "Monthly report",
		"report.debits":        "Debits",
		"report.credits":       "Credits",
		"report.net":           "Net",
		"report.by_category":   "By category",
		"report.empty":         "No data for this month",
		"language":             "Language",
		"error.generic":        "Something went wrong",
		"error.unauthorized":   "Session expired, please log in again",
	},
	"it": {
		"app.title":            "Borsa",
		"nav.dashboard":        "Riepilogo",
		"nav.wallets":          "Portafogli",
		"nav.categories":       "Categorie",
		"nav.reports":          "Report",
		"nav.logout":           "Esci",
		"auth.login":           "Accedi",
		"auth.register":        "Registrati",
		"auth.username":        "Nome utente",
		"auth.email":           "Email",
		"auth.password":        "Password",
		"auth.failed":          "Nome utente o password non validi",
		"auth.registered":      "Account creato, ora puoi accedere",
		"wallet.create":        "Crea portafoglio",
		"wallet.name":          "Nome",
		"wallet.currency":      "Valuta",
		"wallet.balance":       "Saldo",
		"wallet.delete":        "Elimina portafoglio",
		"wallet.deleted":       "Portafoglio eliminato",
		"wallet.created":       "Portafoglio creato",
		"wallet.none":          "Nessun portafoglio",
		"tx.add":               "Aggiungi movimento",
		"tx.type":              "Tipo",
		"tx.debit":             "Spesa",
		"tx.credit":            "Entrata",
		"tx.category":          "Categoria",
		"tx.search":            "Cerca categorie",
		"tx.subcategory":       "Sottocategoria",
		"tx.amount":            "Importo",
		"tx.date":              "Data",
		"tx.description":       "Descrizione",
		"tx.delete":            "Elimina",
		"tx.created":           "Movimento salvato",
		"tx.deleted":           "Movimento eliminato",
		"tx.recent":            "Movimenti recenti",
		"tx.none":              "Nessun movimento",
		"import.title":         "Importa CSV",
		"import.file":          "File CSV",
		"import.submit":        "Importa",
		"import.done":          "movimenti importati",
		"quickadd.title":       "Aggiunta rapida",
		"quickadd.placeholder": "es. caffè 2,40 al bar della stazione",
		"quickadd.submit":      "Analizza",
		"quickadd.confirm":     "Conferma",
		"quickadd.discard":     "Annulla",
		"quickadd.confidence":  "Confidenza",
		"cat.create":           "Crea categoria",
		"cat.add_sub":          "Aggiungi sottocategoria",
		"cat.hide":             "Nascondi",
		"cat.restore":          "Ripristina",
		"cat.hidden":           "nascosta",
		"cat.created":          "Categoria creata",
		"cat.sub_created":      "Sottocategoria creata",
		"cat.updated":          "Categoria aggiornata",
		"report.title":         "Report mensile",
		"report.debits":        "Uscite",
		"report.credits":       "Entrate",
		"report.net":           "Netto",
		"report.by_category":   "Per categoria",
		"report.empty":         "Nessun dato per questo mese",
		"language":             "Lingua",
		"error.generic":        "Qualcosa è andato storto",
		"error.unauthorized":   "Sessione scaduta, accedi di nuovo",
	},
}
