package templates

// NavItem is one entry of the layout navigation.
type NavItem struct {
	Label  string
	Path   string
	Active bool
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// PageContext provides shared layout context for admin pages.
type PageContext struct {
	Lang        string
	Loc         Localizer
	CurrentPath string
	// Title is already localized.
	Title     string
	Nav       []NavItem
	Languages []LanguageOption
}
