// Package bundesland lists the German federal states used as chat channels
// and organizer regions.
package bundesland

// State is one federal state
type State struct {
	Slug string
	Name string
}

// All holds the 16 states in alphabetical order of their names
var All = []State{
	{Slug: "baden-wuerttemberg", Name: "Baden-Württemberg"},
	{Slug: "bayern", Name: "Bayern"},
	{Slug: "berlin", Name: "Berlin"},
	{Slug: "brandenburg", Name: "Brandenburg"},
	{Slug: "bremen", Name: "Bremen"},
	{Slug: "hamburg", Name: "Hamburg"},
	{Slug: "hessen", Name: "Hessen"},
	{Slug: "mecklenburg-vorpommern", Name: "Mecklenburg-Vorpommern"},
	{Slug: "niedersachsen", Name: "Niedersachsen"},
	{Slug: "nordrhein-westfalen", Name: "Nordrhein-Westfalen"},
	{Slug: "rheinland-pfalz", Name: "Rheinland-Pfalz"},
	{Slug: "saarland", Name: "Saarland"},
	{Slug: "sachsen", Name: "Sachsen"},
	{Slug: "sachsen-anhalt", Name: "Sachsen-Anhalt"},
	{Slug: "schleswig-holstein", Name: "Schleswig-Holstein"},
	{Slug: "thueringen", Name: "Thüringen"},
}

var bySlug = func() map[string]State {
	m := make(map[string]State, len(All))
	for _, s := range All {
		m[s.Slug] = s
	}
	return m
}()

// Valid reports whether slug names a state
func Valid(slug string) bool {
	_, ok := bySlug[slug]
	return ok
}

// Name returns the display name for slug, or slug itself when unknown
func Name(slug string) string {
	if s, ok := bySlug[slug]; ok {
		return s.Name
	}
	return slug
}
