package domain

// Taxon is a category or a genre: a named, slug-addressed label for titles.
type Taxon struct {
	ID   string
	Name string
	Slug string
}

// Title is a reviewable work.
type Title struct {
	ID           string
	Name         string
	Year         int
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

// TitleView is a Title with its references resolved and its rating computed.
type TitleView struct {
	Title
	Category *Taxon
	Genres   []Taxon
	// Rating is the average review score, nil while the title has no reviews.
	Rating *float64
}
