package models

// Classifier is a named, slug-addressed bucket for titles. Categories and
// genres share the shape and differ only in how titles reference them.
type Classifier struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type (
	Category = Classifier
	Genre    = Classifier
)

// Title is a work that reviews are written about. Rating is the average
// review score truncated to an integer, nil until the first review arrives.
type Title struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Rating      *int      `json:"rating"`
	Description string    `json:"description"`
	Genre       []Genre   `json:"genre"`
	Category    *Category `json:"category"`
}

// TitleFilter narrows title listings. Empty fields are ignored.
type TitleFilter struct {
	Category string
	Genre    string
	Name     string
	Year     int
}

// TitleWrite is the write-side representation of a title: relations are
// given by slug. Nil fields are left unchanged on update.
type TitleWrite struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre"`
	Category    *string   `json:"category"`
}
