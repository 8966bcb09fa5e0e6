package publications

import "time"

// Category of a publication. Matches the library's four content types.
type Category string

const (
	CategoryLivre   Category = "livre"
	CategoryMemoire Category = "memoire"
	CategoryTFC     Category = "tfc"
	CategoryArticle Category = "article"
)

var allCategories = []Category{CategoryLivre, CategoryMemoire, CategoryTFC, CategoryArticle}

func (c Category) Valid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Publication is a document record in the library. The access gate protects
// its file_url; everything else is public metadata.
type Publication struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	Category      Category  `json:"category"`
	CoverImageURL string    `json:"cover_image_url"`
	FileURL       string    `json:"file_url"`
	PageCount     int       `json:"page_count"`
	// PreviewPageCount is the cutoff for preview-only rendering: the
	// leading 20% of pages, precomputed at upload time.
	PreviewPageCount int       `json:"preview_page_count"`
	ViewsCount       int       `json:"views_count"`
	IsPublished      bool      `json:"is_published"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
