package publications

import (
	"database/sql"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const columns = `id, title, author, IFNULL(description,''), category, IFNULL(cover_image_url,''), IFNULL(file_url,''), page_count, preview_page_count, views_count, is_published, created_at, updated_at`

func scanPublication(row interface{ Scan(...any) error }) (*Publication, error) {
	var p Publication
	if err := row.Scan(&p.ID, &p.Title, &p.Author, &p.Description, &p.Category, &p.CoverImageURL, &p.FileURL,
		&p.PageCount, &p.PreviewPageCount, &p.ViewsCount, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ListPublished returns published documents, newest first, optionally
// filtered by category.
func (r *Repository) ListPublished(category Category) ([]Publication, error) {
	query := `SELECT ` + columns + ` FROM publications WHERE is_published=1`
	args := []any{}
	if category != "" {
		query += ` AND category=?`
		args = append(args, string(category))
	}
	query += ` ORDER BY created_at DESC`
	return r.list(query, args...)
}

// ListAll returns every record, for the admin table.
func (r *Repository) ListAll() ([]Publication, error) {
	return r.list(`SELECT ` + columns + ` FROM publications ORDER BY created_at DESC`)
}

func (r *Repository) list(query string, args ...any) ([]Publication, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	pubs := []Publication{}
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, *p)
	}
	return pubs, rows.Err()
}

func (r *Repository) GetByID(id string) (*Publication, error) {
	row := r.db.QueryRow(`SELECT `+columns+` FROM publications WHERE id=? LIMIT 1`, id)
	return scanPublication(row)
}

// GetPublishedByID returns the record only when it is published.
func (r *Repository) GetPublishedByID(id string) (*Publication, error) {
	row := r.db.QueryRow(`SELECT `+columns+` FROM publications WHERE id=? AND is_published=1 LIMIT 1`, id)
	return scanPublication(row)
}

func (r *Repository) Create(p *Publication) error {
	_, err := r.db.Exec(
		`INSERT INTO publications (id, title, author, description, category, cover_image_url, file_url, page_count, preview_page_count, is_published)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Title, p.Author, p.Description, string(p.Category), p.CoverImageURL, p.FileURL, p.PageCount, p.PreviewPageCount, p.IsPublished,
	)
	return err
}

func (r *Repository) Update(p *Publication) error {
	_, err := r.db.Exec(
		`UPDATE publications SET title=?, author=?, description=?, category=?, cover_image_url=?, file_url=?, page_count=?, preview_page_count=?, is_published=?, updated_at=NOW() WHERE id=?`,
		p.Title, p.Author, p.Description, string(p.Category), p.CoverImageURL, p.FileURL, p.PageCount, p.PreviewPageCount, p.IsPublished, p.ID,
	)
	return err
}

func (r *Repository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM publications WHERE id=?`, id)
	return err
}

// IncrementViews bumps the view counter by one.
func (r *Repository) IncrementViews(id string) error {
	_, err := r.db.Exec(`UPDATE publications SET views_count = views_count + 1 WHERE id=?`, id)
	return err
}

// CategoryCount pairs a category with its published document count.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// CountsByCategory returns every known category with its published count,
// including zeroes.
func (r *Repository) CountsByCategory() ([]CategoryCount, error) {
	rows, err := r.db.Query(`SELECT category, COUNT(1) FROM publications WHERE is_published=1 GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	found := map[Category]int{}
	for rows.Next() {
		var c Category
		var n int
		if err := rows.Scan(&c, &n); err != nil {
			return nil, err
		}
		found[c] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	counts := []CategoryCount{}
	for _, c := range allCategories {
		counts = append(counts, CategoryCount{Category: c, Count: found[c]})
	}
	return counts, nil
}
