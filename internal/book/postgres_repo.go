package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const bookColumns = `id, title, author, isbn, category, published_year,
	total_copies, available_copies, created_at, updated_at`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// List pre-narrows in SQL. Callers still run Filter over the result, which
// stays authoritative for matching. Text criteria compare lower() on both
// sides, the same per-character folding Filter applies with strings.ToLower.
// Postgres takes its lower() table from the database locale, so a non-default
// locale such as tr_TR can still fold a few letters differently.
func (r *PostgresRepo) List(ctx context.Context, f Filters) ([]Book, error) {
	where, args := listWhere(f)

	query := fmt.Sprintf(`
		SELECT %s
		FROM books
		%s
		ORDER BY title ASC, id ASC`, bookColumns, where)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func listWhere(f Filters) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if s := criterion(f.Search); s != "" {
		clauses = append(clauses, fmt.Sprintf("(lower(title) LIKE lower($%d) OR lower(author) LIKE lower($%d))", argn, argn))
		args = append(args, likePattern(s))
		argn++
	}

	if c := criterion(f.Category); c != "" {
		clauses = append(clauses, fmt.Sprintf("category = $%d", argn))
		args = append(args, c)
		argn++
	}

	if a := criterion(f.Author); a != "" {
		clauses = append(clauses, fmt.Sprintf("lower(author) LIKE lower($%d)", argn))
		args = append(args, likePattern(a))
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM books
		WHERE id = $1
		LIMIT 1`, bookColumns)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		return Book{}, mapError(err)
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, d Draft) (Book, error) {
	query := fmt.Sprintf(`
		INSERT INTO books (title, author, isbn, category, published_year,
		                   total_copies, available_copies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s`, bookColumns)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query,
		d.Title, d.Author, d.ISBN, d.Category, d.PublishedYear,
		d.TotalCopies, d.AvailableCopies,
	))
	if err != nil {
		return Book{}, mapError(err)
	}
	return b, nil
}

// Update rewrites every editable column. The isbn column is never touched.
func (r *PostgresRepo) Update(ctx context.Context, id string, d Draft) (Book, error) {
	query := fmt.Sprintf(`
		UPDATE books SET
			title = $2,
			author = $3,
			category = $4,
			published_year = $5,
			total_copies = $6,
			available_copies = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, bookColumns)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query,
		id, d.Title, d.Author, d.Category, d.PublishedYear,
		d.TotalCopies, d.AvailableCopies,
	))
	if err != nil {
		return Book{}, mapError(err)
	}
	return b, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Category, &b.PublishedYear,
		&b.TotalCopies, &b.AvailableCopies, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return ErrDuplicateISBN
		case "22P02": // invalid_text_representation, e.g. a non-uuid id
			return ErrNotFound
		}
	}
	return err
}
