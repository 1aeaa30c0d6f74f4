package postgresengine

// schemaStatements are idempotent. The partial unique index on loans is the backstop for
// "at most one active loan per member and book".
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS members (
		member_id  BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name  TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		phone      TEXT,
		join_date  DATE NOT NULL DEFAULT CURRENT_DATE
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		category_id   BIGSERIAL PRIMARY KEY,
		category_name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		book_id          BIGSERIAL PRIMARY KEY,
		title            TEXT NOT NULL,
		isbn             TEXT NOT NULL UNIQUE,
		published_year   INTEGER,
		category_id      BIGINT REFERENCES categories (category_id) ON DELETE SET NULL,
		copies_available INTEGER NOT NULL DEFAULT 1 CHECK (copies_available >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS authors (
		author_id  BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS book_authors (
		book_id   BIGINT NOT NULL REFERENCES books (book_id) ON DELETE CASCADE,
		author_id BIGINT NOT NULL REFERENCES authors (author_id) ON DELETE CASCADE,
		PRIMARY KEY (book_id, author_id)
	)`,
	`CREATE TABLE IF NOT EXISTS loans (
		loan_id     BIGSERIAL PRIMARY KEY,
		member_id   BIGINT NOT NULL REFERENCES members (member_id) ON DELETE CASCADE,
		book_id     BIGINT NOT NULL REFERENCES books (book_id) ON DELETE CASCADE,
		loan_date   DATE NOT NULL DEFAULT CURRENT_DATE,
		due_date    DATE NOT NULL,
		return_date DATE
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS loans_one_active_per_member_book
		ON loans (member_id, book_id) WHERE return_date IS NULL`,
	`CREATE INDEX IF NOT EXISTS loans_book_id_idx ON loans (book_id)`,
	`CREATE INDEX IF NOT EXISTS books_category_id_idx ON books (category_id)`,
	`CREATE INDEX IF NOT EXISTS book_authors_author_id_idx ON book_authors (author_id)`,
}
