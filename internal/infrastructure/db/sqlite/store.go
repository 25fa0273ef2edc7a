// Package sqlite provides the SQLite-backed store of the reference backend.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/russiantown/portal/internal/backend"
	"github.com/russiantown/portal/internal/core/domain"
)

//go:embed schema.sql
var schema string

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store persists users and posts in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ backend.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) domain.Timestamp {
	return domain.Timestamp{Time: time.UnixMilli(value).UTC()}
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := MemoryPath
	if path != MemoryPath {
		dsn = filepath.Clean(path)
	}
	dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == MemoryPath {
		// Every connection would get its own empty database.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

const userColumns = `id, username, role, faction, custom_role, status, avatar, is_banned, is_muted, created_at`

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Store) ListPosts(ctx context.Context) ([]domain.Post, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT p.id, p.title, p.content, p.created_at, u.username, u.avatar
		FROM posts p
		JOIN users u ON p.user_id = u.id
		ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var (
			p         domain.Post
			createdAt int64
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &createdAt, &p.Author, &p.AuthorAvatar); err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
		p.CreatedAt = fromMillis(createdAt)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *Store) CreateUser(ctx context.Context, nu backend.NewUser) (domain.User, error) {
	createdAt := toMillis(s.now())
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role, created_at) VALUES (?, ?, ?, ?)`,
		nu.Username, nu.PasswordHash, string(nu.Role), createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, backend.ErrUserExists
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return domain.User{
		ID:        id,
		Username:  nu.Username,
		Role:      nu.Role,
		CreatedAt: fromMillis(createdAt),
	}, nil
}

func (s *Store) FindAccount(ctx context.Context, username string) (backend.Account, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+userColumns+`, password_hash FROM users WHERE username = ?`, username)

	var (
		u         domain.User
		role      string
		createdAt int64
		hash      string
	)
	err := row.Scan(&u.ID, &u.Username, &role, &u.Faction, &u.CustomRole, &u.Status,
		&u.Avatar, &u.IsBanned, &u.IsMuted, &createdAt, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return backend.Account{}, domain.ErrUserNotFound
	}
	if err != nil {
		return backend.Account{}, fmt.Errorf("find account: %w", err)
	}
	u.Role = domain.Role(role)
	u.CreatedAt = fromMillis(createdAt)
	return backend.Account{User: u, PasswordHash: hash}, nil
}

// UpdateUser applies patch in one statement.
func (s *Store) UpdateUser(ctx context.Context, id int64, patch backend.UserPatch) error {
	var (
		sets []string
		args []any
	)
	if patch.Role != nil {
		sets, args = append(sets, "role = ?"), append(args, string(*patch.Role))
	}
	if patch.Faction != nil {
		sets, args = append(sets, "faction = ?"), append(args, *patch.Faction)
	}
	if patch.Avatar != nil {
		sets, args = append(sets, "avatar = ?"), append(args, *patch.Avatar)
	}
	if patch.IsBanned != nil {
		sets, args = append(sets, "is_banned = ?"), append(args, *patch.IsBanned)
	}
	if patch.IsMuted != nil {
		sets, args = append(sets, "is_muted = ?"), append(args, *patch.IsMuted)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return expectOne(res)
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectOne(res)
}

func (s *Store) CreatePost(ctx context.Context, userID int64, title, content string) (int64, error) {
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO posts (user_id, title, content, created_at)
		 SELECT id, ?, ?, ? FROM users WHERE id = ?`,
		title, content, toMillis(s.now()), userID)
	if err != nil {
		return 0, fmt.Errorf("create post: %w", err)
	}
	if err := expectOne(res); err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create post: %w", err)
	}
	return id, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (domain.User, error) {
	var (
		u         domain.User
		role      string
		createdAt int64
	)
	if err := row.Scan(&u.ID, &u.Username, &role, &u.Faction, &u.CustomRole, &u.Status,
		&u.Avatar, &u.IsBanned, &u.IsMuted, &createdAt); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}

// expectOne maps "no row affected" to domain.ErrUserNotFound.
func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
