package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/akinalp/kulup/models"
	"github.com/akinalp/kulup/pkg"
)

// sqliteMemberRepo, MemberRepository interface'inin SQLite implementasyonu.
type sqliteMemberRepo struct {
	db *sql.DB
}

// NewSQLiteMemberRepo, constructor — interface döner (Dependency Inversion).
func NewSQLiteMemberRepo(db *sql.DB) MemberRepository {
	return &sqliteMemberRepo{db: db}
}

func (r *sqliteMemberRepo) Create(ctx context.Context, member *models.Member) error {
	query := `
		INSERT INTO member (name, email, contact_number, password_hash, email_verified)
		VALUES (?, ?, ?, ?, 0)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		member.Name,
		member.Email,
		member.ContactNumber,
		member.PasswordHash,
	).Scan(&member.ID, &member.CreatedAt)

	if err != nil {
		// UNIQUE constraint violation → email veya contact zaten kayıtlı.
		// Duplicate kontrolü service'te yapılır ama iki eşzamanlı kayıt
		// arasındaki yarışı son noktada unique index yakalar.
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email or contact number already registered", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create member: %w", err)
	}

	return nil
}

func (r *sqliteMemberRepo) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	query := `
		SELECT id, name, email, contact_number, password_hash, email_verified, refresh_token, created_at
		FROM member WHERE id = ?`

	return r.scanMember(r.db.QueryRowContext(ctx, query, id))
}

func (r *sqliteMemberRepo) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	query := `
		SELECT id, name, email, contact_number, password_hash, email_verified, refresh_token, created_at
		FROM member WHERE email = ?`

	return r.scanMember(r.db.QueryRowContext(ctx, query, email))
}

func (r *sqliteMemberRepo) GetByEmailOrContact(ctx context.Context, email, contact string) (*models.Member, error) {
	query := `
		SELECT id, name, email, contact_number, password_hash, email_verified, refresh_token, created_at
		FROM member WHERE email = ? OR contact_number = ?`

	return r.scanMember(r.db.QueryRowContext(ctx, query, email, contact))
}

func (r *sqliteMemberRepo) SetEmailVerified(ctx context.Context, id int64) error {
	// Koşulsuz UPDATE — zaten doğrulanmış üyede no-op, hata üretmez
	// (idempotent verify-email bu davranışa dayanır).
	if _, err := r.db.ExecContext(ctx,
		"UPDATE member SET email_verified = 1 WHERE id = ?", id,
	); err != nil {
		return fmt.Errorf("failed to set email verified: %w", err)
	}
	return nil
}

func (r *sqliteMemberRepo) UpdateRefreshToken(ctx context.Context, id int64, token string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE member SET refresh_token = ? WHERE id = ?", token, id,
	); err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	return nil
}

// RotateRefreshToken — koşullu güncelleme: satır yalnızca mevcut token
// oldToken ile eşleşiyorsa yazılır. İki eşzamanlı refresh'ten yalnızca
// biri satırı etkiler; diğeri false alır. Kilide gerek yoktur — atomiklik
// tek UPDATE statement'ının kendisinden gelir.
func (r *sqliteMemberRepo) RotateRefreshToken(ctx context.Context, id int64, oldToken, newToken string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE member SET refresh_token = ? WHERE id = ? AND refresh_token = ?",
		newToken, id, oldToken,
	)
	if err != nil {
		return false, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rotation result: %w", err)
	}

	return affected == 1, nil
}

// scanMember, tek satırlık member sorgusunun sonucunu modele aktarır.
func (r *sqliteMemberRepo) scanMember(row *sql.Row) (*models.Member, error) {
	member := &models.Member{}
	var verified int

	err := row.Scan(
		&member.ID, &member.Name, &member.Email, &member.ContactNumber,
		&member.PasswordHash, &verified, &member.RefreshToken, &member.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}

	member.EmailVerified = verified != 0
	return member, nil
}

// isUniqueViolation, SQLite unique constraint hatasını tanır.
// modernc.org/sqlite yapısal hata tipi dışarı açmaz — mesaj kontrolü
// pratikte güvenilir yöntemdir.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
