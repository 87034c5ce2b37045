package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carbonjar/lms/internal/metrics"
	"github.com/carbonjar/lms/internal/model"
	"github.com/carbonjar/lms/internal/platform"
)

const certificateColumns = `id, user_id, course_id, holder_name, title, description, issuer_name, issuer_role,
	course_start_date, course_end_date, issue_date, valid_until, certificate_code, certificate_slug,
	certificate_hash, pdf_url, is_revoked, revoked_reason, created_at, updated_at`

const (
	codeConstraint  = "certificates_certificate_code_key"
	maxCodeAttempts = 5
)

// CertificateFilter narrows List. Empty fields are ignored.
type CertificateFilter struct {
	UserID   string
	CourseID string
	// Revoked, when set, keeps only revoked (true) or unrevoked (false) rows.
	Revoked *bool
	// Search matches holder name, title or code, case-insensitively.
	Search string
}

type CertificateService struct {
	db  DB
	now func() time.Time
}

func NewCertificateService(db DB) *CertificateService {
	return &CertificateService{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create builds a certificate from in and persists it. Validation failures
// return before the database is touched.
func (s *CertificateService) Create(ctx context.Context, in CertificateInput) (*model.Certificate, error) {
	cert, err := BuildCertificate(in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.Issue(ctx, cert); err != nil {
		return nil, err
	}
	return cert, nil
}

// Issue inserts a built certificate. A collision on the certificate code
// draws a fresh code and retries, up to maxCodeAttempts inserts.
func (s *CertificateService) Issue(ctx context.Context, cert *model.Certificate) error {
	for attempt := 1; ; attempt++ {
		err := s.insert(ctx, cert)
		if err == nil {
			metrics.CertificatesIssued.Inc()
			return nil
		}
		if !isCodeCollision(err) || attempt >= maxCodeAttempts {
			return fmt.Errorf("insert certificate: %w", err)
		}
		cert.CertificateCode = platform.NewCode()
	}
}

func (s *CertificateService) insert(ctx context.Context, c *model.Certificate) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO certificates (`+certificateColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		c.ID, c.UserID, c.CourseID, c.HolderName, c.Title, c.Description, c.IssuerName, c.IssuerRole,
		c.CourseStartDate, c.CourseEndDate, c.IssueDate, c.ValidUntil, c.CertificateCode, c.CertificateSlug,
		c.CertificateHash, c.PDFURL, c.IsRevoked, c.RevokedReason, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func isCodeCollision(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == codeConstraint
}

// GetByID returns ErrNotFound for ids that are not UUIDs without querying;
// the id column would reject them at encode time.
func (s *CertificateService) GetByID(ctx context.Context, id string) (*model.Certificate, error) {
	if !platform.IsUUID(id) {
		return nil, fmt.Errorf("get certificate %s: %w", id, ErrNotFound)
	}
	c, err := scanCertificate(s.db.QueryRow(ctx,
		`SELECT `+certificateColumns+` FROM certificates WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get certificate %s: %w", id, err)
	}
	return c, nil
}

// Lookup resolves a credential by UUID, code or slug, revoked or not.
func (s *CertificateService) Lookup(ctx context.Context, key string) (*model.Certificate, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("lookup credential: %w", ErrNotFound)
	}
	if platform.IsUUID(key) {
		return s.GetByID(ctx, key)
	}
	c, err := scanCertificate(s.db.QueryRow(ctx,
		`SELECT `+certificateColumns+` FROM certificates
		 WHERE certificate_code = $1 OR certificate_slug = $1
		 ORDER BY issue_date DESC LIMIT 1`, key))
	if err != nil {
		return nil, fmt.Errorf("lookup credential %s: %w", key, err)
	}
	return c, nil
}

// FindPublicBySlug returns the newest non-revoked certificate with slug.
// Revoked and unknown slugs both yield ErrNotFound.
func (s *CertificateService) FindPublicBySlug(ctx context.Context, slug string) (*model.Certificate, error) {
	c, err := scanCertificate(s.db.QueryRow(ctx,
		`SELECT `+certificateColumns+` FROM certificates
		 WHERE certificate_slug = $1 AND is_revoked = false
		 ORDER BY issue_date DESC LIMIT 1`, slug))
	if err != nil {
		return nil, fmt.Errorf("find certificate by slug %s: %w", slug, err)
	}
	return c, nil
}

func (s *CertificateService) ListByUser(ctx context.Context, userID string, limit int, cursor string) ([]model.Certificate, bool, error) {
	return s.List(ctx, CertificateFilter{UserID: userID}, limit, cursor)
}

func (s *CertificateService) List(ctx context.Context, filter CertificateFilter, limit int, cursor string) ([]model.Certificate, bool, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE true`
	var args []any
	argIdx := 1

	if filter.UserID != "" {
		query += fmt.Sprintf(` AND user_id = $%d`, argIdx)
		args = append(args, filter.UserID)
		argIdx++
	}
	if filter.CourseID != "" {
		query += fmt.Sprintf(` AND course_id = $%d`, argIdx)
		args = append(args, filter.CourseID)
		argIdx++
	}
	if filter.Revoked != nil {
		query += fmt.Sprintf(` AND is_revoked = $%d`, argIdx)
		args = append(args, *filter.Revoked)
		argIdx++
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query += fmt.Sprintf(` AND (holder_name ILIKE $%d OR title ILIKE $%d OR certificate_code = $%d)`, argIdx, argIdx+1, argIdx+2)
		pattern := "%" + escapeLike(search) + "%"
		args = append(args, pattern, pattern, search)
		argIdx += 3
	}
	if cursor != "" {
		query += fmt.Sprintf(` AND id > $%d`, argIdx)
		args = append(args, cursor)
		argIdx++
	}

	query += ` ORDER BY id`
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()

	var certs []model.Certificate
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, false, fmt.Errorf("scan certificate: %w", err)
		}
		certs = append(certs, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate certificates: %w", err)
	}

	hasMore := len(certs) > limit
	if hasMore {
		certs = certs[:limit]
	}
	return certs, hasMore, nil
}

// maxUpdateAttempts bounds retries when a concurrent write changes the row
// between read and update.
const maxUpdateAttempts = 3

// Update applies patch to the stored certificate and returns the result.
// Only the columns the patch names are written, and the write is guarded by
// the updated_at that was read, so a concurrent change is re-read and the
// patch re-applied rather than overwritten.
func (s *CertificateService) Update(ctx context.Context, id string, patch CertificatePatch) (*model.Certificate, error) {
	if patch.Empty() {
		return s.GetByID(ctx, id)
	}
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		current, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("update certificate: %w", err)
		}

		query, args := updateStatement(*current, ApplyUpdate(*current, patch), patch)
		if query == "" {
			return current, nil
		}

		updated, err := scanCertificate(s.db.QueryRow(ctx, query, args...))
		if errors.Is(err, ErrNotFound) {
			// Changed or deleted since the read; the next GetByID tells which.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("update certificate %s: %w", id, err)
		}

		if !current.IsRevoked && updated.IsRevoked {
			metrics.CertificatesRevoked.Inc()
		}
		return updated, nil
	}
	return nil, fmt.Errorf("update certificate %s: %w", id, ErrConflict)
}

// updateStatement builds an UPDATE for the columns patch touches, taking
// values from next. It returns an empty query when nothing would change.
func updateStatement(current, next model.Certificate, patch CertificatePatch) (string, []any) {
	var sets []string
	args := []any{current.ID, current.UpdatedAt}
	argIdx := 3

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if patch.IsRevoked != nil {
		set("is_revoked", next.IsRevoked)
	}
	if patch.IsRevoked != nil || patch.RevokedReason.Set {
		set("revoked_reason", next.RevokedReason)
	}
	if patch.Title != nil {
		set("title", next.Title)
	}
	if patch.Description != nil {
		set("description", next.Description)
	}
	if patch.PDFURL != nil {
		set("pdf_url", next.PDFURL)
	}
	if patch.ValidUntil.Set {
		set("valid_until", next.ValidUntil)
	}

	if len(sets) == 0 {
		return "", nil
	}
	query := `UPDATE certificates SET ` + strings.Join(sets, ", ") + `, updated_at = now()
		 WHERE id = $1 AND updated_at = $2
		 RETURNING ` + certificateColumns
	return query, args
}

// SetPDFURL points the certificate at a newly stored document.
func (s *CertificateService) SetPDFURL(ctx context.Context, id, pdfURL string) (*model.Certificate, error) {
	if !platform.IsUUID(id) {
		return nil, fmt.Errorf("set pdf url for certificate %s: %w", id, ErrNotFound)
	}
	c, err := scanCertificate(s.db.QueryRow(ctx,
		`UPDATE certificates SET pdf_url = $2, updated_at = now() WHERE id = $1
		 RETURNING `+certificateColumns, id, pdfURL))
	if err != nil {
		return nil, fmt.Errorf("set pdf url for certificate %s: %w", id, err)
	}
	return c, nil
}

// Delete removes the certificate and returns its last state, or nil when no
// row matched.
func (s *CertificateService) Delete(ctx context.Context, id string) (*model.Certificate, error) {
	if !platform.IsUUID(id) {
		return nil, nil
	}
	c, err := scanCertificate(s.db.QueryRow(ctx,
		`DELETE FROM certificates WHERE id = $1 RETURNING `+certificateColumns, id))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete certificate %s: %w", id, err)
	}
	return c, nil
}

// escapeLike escapes LIKE wildcards so s matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

func scanCertificate(row pgx.Row) (*model.Certificate, error) {
	var c model.Certificate
	err := row.Scan(&c.ID, &c.UserID, &c.CourseID, &c.HolderName, &c.Title, &c.Description,
		&c.IssuerName, &c.IssuerRole, &c.CourseStartDate, &c.CourseEndDate, &c.IssueDate,
		&c.ValidUntil, &c.CertificateCode, &c.CertificateSlug, &c.CertificateHash, &c.PDFURL,
		&c.IsRevoked, &c.RevokedReason, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
