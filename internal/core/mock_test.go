package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/carbonjar/lms/internal/model"
)

// mockDB records queries issued through DB.
type mockDB struct {
	mock.Mock
}

func (m *mockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// row is a single-row pgx.Row backed by a scan function.
type row func(dest ...any) error

func (f row) Scan(dest ...any) error { return f(dest...) }

func errRow(err error) row {
	return func(...any) error { return err }
}

// certificateRows serves a fixed list of certificates in order. Only the
// methods the services call are implemented; the embedded interface is nil.
type certificateRows struct {
	pgx.Rows
	certs  []model.Certificate
	next   int
	closed bool
	err    error
}

func newCertificateRows(certs ...model.Certificate) *certificateRows {
	return &certificateRows{certs: certs}
}

func (r *certificateRows) Next() bool {
	if r.closed || r.next >= len(r.certs) {
		return false
	}
	r.next++
	return true
}

func (r *certificateRows) Scan(dest ...any) error {
	return scanInto(r.certs[r.next-1])(dest...)
}

func (r *certificateRows) Err() error { return r.err }

func (r *certificateRows) Close() { r.closed = true }

// scanInto fills the certificate scan targets in column order.
func scanInto(c model.Certificate) func(dest ...any) error {
	return func(dest ...any) error {
		*(dest[0].(*string)) = c.ID
		*(dest[1].(*string)) = c.UserID
		*(dest[2].(*string)) = c.CourseID
		*(dest[3].(*string)) = c.HolderName
		*(dest[4].(*string)) = c.Title
		*(dest[5].(**string)) = c.Description
		*(dest[6].(*string)) = c.IssuerName
		*(dest[7].(*string)) = c.IssuerRole
		*(dest[8].(*model.Date)) = c.CourseStartDate
		*(dest[9].(*model.Date)) = c.CourseEndDate
		*(dest[10].(*time.Time)) = c.IssueDate
		*(dest[11].(**model.Date)) = c.ValidUntil
		*(dest[12].(*string)) = c.CertificateCode
		*(dest[13].(*string)) = c.CertificateSlug
		*(dest[14].(*string)) = c.CertificateHash
		*(dest[15].(**string)) = c.PDFURL
		*(dest[16].(*bool)) = c.IsRevoked
		*(dest[17].(**string)) = c.RevokedReason
		*(dest[18].(*time.Time)) = c.CreatedAt
		*(dest[19].(*time.Time)) = c.UpdatedAt
		return nil
	}
}

func certRow(c model.Certificate) row {
	return row(scanInto(c))
}

func sampleCertificate() model.Certificate {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return model.Certificate{
		ID:              "3f0c8f4e-5b7a-4a57-9d3c-1f2e3d4c5b6a",
		UserID:          "user-1",
		CourseID:        "course-1",
		HolderName:      "Jane Doe",
		Title:           "LCA Foundations",
		IssuerName:      IssuerName,
		IssuerRole:      IssuerRole,
		CourseStartDate: model.MustParseDate("2025-01-10"),
		CourseEndDate:   model.MustParseDate("2025-02-20"),
		IssueDate:       now,
		CertificateCode: "4821",
		CertificateSlug: "jane-doe-lca-foundations",
		CertificateHash: "b0f1c2d3-e4f5-4a6b-8c7d-9e0f1a2b3c4d",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
