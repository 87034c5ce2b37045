package handler

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/carbonjar/lms/internal/model"
)

// handlerMockDB implements core.DB for handler tests.
type handlerMockDB struct {
	mock.Mock
}

func (m *handlerMockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *handlerMockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *handlerMockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// handlerMockRow implements pgx.Row.
type handlerMockRow struct {
	scanFunc func(dest ...any) error
}

func (m *handlerMockRow) Scan(dest ...any) error {
	return m.scanFunc(dest...)
}

func rowErr(err error) *handlerMockRow {
	return &handlerMockRow{scanFunc: func(...any) error { return err }}
}

// handlerMockRows serves one scan function per row. The embedded pgx.Rows is
// nil; only the methods the services call are implemented.
type handlerMockRows struct {
	pgx.Rows
	idx   int
	scans []func(dest ...any) error
}

func (m *handlerMockRows) Next() bool { return m.idx < len(m.scans) }

func (m *handlerMockRows) Scan(dest ...any) error {
	fn := m.scans[m.idx]
	m.idx++
	return fn(dest...)
}

func (m *handlerMockRows) Err() error { return nil }

func (m *handlerMockRows) Close() {}

// certScan fills certificate scan targets in column order.
func certScan(c model.Certificate) func(dest ...any) error {
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

func certRow(c model.Certificate) *handlerMockRow {
	return &handlerMockRow{scanFunc: certScan(c)}
}

func testCertificate() model.Certificate {
	issued := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	pdf := "https://files.edgestore.dev/certificates/jane.pdf"
	return model.Certificate{
		ID:              validID,
		UserID:          "user-1",
		CourseID:        "course-1",
		HolderName:      "Jane Doe",
		Title:           "LCA Foundations",
		IssuerName:      "CarbonJar",
		IssuerRole:      "Head of Training",
		CourseStartDate: model.MustParseDate("2025-01-10"),
		CourseEndDate:   model.MustParseDate("2025-02-20"),
		IssueDate:       issued,
		CertificateCode: "4821",
		CertificateSlug: "jane-doe-lca-foundations",
		CertificateHash: "b0f1c2d3-e4f5-4a6b-8c7d-9e0f1a2b3c4d",
		PDFURL:          &pdf,
		CreatedAt:       issued,
		UpdatedAt:       issued,
	}
}
