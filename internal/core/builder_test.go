package core

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonjar/lms/internal/model"
)

func strPtr(s string) *string { return &s }

func validInput() CertificateInput {
	return CertificateInput{
		UserID:          "user-1",
		CourseID:        "course-1",
		HolderName:      "Jane Doe",
		Title:           "LCA Foundations",
		CourseStartDate: "2025-01-10",
		CourseEndDate:   "2025-02-20",
	}
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestBuildCertificate_Success(t *testing.T) {
	cert, err := BuildCertificate(validInput(), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "jane-doe-lca-foundations", cert.CertificateSlug)
	assert.Regexp(t, regexp.MustCompile(`^\d{4}$`), cert.CertificateCode)
	assert.NotEmpty(t, cert.CertificateHash)
	assert.NotEmpty(t, cert.ID)
	assert.Equal(t, IssuerName, cert.IssuerName)
	assert.Equal(t, IssuerRole, cert.IssuerRole)
	assert.Equal(t, fixedNow, cert.IssueDate)
	assert.Nil(t, cert.ValidUntil)
	assert.Nil(t, cert.Description)
	assert.Nil(t, cert.PDFURL)
	assert.False(t, cert.IsRevoked)
	assert.Nil(t, cert.RevokedReason)
}

func TestBuildCertificate_DistinctHashes(t *testing.T) {
	a, err := BuildCertificate(validInput(), fixedNow)
	require.NoError(t, err)
	b, err := BuildCertificate(validInput(), fixedNow)
	require.NoError(t, err)

	assert.NotEqual(t, a.CertificateHash, b.CertificateHash)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.CertificateSlug, b.CertificateSlug)
}

func TestBuildCertificate_DatesRoundTrip(t *testing.T) {
	for _, pair := range [][2]string{
		{"2024-01-01", "2024-12-31"},
		{"2024-02-29", "2024-03-01"},
		{"1999-07-04", "2030-11-15"},
	} {
		in := validInput()
		in.CourseStartDate = pair[0]
		in.CourseEndDate = pair[1]

		cert, err := BuildCertificate(in, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, pair[0], cert.CourseStartDate.String())
		assert.Equal(t, pair[1], cert.CourseEndDate.String())
	}
}

func TestBuildCertificate_IgnoresTimeSuffix(t *testing.T) {
	in := validInput()
	in.CourseStartDate = "2025-01-10T23:59:59Z"
	in.CourseEndDate = "2025-02-20 08:00"

	cert, err := BuildCertificate(in, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", cert.CourseStartDate.String())
	assert.Equal(t, "2025-02-20", cert.CourseEndDate.String())
}

func TestBuildCertificate_MissingFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*CertificateInput)
	}{
		{"user_id", func(in *CertificateInput) { in.UserID = "" }},
		{"course_id", func(in *CertificateInput) { in.CourseID = "" }},
		{"holder_name", func(in *CertificateInput) { in.HolderName = "   " }},
		{"title", func(in *CertificateInput) { in.Title = "" }},
		{"course_start_date", func(in *CertificateInput) { in.CourseStartDate = "" }},
		{"course_end_date", func(in *CertificateInput) { in.CourseEndDate = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			cert, err := BuildCertificate(in, fixedNow)
			assert.Nil(t, cert)
			require.ErrorIs(t, err, ErrMissingRequiredField)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, ReasonMissingField, ve.Reason)
		})
	}
}

func TestBuildCertificate_InvalidDates(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		mutate func(*CertificateInput)
	}{
		{"start garbage", "course_start_date", func(in *CertificateInput) { in.CourseStartDate = "next monday" }},
		{"start impossible", "course_start_date", func(in *CertificateInput) { in.CourseStartDate = "2025-02-30" }},
		{"end wrong order", "course_end_date", func(in *CertificateInput) { in.CourseEndDate = "20-02-2025" }},
		{"valid until garbage", "valid_until", func(in *CertificateInput) { in.ValidUntil = strPtr("forever") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			cert, err := BuildCertificate(in, fixedNow)
			assert.Nil(t, cert)
			require.ErrorIs(t, err, ErrInvalidDateFormat)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, ReasonInvalidDate, ve.Reason)
		})
	}
}

func TestBuildCertificate_IssueDate(t *testing.T) {
	tests := []struct {
		name  string
		issue *string
		want  time.Time
	}{
		{"absent", nil, fixedNow},
		{"blank", strPtr(" "), fixedNow},
		{"rfc3339", strPtr("2025-02-21T09:30:00+02:00"), time.Date(2025, 2, 21, 7, 30, 0, 0, time.UTC)},
		{"date only", strPtr("2025-02-21"), time.Date(2025, 2, 21, 0, 0, 0, 0, time.UTC)},
		{"unparseable", strPtr("yesterday"), fixedNow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.IssueDate = tt.issue

			cert, err := BuildCertificate(in, fixedNow)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(cert.IssueDate), "got %s", cert.IssueDate)
		})
	}
}

func TestBuildCertificate_OptionalFields(t *testing.T) {
	in := validInput()
	in.Description = strPtr("  Life-cycle assessment basics ")
	in.ValidUntil = strPtr("2027-03-01")
	in.PDFURL = strPtr("https://files.edgestore.dev/certs/jane.pdf")

	cert, err := BuildCertificate(in, fixedNow)
	require.NoError(t, err)
	require.NotNil(t, cert.Description)
	assert.Equal(t, "Life-cycle assessment basics", *cert.Description)
	require.NotNil(t, cert.ValidUntil)
	assert.Equal(t, "2027-03-01", cert.ValidUntil.String())
	require.NotNil(t, cert.PDFURL)
	assert.Equal(t, "https://files.edgestore.dev/certs/jane.pdf", *cert.PDFURL)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-30T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-30", d.String())

	_, err = ParseDate("June 30")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = ParseDate("2024-13-01")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestNormalizeDate(t *testing.T) {
	ts := time.Date(2024, 6, 30, 22, 0, 0, 0, time.UTC)
	s := "2024-06-30"

	for _, v := range []any{s, &s, ts, &ts, model.MustParseDate(s)} {
		d, err := NormalizeDate(v)
		require.NoError(t, err, "%T", v)
		assert.Equal(t, s, d.String())
	}

	for _, v := range []any{nil, 42, time.Time{}, (*time.Time)(nil), (*string)(nil), model.Date{}} {
		_, err := NormalizeDate(v)
		assert.ErrorIs(t, err, ErrInvalidDateFormat, "%T", v)
	}
}
