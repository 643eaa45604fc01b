package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/crewbook/crewbook-backend-go/internal/domain/report"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompanies struct{ ids []string }

func (f fakeCompanies) ListCompanyIDs(ctx context.Context) ([]string, error) { return f.ids, nil }

type fakeMigrator struct{ called bool }

func (f *fakeMigrator) Migrate(ctx context.Context) error {
	f.called = true
	return nil
}

type fakeMaintenance struct {
	refreshed []string
	since     time.Duration
}

func (f *fakeMaintenance) RefreshClientCaches(ctx context.Context, companyID string) (int64, error) {
	if companyID == "broken" {
		return 0, errors.New("boom")
	}
	f.refreshed = append(f.refreshed, companyID)
	return 3, nil
}

func (f *fakeMaintenance) NewlyOverdue(ctx context.Context, companyID string, since, until time.Time) ([]report.Receivable, error) {
	f.since = until.Sub(since)
	return []report.Receivable{{ScheduleID: "s-1", ClientName: "Acme", DueDate: "2025-03-17", Amount: decimal.NewFromInt(300000)}}, nil
}

type fakeReports struct {
	report.ReportService
	company string
	req     report.ReportRequest
}

func (f *fakeReports) ExportSummaryPDF(ctx context.Context, req report.ReportRequest) ([]byte, string, error) {
	claims, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return nil, "", err
	}
	f.company = claims.CompanyID
	f.req = req
	return []byte("%PDF-1.3"), "summary-2025-03.pdf", nil
}

func run(t *testing.T, c *Context, args ...string) error {
	t.Helper()
	var root CLI
	parser, err := kong.New(&root, kong.Name("crewbookctl"), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run(c)
}

func newContext() (*Context, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Context{
		Ctx:         context.Background(),
		Out:         out,
		JWT:         jwt.NewJWTService("cli-secret", 0),
		Migrator:    &fakeMigrator{},
		Companies:   fakeCompanies{ids: []string{"c-1", "c-2"}},
		Reports:     &fakeReports{},
		Maintenance: &fakeMaintenance{},
	}, out
}

func TestMigrate(t *testing.T) {
	c, out := newContext()
	require.NoError(t, run(t, c, "migrate"))
	assert.True(t, c.Migrator.(*fakeMigrator).called)
	assert.Contains(t, out.String(), "Migrations applied")
}

func TestRefreshCaches(t *testing.T) {
	c, out := newContext()
	require.NoError(t, run(t, c, "refresh-caches"))
	assert.Equal(t, []string{"c-1", "c-2"}, c.Maintenance.(*fakeMaintenance).refreshed)
	assert.Contains(t, out.String(), "Refreshed 6 clients in 2 companies")

	c, _ = newContext()
	require.NoError(t, run(t, c, "refresh-caches", "--company", "c-9"))
	assert.Equal(t, []string{"c-9"}, c.Maintenance.(*fakeMaintenance).refreshed)

	c, _ = newContext()
	assert.Error(t, run(t, c, "refresh-caches", "--company", "broken"))
}

func TestSweepOverdue(t *testing.T) {
	c, out := newContext()
	require.NoError(t, run(t, c, "sweep-overdue", "--company", "c-1", "--since", "48h"))
	assert.Equal(t, 48*time.Hour, c.Maintenance.(*fakeMaintenance).since)
	assert.Contains(t, out.String(), "s-1\tAcme\tdue 2025-03-17\t300000")
	assert.Contains(t, out.String(), "1 newly overdue receivables")
}

func TestExportSummary(t *testing.T) {
	c, out := newContext()
	path := filepath.Join(t.TempDir(), "out.pdf")

	require.NoError(t, run(t, c, "export-summary", "--company", "c-1", "--period", "year", "-o", path))
	reports := c.Reports.(*fakeReports)
	assert.Equal(t, "c-1", reports.company)
	assert.Equal(t, "year", reports.req.Period)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF-"))
	assert.Contains(t, out.String(), "Wrote "+path)
}

func TestExportSummary_RejectsUnknownPeriod(t *testing.T) {
	c, _ := newContext()
	assert.Error(t, run(t, c, "export-summary", "--company", "c-1", "--period", "decade"))
}

func TestToken(t *testing.T) {
	c, out := newContext()
	require.NoError(t, run(t, c, "token", "--user", "u-1", "--company", "c-1", "--role", "manager"))

	token, err := jwtauth.VerifyToken(c.JWT.JWTAuth(), strings.TrimSpace(out.String()))
	require.NoError(t, err)
	role, ok := token.Get("role")
	require.True(t, ok)
	assert.Equal(t, "manager", role)
	assert.Equal(t, "u-1", token.Subject())
}

func TestNeedsDatabase(t *testing.T) {
	assert.False(t, NeedsDatabase("token"))
	assert.True(t, NeedsDatabase("migrate"))
}
