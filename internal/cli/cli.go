// Package cli holds the operator commands of crewbookctl. Each command runs
// one piece of background maintenance or tooling on demand.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/crewbook/crewbook-backend-go/internal/domain/report"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/jwt"
)

// Migrator applies pending schema migrations.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// CompanyLister lists every company that owns data.
type CompanyLister interface {
	ListCompanyIDs(ctx context.Context) ([]string, error)
}

// Context is passed to every command's Run method.
type Context struct {
	Ctx         context.Context
	Out         io.Writer
	JWT         jwt.Service
	Migrator    Migrator
	Companies   CompanyLister
	Reports     report.ReportService
	Maintenance report.MaintenanceService
}

// CLI is the command tree parsed by kong.
type CLI struct {
	Version kong.VersionFlag `help:"Print the version."`

	Migrate       MigrateCmd       `cmd:"" help:"Apply database migrations."`
	RefreshCaches RefreshCachesCmd `cmd:"" help:"Recompute client display caches."`
	SweepOverdue  SweepOverdueCmd  `cmd:"" help:"List receivables that became overdue recently."`
	ExportSummary ExportSummaryCmd `cmd:"" help:"Render the summary report of one company as PDF."`
	Token         TokenCmd         `cmd:"" help:"Mint an access token for local testing."`
}

// NeedsDatabase reports whether the selected command talks to Postgres.
func NeedsDatabase(command string) bool {
	return command != "token"
}

func (c *Context) companies(only string) ([]string, error) {
	if only != "" {
		return []string{only}, nil
	}
	ids, err := c.Companies.ListCompanyIDs(c.Ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return ids, nil
}

type MigrateCmd struct{}

func (m *MigrateCmd) Run(c *Context) error {
	if err := c.Migrator.Migrate(c.Ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.Out, "Migrations applied")
	return nil
}

type RefreshCachesCmd struct {
	Company string `help:"Only refresh this company." placeholder:"UUID"`
}

func (r *RefreshCachesCmd) Run(c *Context) error {
	ids, err := c.companies(r.Company)
	if err != nil {
		return err
	}

	var total int64
	for _, id := range ids {
		n, err := c.Maintenance.RefreshClientCaches(c.Ctx, id)
		if err != nil {
			return fmt.Errorf("company %s: %w", id, err)
		}
		fmt.Fprintf(c.Out, "%s\t%d clients\n", id, n)
		total += n
	}
	fmt.Fprintf(c.Out, "Refreshed %d clients in %d companies\n", total, len(ids))
	return nil
}

type SweepOverdueCmd struct {
	Company string        `help:"Only sweep this company." placeholder:"UUID"`
	Since   time.Duration `help:"Look back this far." default:"24h"`
}

func (s *SweepOverdueCmd) Run(c *Context) error {
	ids, err := c.companies(s.Company)
	if err != nil {
		return err
	}

	until := time.Now()
	since := until.Add(-s.Since)
	count := 0
	for _, id := range ids {
		overdue, err := c.Maintenance.NewlyOverdue(c.Ctx, id, since, until)
		if err != nil {
			return fmt.Errorf("company %s: %w", id, err)
		}
		for _, r := range overdue {
			fmt.Fprintf(c.Out, "%s\t%s\t%s\tdue %s\t%s\n", id, r.ScheduleID, r.ClientName, r.DueDate, r.Amount.StringFixed(0))
			count++
		}
	}
	fmt.Fprintf(c.Out, "%d newly overdue receivables\n", count)
	return nil
}

type ExportSummaryCmd struct {
	Company string `required:"" help:"Company to report on." placeholder:"UUID"`
	Period  string `help:"week, month, year or custom." default:"month" enum:"week,month,year,custom"`
	Start   string `help:"Custom period start (YYYY-MM-DD)."`
	End     string `help:"Custom period end (YYYY-MM-DD)."`
	Output  string `short:"o" help:"Output file. Defaults to the suggested file name."`
}

func (e *ExportSummaryCmd) Run(c *Context) error {
	ctx, err := jwt.NewClaimsContext(c.Ctx, jwt.Claims{UserID: "crewbookctl", CompanyID: e.Company})
	if err != nil {
		return err
	}

	body, fileName, err := c.Reports.ExportSummaryPDF(ctx, report.ReportRequest{
		Period: e.Period,
		Start:  e.Start,
		End:    e.End,
	})
	if err != nil {
		return err
	}

	path := e.Output
	if path == "" {
		path = fileName
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(c.Out, "Wrote %s (%d bytes)\n", path, len(body))
	return nil
}

type TokenCmd struct {
	User    string        `required:"" help:"User ID (sub claim)."`
	Company string        `required:"" help:"Company ID." placeholder:"UUID"`
	Role    string        `help:"Role claim." default:"owner" enum:"owner,manager,staff"`
	TTL     time.Duration `help:"Token lifetime." default:"1h"`
}

func (t *TokenCmd) Run(c *Context) error {
	token, _, err := c.JWT.GenerateAccessToken(t.User, t.Company, t.Role, t.TTL)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}
	fmt.Fprintln(c.Out, token)
	return nil
}
