package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crewbook/crewbook-backend-go/internal/domain/client"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type clientRepositoryImpl struct {
	db *database.DB
}

func NewClientRepository(db *database.DB) client.ClientRepository {
	return &clientRepositoryImpl{db: db}
}

const clientColumns = `
	id, company_id, name, contact_name, phone, email, bank_name, bank_account,
	total_revenue, unpaid_amount, cached_at, created_at, updated_at`

func scanClient(row pgx.Row) (client.Client, error) {
	var c client.Client
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.ContactName, &c.Phone, &c.Email, &c.BankName, &c.BankAccount,
		&c.TotalRevenue, &c.UnpaidAmount, &c.CachedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *clientRepositoryImpl) ListClients(ctx context.Context, companyID string) ([]client.Client, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+clientColumns+`
		FROM clients
		WHERE company_id = $1 AND deleted_at IS NULL
		ORDER BY name, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []client.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (r *clientRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (client.Client, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanClient(q.QueryRow(ctx, `SELECT `+clientColumns+`
		FROM clients
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`, id, companyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return client.Client{}, client.ErrClientNotFound
	}
	if err != nil {
		return client.Client{}, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

// UpdateDisplayCaches writes all caches of a company in one statement.
func (r *clientRepositoryImpl) UpdateDisplayCaches(ctx context.Context, companyID string, caches []client.DisplayCache, at time.Time) (int64, error) {
	if len(caches) == 0 {
		return 0, nil
	}

	ids := make([]string, len(caches))
	totals := make([]string, len(caches))
	unpaid := make([]string, len(caches))
	for i, c := range caches {
		ids[i] = c.ClientID
		totals[i] = c.TotalRevenue.String()
		unpaid[i] = c.UnpaidAmount.String()
	}

	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE clients c
		SET total_revenue = v.total::numeric,
		    unpaid_amount = v.unpaid::numeric,
		    cached_at = $2
		FROM unnest($3::text[], $4::text[], $5::text[]) AS v(id, total, unpaid)
		WHERE c.id = v.id::uuid AND c.company_id = $1`,
		companyID, at, ids, totals, unpaid,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update client caches: %w", err)
	}
	return tag.RowsAffected(), nil
}
