package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/crewbook/crewbook-backend-go/internal/domain/worker"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workerRepositoryImpl struct {
	db *database.DB
}

func NewWorkerRepository(db *database.DB) worker.WorkerRepository {
	return &workerRepositoryImpl{db: db}
}

const workerColumns = `
	id, company_id, name, phone, default_hourly_wage, withholding,
	default_fuel_allowance, default_other_allowance, bank_name, bank_account,
	created_at, updated_at`

func scanWorker(row pgx.Row) (worker.Worker, error) {
	var w worker.Worker
	err := row.Scan(
		&w.ID, &w.CompanyID, &w.Name, &w.Phone, &w.DefaultHourlyWage, &w.Withholding,
		&w.DefaultFuelAllowance, &w.DefaultOtherAllowance, &w.BankName, &w.BankAccount,
		&w.CreatedAt, &w.UpdatedAt,
	)
	return w, err
}

func (r *workerRepositoryImpl) ListWorkers(ctx context.Context, companyID string) ([]worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+workerColumns+`
		FROM workers
		WHERE company_id = $1 AND deleted_at IS NULL
		ORDER BY name, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	defer rows.Close()

	var workers []worker.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, nil
}

func (r *workerRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	w, err := scanWorker(q.QueryRow(ctx, `SELECT `+workerColumns+`
		FROM workers
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`, id, companyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return worker.Worker{}, worker.ErrWorkerNotFound
	}
	if err != nil {
		return worker.Worker{}, fmt.Errorf("failed to get worker: %w", err)
	}
	return w, nil
}
