package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/obralink/cashbox-backend/internal/apperrors"
	"github.com/obralink/cashbox-backend/internal/core/domain"
	portsrepo "github.com/obralink/cashbox-backend/internal/core/ports/repositories"
	"github.com/obralink/cashbox-backend/internal/models"
	"github.com/obralink/cashbox-backend/internal/utils/mapping"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for cash-box account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, kind, project_id, name, last_movement_at, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccountRow(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Kind,
		&m.ProjectID,
		&m.Name,
		&m.LastMovementAt,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// loadBalances fetches the per-currency aggregate rows of one account.
func (r *PgxAccountRepository) loadBalances(ctx context.Context, accountID string) ([]models.AccountBalance, error) {
	query := `
		SELECT account_id, currency, balance, total_income, total_expenses
		FROM account_balances
		WHERE account_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances for account %s: %w", accountID, err)
	}
	defer rows.Close()

	balances := []models.AccountBalance{}
	for rows.Next() {
		var b models.AccountBalance
		if err := rows.Scan(&b.AccountID, &b.Currency, &b.Balance, &b.TotalIncome, &b.TotalExpenses); err != nil {
			return nil, fmt.Errorf("failed to scan balance row for account %s: %w", accountID, err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance rows for account %s: %w", accountID, err)
	}
	return balances, nil
}

func (r *PgxAccountRepository) findAccount(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	m, err := scanAccountRow(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	balances, err := r.loadBalances(ctx, m.AccountID)
	if err != nil {
		return nil, err
	}

	acc := mapping.ToDomainAccount(m, balances)
	return &acc, nil
}

// FindAccountByID retrieves an account with its per-currency aggregates.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := r.findAccount(ctx, query, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return acc, nil
}

// FindAccountByKind retrieves a singleton account (MASTER or ADMIN).
func (r *PgxAccountRepository) FindAccountByKind(ctx context.Context, kind domain.AccountKind) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE kind = $1 AND is_active = TRUE LIMIT 1;`
	acc, err := r.findAccount(ctx, query, string(kind))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find %s account: %w", kind, err)
	}
	return acc, nil
}

// FindAccountByProjectID retrieves the cash-box account of a project.
func (r *PgxAccountRepository) FindAccountByProjectID(ctx context.Context, projectID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE project_id = $1;`
	acc, err := r.findAccount(ctx, query, projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find account for project %s: %w", projectID, err)
	}
	return acc, nil
}

// ListAccounts retrieves every account, active and archived, with aggregates.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, account_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	modelAccounts := []models.Account{}
	for rows.Next() {
		m, err := scanAccountRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		modelAccounts = append(modelAccounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	accounts := make([]domain.Account, 0, len(modelAccounts))
	for _, m := range modelAccounts {
		balances, err := r.loadBalances(ctx, m.AccountID)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, mapping.ToDomainAccount(m, balances))
	}
	return accounts, nil
}

// SaveAccount inserts a new account together with zeroed balance rows for
// every supported currency, all in one transaction.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := saveAccountInTx(ctx, tx, account); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// saveAccountInTx inserts the account and its balance rows using the given
// transaction, so project creation can ride along.
func saveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	accountQuery := `
		INSERT INTO accounts (account_id, kind, project_id, name, last_movement_at, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, accountQuery,
		m.AccountID,
		m.Kind,
		m.ProjectID,
		m.Name,
		m.LastMovementAt,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}

	balanceQuery := `
		INSERT INTO account_balances (account_id, currency, balance, total_income, total_expenses)
		VALUES ($1, $2, $3, $4, $5);
	`
	batch := &pgx.Batch{}
	for _, c := range domain.SupportedCurrencies {
		batch.Queue(balanceQuery,
			m.AccountID,
			string(c),
			account.Balance.Get(c),
			account.TotalIncome.Get(c),
			account.TotalExpenses.Get(c),
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert balance rows for account %s: %w", m.AccountID, err)
	}
	return nil
}

// UpdateAccountAggregates overwrites the per-currency aggregates of an
// account, rederiving balance = income - expenses. Only the reconciliation
// correction path calls this.
func (r *PgxAccountRepository) UpdateAccountAggregates(ctx context.Context, accountID string, income, expenses domain.CurrencyAmounts, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.LockAccountBalancesForUpdate(ctx, tx, []string{accountID}, ""); err != nil {
		return err
	}

	query := `
		UPDATE account_balances
		SET total_income = $3, total_expenses = $4, balance = $3 - $4
		WHERE account_id = $1 AND currency = $2;
	`
	batch := &pgx.Batch{}
	for _, c := range domain.SupportedCurrencies {
		batch.Queue(query, accountID, string(c), income.Get(c), expenses.Get(c))
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to update aggregates for account %s: %w", accountID, err)
	}

	auditQuery := `
		UPDATE accounts
		SET last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1;
	`
	ct, err := tx.Exec(ctx, auditQuery, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to touch account %s: %w", accountID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// LockAccountBalancesForUpdate locks the balance rows of the given accounts
// and returns their current aggregates. Pass an empty currency to lock all
// currencies of each account. Must be called within a transaction.
func (r *PgxAccountRepository) LockAccountBalancesForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string, currency domain.Currency) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT account_id, currency, balance, total_income, total_expenses
		FROM account_balances
		WHERE account_id = ANY($1) AND ($2 = '' OR currency = $2)
		ORDER BY account_id, currency
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs, string(currency))
	if err != nil {
		return nil, fmt.Errorf("failed to lock balance rows: %w", err)
	}
	defer rows.Close()

	balancesByAccount := map[string][]models.AccountBalance{}
	for rows.Next() {
		var b models.AccountBalance
		if err := rows.Scan(&b.AccountID, &b.Currency, &b.Balance, &b.TotalIncome, &b.TotalExpenses); err != nil {
			return nil, fmt.Errorf("failed to scan locked balance row: %w", err)
		}
		balancesByAccount[b.AccountID] = append(balancesByAccount[b.AccountID], b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked balance rows: %w", err)
	}

	if len(balancesByAccount) != len(accountIDs) {
		missing := []string{}
		for _, id := range accountIDs {
			if _, ok := balancesByAccount[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("%w: could not lock balance rows for accounts %v", apperrors.ErrNotFound, missing)
	}

	accounts := make(map[string]domain.Account, len(balancesByAccount))
	for id, balances := range balancesByAccount {
		accounts[id] = mapping.ToDomainAccount(models.Account{AccountID: id}, balances)
	}
	return accounts, nil
}

// ApplyMovementInTx applies a movement's effect to the balance rows of the
// accounts it touches: income and balance up on the destination, expenses up
// and balance down on the source. Also bumps last_movement_at.
func (r *PgxAccountRepository) ApplyMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.Movement) error {
	incomeQuery := `
		UPDATE account_balances
		SET total_income = total_income + $3, balance = balance + $3
		WHERE account_id = $1 AND currency = $2;
	`
	expenseQuery := `
		UPDATE account_balances
		SET total_expenses = total_expenses + $3, balance = balance - $3
		WHERE account_id = $1 AND currency = $2;
	`
	touchQuery := `
		UPDATE accounts
		SET last_movement_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1;
	`

	apply := func(query string, accountID string) error {
		ct, err := tx.Exec(ctx, query, accountID, string(movement.Currency), movement.Amount)
		if err != nil {
			return fmt.Errorf("failed to apply movement %s to account %s: %w", movement.MovementID, accountID, err)
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("%w: no balance row for account %s currency %s", apperrors.ErrNotFound, accountID, movement.Currency)
		}
		if _, err := tx.Exec(ctx, touchQuery, accountID, movement.CreatedAt, movement.CreatedBy); err != nil {
			return fmt.Errorf("failed to touch account %s: %w", accountID, err)
		}
		return nil
	}

	if movement.DestinationAccountID != nil {
		if err := apply(incomeQuery, *movement.DestinationAccountID); err != nil {
			return err
		}
	}
	if movement.SourceAccountID != nil {
		if err := apply(expenseQuery, *movement.SourceAccountID); err != nil {
			return err
		}
	}
	return nil
}
