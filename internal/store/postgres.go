package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/weddingdesk/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

var _ Store = (*PostgresStore)(nil)

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Accounts ---

func (s *PostgresStore) GetDefaultAccount(ctx context.Context) (*models.Account, error) {
	var a models.Account
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM accounts WHERE name = 'default' LIMIT 1`,
	).Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get default account: %w", err)
	}
	return &a, nil
}

// --- API Keys ---

const apiKeyColumns = `id, account_id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at`

func scanAPIKeys(rows pgx.Rows) ([]*models.APIKey, error) {
	defer rows.Close()
	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.AccountID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api key by prefix: %w", err)
	}
	return scanAPIKeys(rows)
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_keys (id, account_id, name, key_hash, key_prefix, scopes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		key.ID, key.AccountID, key.Name, key.KeyHash, key.KeyPrefix, key.Scopes, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAPIKeys(ctx context.Context, accountID uuid.UUID) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE account_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	return scanAPIKeys(rows)
}

func (s *PostgresStore) RevokeAPIKey(ctx context.Context, id uuid.UUID, accountID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND account_id = $2 AND deleted_at IS NULL`, id, accountID)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Vendor Access ---

func (s *PostgresStore) CreateAccessCredential(ctx context.Context, cred *models.AccessCredential) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO vendor_access (id, vendor_id, access_token, password_hash, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		cred.ID, cred.VendorID, cred.AccessToken, cred.PasswordHash, cred.ExpiresAt, cred.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create access credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetActiveAccessCredential(ctx context.Context, token string, now time.Time) (*models.AccessCredential, error) {
	var c models.AccessCredential
	err := s.pool.QueryRow(ctx,
		`SELECT id, vendor_id, access_token, password_hash, expires_at, created_at
		 FROM vendor_access WHERE access_token = $1 AND expires_at > $2
		 ORDER BY expires_at DESC LIMIT 1`, token, now,
	).Scan(&c.ID, &c.VendorID, &c.AccessToken, &c.PasswordHash, &c.ExpiresAt, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get access credential: %w", err)
	}
	return &c, nil
}

// --- Table Templates ---

const templateColumns = `id, name, shape, base_width, base_length, seat_count, is_predefined, owner_id, created_at`

func scanTemplate(row pgx.Row, t *models.TableTemplate) error {
	return row.Scan(&t.ID, &t.Name, &t.Shape, &t.BaseWidth, &t.BaseLength, &t.SeatCount,
		&t.IsPredefined, &t.OwnerID, &t.CreatedAt)
}

func (s *PostgresStore) GetTableTemplate(ctx context.Context, id, ownerID uuid.UUID) (*models.TableTemplate, error) {
	var t models.TableTemplate
	err := scanTemplate(s.pool.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM table_templates
		 WHERE id = $1 AND (is_predefined OR owner_id = $2)`, id, ownerID), &t)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get table template: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) ListTableTemplates(ctx context.Context, ownerID uuid.UUID) ([]*models.TableTemplate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+templateColumns+` FROM table_templates
		 WHERE is_predefined OR owner_id = $1
		 ORDER BY is_predefined DESC, name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list table templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.TableTemplate
	for rows.Next() {
		var t models.TableTemplate
		if err := scanTemplate(rows, &t); err != nil {
			return nil, fmt.Errorf("scan table template: %w", err)
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

// --- Seating Tables ---

const tableColumns = `id, name, seat_count, shape, width, length, position_x, position_y, rotation, template_id, owner_id, created_at, updated_at`

func scanTable(row pgx.Row, t *models.Table) error {
	return row.Scan(&t.ID, &t.Name, &t.SeatCount, &t.Shape, &t.Width, &t.Length,
		&t.PositionX, &t.PositionY, &t.Rotation, &t.TemplateID, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
}

func (s *PostgresStore) CreateTable(ctx context.Context, t *models.Table) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO seating_tables (`+tableColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		t.ID, t.Name, t.SeatCount, t.Shape, t.Width, t.Length, t.PositionX, t.PositionY,
		t.Rotation, t.TemplateID, t.OwnerID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTable(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.Table, error) {
	var t models.Table
	err := scanTable(s.pool.QueryRow(ctx,
		`SELECT `+tableColumns+` FROM seating_tables WHERE id = $1 AND owner_id = $2`, id, ownerID), &t)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get table: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) ListTables(ctx context.Context, ownerID uuid.UUID) ([]*models.Table, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+tableColumns+` FROM seating_tables WHERE owner_id = $1 ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []*models.Table
	for rows.Next() {
		var t models.Table
		if err := scanTable(rows, &t); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, &t)
	}
	return tables, rows.Err()
}

// DeleteTable removes a table; its chairs go with it via ON DELETE CASCADE.
func (s *PostgresStore) DeleteTable(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM seating_tables WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Chairs ---

// CreateChairs inserts all chairs in a single batch.
func (s *PostgresStore) CreateChairs(ctx context.Context, chairs []*models.Chair) error {
	if len(chairs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range chairs {
		batch.Queue(
			`INSERT INTO table_chairs (id, table_id, position, angle, guest_id, owner_id, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.ID, c.TableID, c.Position, c.Angle, c.GuestID, c.OwnerID, c.CreatedAt)
	}

	br := s.pool.SendBatch(ctx, batch)
	for range chairs {
		if _, err := br.Exec(); err != nil {
			br.Close()
			if isDuplicateKeyError(err) {
				return ErrDuplicateKey
			}
			return fmt.Errorf("create chairs: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("create chairs: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListChairs(ctx context.Context, tableID uuid.UUID, ownerID uuid.UUID) ([]*models.Chair, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, table_id, position, angle, guest_id, owner_id, created_at
		 FROM table_chairs WHERE table_id = $1 AND owner_id = $2 ORDER BY position`, tableID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list chairs: %w", err)
	}
	defer rows.Close()

	var chairs []*models.Chair
	for rows.Next() {
		var c models.Chair
		if err := rows.Scan(&c.ID, &c.TableID, &c.Position, &c.Angle, &c.GuestID, &c.OwnerID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chair: %w", err)
		}
		chairs = append(chairs, &c)
	}
	return chairs, rows.Err()
}

// --- Vendors ---

func (s *PostgresStore) GetVendorProfile(ctx context.Context, id uuid.UUID) (*models.VendorProfile, error) {
	var v models.VendorProfile
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, category, description, email, phone, website, pricing, availability, team, created_at, updated_at
		 FROM vendors WHERE id = $1`, id,
	).Scan(&v.ID, &v.Name, &v.Category, &v.Description, &v.Email, &v.Phone, &v.Website,
		&v.Pricing, &v.Availability, &v.Team, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vendor profile: %w", err)
	}
	return &v, nil
}

func (s *PostgresStore) UpdateVendorProfile(ctx context.Context, v *models.VendorProfile) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE vendors SET name = $2, category = $3, description = $4, email = $5, phone = $6,
		   website = $7, pricing = $8, availability = $9, team = $10, updated_at = $11
		 WHERE id = $1`,
		v.ID, v.Name, v.Category, v.Description, v.Email, v.Phone, v.Website,
		v.Pricing, v.Availability, v.Team, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update vendor profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
