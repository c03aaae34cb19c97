/*
Package sqlite provides the SQLite-backed implementation of crm.Store.

PURPOSE:
  Persists clients, policies, global policy templates, tasks, and settings.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  clients:          Clients with pipeline stage
  policies:         Client-bound policy records (nullable money columns)
  global_policies:  Reusable templates
  tasks:            Follow-ups and system-created renewal reminders
  settings:         Single-row advisor settings

NULLABILITY:
  Nullable domain fields (Amount, *int, *time.Time) map to genuinely NULL
  columns. Money is stored as decimal strings, never floats, so nothing is
  lost in transit.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block and crash recovery is cleaner.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. With PostgreSQL, database-level
  concurrency control would handle this instead.

USAGE:
  st, err := sqlite.New("./data/advisorhub.db")
  if err != nil { log.Fatal(err) }
  defer st.Close()

SEE ALSO:
  - crm/store.go: Interface definition
  - crm/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/isaacchua0309/advisor-wealth-hub-sub000/crm"
	"github.com/isaacchua0309/advisor-wealth-hub-sub000/policy"
)

// Store implements crm.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ crm.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		pipeline_stage TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_clients_stage ON clients(pipeline_stage);

	CREATE TABLE IF NOT EXISTS policies (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		policy_name TEXT NOT NULL,
		policy_type TEXT NOT NULL,
		provider TEXT,
		policy_number TEXT,
		premium TEXT,
		value TEXT,
		payment_structure_type TEXT NOT NULL,
		commission_rate TEXT,
		first_year_commission TEXT,
		annual_ongoing_commission TEXT,
		policy_duration INTEGER,
		commission_duration INTEGER,
		start_date TEXT,
		end_date TEXT,
		status TEXT,
		global_policy_id TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_policies_client ON policies(client_id);
	CREATE INDEX IF NOT EXISTS idx_policies_start_date ON policies(start_date);
	CREATE INDEX IF NOT EXISTS idx_policies_status ON policies(status);

	CREATE TABLE IF NOT EXISTS global_policies (
		id TEXT PRIMARY KEY,
		policy_name TEXT NOT NULL,
		policy_type TEXT NOT NULL,
		provider TEXT,
		payment_structure_type TEXT NOT NULL,
		premium TEXT,
		value TEXT,
		first_year_commission_rate TEXT,
		ongoing_commission_rate TEXT,
		policy_duration INTEGER,
		commission_duration INTEGER,
		start_date TEXT,
		end_date TEXT,
		status TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		client_id TEXT,
		policy_id TEXT,
		title TEXT NOT NULL,
		description TEXT,
		task_type TEXT NOT NULL,
		due_date TEXT,
		completed BOOLEAN DEFAULT FALSE,
		reference TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_client ON tasks(client_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_date);

	-- One reminder per policy per renewal date
	CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_reference
		ON tasks(policy_id, reference)
		WHERE reference IS NOT NULL AND reference != '';

	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		advisor_name TEXT,
		projection_years INTEGER NOT NULL,
		renewal_lead_days INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// NULL CONVERSION HELPERS
// =============================================================================

const dateLayout = "2006-01-02"

func amountToNull(a policy.Amount) sql.NullString {
	if !a.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: a.Value.String(), Valid: true}
}

func amountFromNull(ns sql.NullString) policy.Amount {
	if !ns.Valid {
		return policy.NullAmount()
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return policy.NullAmount()
	}
	return policy.NewAmountFromDecimal(d)
}

func intToNull(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intFromNull(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	n := int(ni.Int64)
	return &n
}

func dateToNull(p *time.Time) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: p.UTC().Format(dateLayout), Valid: true}
}

func dateFromNull(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, ns.String)
	if err != nil {
		return nil
	}
	return &t
}

func statusToNull(p *policy.Status) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p), Valid: true}
}

func statusFromNull(ns sql.NullString) *policy.Status {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	st := policy.Status(ns.String)
	return &st
}

func strToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func strPtrToNull(p *string) sql.NullString {
	if p == nil || *p == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func strPtrFromNull(ns sql.NullString) *string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	s := ns.String
	return &s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// =============================================================================
// CLIENTS
// =============================================================================

func (s *Store) SaveClient(ctx context.Context, c *crm.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO clients (id, name, email, phone, pipeline_stage, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			phone = excluded.phone,
			pipeline_stage = excluded.pipeline_stage,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.Name, strToNull(c.Email), strToNull(c.Phone),
		string(c.PipelineStage), strToNull(c.Notes),
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

const clientColumns = `id, name, email, phone, pipeline_stage, notes, created_at, updated_at`

func scanClient(row interface{ Scan(...any) error }) (*crm.Client, error) {
	var (
		c                    crm.Client
		email, phone, notes  sql.NullString
		createdAt, updatedAt string
		stage                string
	)
	if err := row.Scan(&c.ID, &c.Name, &email, &phone, &stage, &notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Phone = phone.String
	c.Notes = notes.String
	c.PipelineStage = crm.PipelineStage(stage)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}

func (s *Store) GetClient(ctx context.Context, id string) (*crm.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, policy.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]*crm.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*crm.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return policy.ErrClientNotFound
	}
	// Foreign key cascade covers policies; tasks reference clients loosely.
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE client_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete client tasks: %w", err)
	}
	return tx.Commit()
}

// =============================================================================
// POLICIES
// =============================================================================

func (s *Store) SavePolicy(ctx context.Context, p *policy.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO policies
		(id, client_id, policy_name, policy_type, provider, policy_number,
		 premium, value, payment_structure_type, commission_rate,
		 first_year_commission, annual_ongoing_commission,
		 policy_duration, commission_duration, start_date, end_date,
		 status, global_policy_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client_id = excluded.client_id,
			policy_name = excluded.policy_name,
			policy_type = excluded.policy_type,
			provider = excluded.provider,
			policy_number = excluded.policy_number,
			premium = excluded.premium,
			value = excluded.value,
			payment_structure_type = excluded.payment_structure_type,
			commission_rate = excluded.commission_rate,
			first_year_commission = excluded.first_year_commission,
			annual_ongoing_commission = excluded.annual_ongoing_commission,
			policy_duration = excluded.policy_duration,
			commission_duration = excluded.commission_duration,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			status = excluded.status,
			global_policy_id = excluded.global_policy_id,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.ClientID, p.PolicyName, p.PolicyType,
		strToNull(p.Provider), strToNull(p.PolicyNumber),
		amountToNull(p.Premium), amountToNull(p.Value),
		string(p.PaymentStructureType), amountToNull(p.CommissionRate),
		amountToNull(p.FirstYearCommission), amountToNull(p.AnnualOngoingCommission),
		intToNull(p.PolicyDuration), intToNull(p.CommissionDuration),
		dateToNull(p.StartDate), dateToNull(p.EndDate),
		statusToNull(p.Status), strPtrToNull(p.GlobalPolicyID),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save policy: %w", err)
	}
	return nil
}

const policyColumns = `id, client_id, policy_name, policy_type, provider, policy_number,
	premium, value, payment_structure_type, commission_rate,
	first_year_commission, annual_ongoing_commission,
	policy_duration, commission_duration, start_date, end_date,
	status, global_policy_id, created_at, updated_at`

func scanPolicy(row interface{ Scan(...any) error }) (*policy.Policy, error) {
	var (
		p                                    policy.Policy
		provider, policyNumber               sql.NullString
		premium, value, rate                 sql.NullString
		firstYear, ongoing                   sql.NullString
		policyDuration, commissionDuration   sql.NullInt64
		startDate, endDate, status, globalID sql.NullString
		structure, createdAt, updatedAt      string
	)
	if err := row.Scan(
		&p.ID, &p.ClientID, &p.PolicyName, &p.PolicyType, &provider, &policyNumber,
		&premium, &value, &structure, &rate,
		&firstYear, &ongoing,
		&policyDuration, &commissionDuration, &startDate, &endDate,
		&status, &globalID, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	p.Provider = provider.String
	p.PolicyNumber = policyNumber.String
	p.Premium = amountFromNull(premium)
	p.Value = amountFromNull(value)
	p.PaymentStructureType = policy.PaymentStructure(structure)
	p.CommissionRate = amountFromNull(rate)
	p.FirstYearCommission = amountFromNull(firstYear)
	p.AnnualOngoingCommission = amountFromNull(ongoing)
	p.PolicyDuration = intFromNull(policyDuration)
	p.CommissionDuration = intFromNull(commissionDuration)
	p.StartDate = dateFromNull(startDate)
	p.EndDate = dateFromNull(endDate)
	p.Status = statusFromNull(status)
	p.GlobalPolicyID = strPtrFromNull(globalID)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

func (s *Store) GetPolicy(ctx context.Context, id string) (*policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+policyColumns+` FROM policies WHERE id = ?`, id)
	p, err := scanPolicy(row)
	if err == sql.ErrNoRows {
		return nil, policy.ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}
	return p, nil
}

func (s *Store) listPolicies(ctx context.Context, query string, args ...any) ([]*policy.Policy, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	defer rows.Close()

	var policies []*policy.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

func (s *Store) ListPolicies(ctx context.Context) ([]*policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listPolicies(ctx, `SELECT `+policyColumns+` FROM policies ORDER BY policy_name, id`)
}

func (s *Store) ListPoliciesByClient(ctx context.Context, clientID string) ([]*policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listPolicies(ctx, `SELECT `+policyColumns+` FROM policies WHERE client_id = ? ORDER BY policy_name, id`, clientID)
}

func (s *Store) DeletePolicy(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM policies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete policy: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return policy.ErrPolicyNotFound
	}
	return nil
}

// =============================================================================
// GLOBAL POLICIES
// =============================================================================

func (s *Store) SaveGlobalPolicy(ctx context.Context, g *policy.GlobalPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO global_policies
		(id, policy_name, policy_type, provider, payment_structure_type,
		 premium, value, first_year_commission_rate, ongoing_commission_rate,
		 policy_duration, commission_duration, start_date, end_date, status,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			policy_name = excluded.policy_name,
			policy_type = excluded.policy_type,
			provider = excluded.provider,
			payment_structure_type = excluded.payment_structure_type,
			premium = excluded.premium,
			value = excluded.value,
			first_year_commission_rate = excluded.first_year_commission_rate,
			ongoing_commission_rate = excluded.ongoing_commission_rate,
			policy_duration = excluded.policy_duration,
			commission_duration = excluded.commission_duration,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			status = excluded.status,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		g.ID, g.PolicyName, g.PolicyType, strToNull(g.Provider),
		string(g.PaymentStructureType),
		amountToNull(g.Premium), amountToNull(g.Value),
		amountToNull(g.FirstYearCommissionRate), amountToNull(g.OngoingCommissionRate),
		intToNull(g.PolicyDuration), intToNull(g.CommissionDuration),
		dateToNull(g.StartDate), dateToNull(g.EndDate), statusToNull(g.Status),
		formatTime(g.CreatedAt), formatTime(g.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save global policy: %w", err)
	}
	return nil
}

const globalPolicyColumns = `id, policy_name, policy_type, provider, payment_structure_type,
	premium, value, first_year_commission_rate, ongoing_commission_rate,
	policy_duration, commission_duration, start_date, end_date, status,
	created_at, updated_at`

func scanGlobalPolicy(row interface{ Scan(...any) error }) (*policy.GlobalPolicy, error) {
	var (
		g                                   policy.GlobalPolicy
		provider                            sql.NullString
		premium, value, fyRate, ongoingRate sql.NullString
		policyDuration, commissionDuration  sql.NullInt64
		startDate, endDate, status          sql.NullString
		structure, createdAt, updatedAt     string
	)
	if err := row.Scan(
		&g.ID, &g.PolicyName, &g.PolicyType, &provider, &structure,
		&premium, &value, &fyRate, &ongoingRate,
		&policyDuration, &commissionDuration, &startDate, &endDate, &status,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	g.Provider = provider.String
	g.PaymentStructureType = policy.PaymentStructure(structure)
	g.Premium = amountFromNull(premium)
	g.Value = amountFromNull(value)
	g.FirstYearCommissionRate = amountFromNull(fyRate)
	g.OngoingCommissionRate = amountFromNull(ongoingRate)
	g.PolicyDuration = intFromNull(policyDuration)
	g.CommissionDuration = intFromNull(commissionDuration)
	g.StartDate = dateFromNull(startDate)
	g.EndDate = dateFromNull(endDate)
	g.Status = statusFromNull(status)
	g.CreatedAt = parseTime(createdAt)
	g.UpdatedAt = parseTime(updatedAt)
	return &g, nil
}

func (s *Store) GetGlobalPolicy(ctx context.Context, id string) (*policy.GlobalPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+globalPolicyColumns+` FROM global_policies WHERE id = ?`, id)
	g, err := scanGlobalPolicy(row)
	if err == sql.ErrNoRows {
		return nil, policy.ErrGlobalPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get global policy: %w", err)
	}
	return g, nil
}

func (s *Store) ListGlobalPolicies(ctx context.Context) ([]*policy.GlobalPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+globalPolicyColumns+` FROM global_policies ORDER BY policy_name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list global policies: %w", err)
	}
	defer rows.Close()

	var globals []*policy.GlobalPolicy
	for rows.Next() {
		g, err := scanGlobalPolicy(rows)
		if err != nil {
			return nil, err
		}
		globals = append(globals, g)
	}
	return globals, rows.Err()
}

func (s *Store) DeleteGlobalPolicy(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM global_policies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete global policy: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return policy.ErrGlobalPolicyNotFound
	}
	return nil
}

// =============================================================================
// TASKS
// =============================================================================

func (s *Store) SaveTask(ctx context.Context, t *crm.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO tasks
		(id, client_id, policy_id, title, description, task_type, due_date,
		 completed, reference, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client_id = excluded.client_id,
			policy_id = excluded.policy_id,
			title = excluded.title,
			description = excluded.description,
			task_type = excluded.task_type,
			due_date = excluded.due_date,
			completed = excluded.completed,
			reference = excluded.reference,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		t.ID, strToNull(t.ClientID), strToNull(t.PolicyID),
		t.Title, strToNull(t.Description), string(t.Type),
		dateToNull(t.DueDate), t.Completed, strToNull(t.Reference),
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

const taskColumns = `id, client_id, policy_id, title, description, task_type,
	due_date, completed, reference, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*crm.Task, error) {
	var (
		t                              crm.Task
		clientID, policyID, descr      sql.NullString
		dueDate, reference             sql.NullString
		taskType, createdAt, updatedAt string
	)
	if err := row.Scan(
		&t.ID, &clientID, &policyID, &t.Title, &descr, &taskType,
		&dueDate, &t.Completed, &reference, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	t.ClientID = clientID.String
	t.PolicyID = policyID.String
	t.Description = descr.String
	t.Type = crm.TaskType(taskType)
	t.DueDate = dateFromNull(dueDate)
	t.Reference = reference.String
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}

func (s *Store) GetTask(ctx context.Context, id string) (*crm.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, policy.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

func (s *Store) listTasks(ctx context.Context, query string, args ...any) ([]*crm.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*crm.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) ListTasks(ctx context.Context) ([]*crm.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY due_date IS NULL, due_date, id`)
}

func (s *Store) ListTasksByClient(ctx context.Context, clientID string) ([]*crm.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE client_id = ? ORDER BY due_date IS NULL, due_date, id`, clientID)
}

func (s *Store) TaskExistsForReference(ctx context.Context, policyID, reference string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE policy_id = ? AND reference = ?`,
		policyID, reference,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check task reference: %w", err)
	}
	return count > 0, nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return policy.ErrTaskNotFound
	}
	return nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Store) GetSettings(ctx context.Context) (crm.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		name                      sql.NullString
		projectionYears, leadDays int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT advisor_name, projection_years, renewal_lead_days FROM settings WHERE id = 1`,
	).Scan(&name, &projectionYears, &leadDays)
	if err == sql.ErrNoRows {
		return crm.DefaultSettings(), nil
	}
	if err != nil {
		return crm.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return crm.Settings{
		AdvisorName:     name.String,
		ProjectionYears: projectionYears,
		RenewalLeadDays: leadDays,
	}, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings crm.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO settings (id, advisor_name, projection_years, renewal_lead_days, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			advisor_name = excluded.advisor_name,
			projection_years = excluded.projection_years,
			renewal_lead_days = excluded.renewal_lead_days,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		strToNull(settings.AdvisorName), settings.ProjectionYears,
		settings.RenewalLeadDays, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// =============================================================================
// RESET
// =============================================================================

// Reset wipes all data. Used by the demo scenario loader.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"tasks", "policies", "global_policies", "clients", "settings"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}
