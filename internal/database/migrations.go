package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Migrations are idempotent and run in order on every invocation.
var migrations = []string{
	createEnumTypes,
	createRolesTable,
	seedRoles,
	createUsersTable,
	createFrameworksTable,
	createProjectsTable,
	createBudgetsTable,
	createExpensesTable,
}

func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	for i, migration := range migrations {
		log.Debug().Msgf("running migration %d/%d", i+1, len(migrations))
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Info().Int("count", len(migrations)).Msg("all migrations completed successfully")
	return nil
}

const createEnumTypes = `
DO $$
BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'project_status_t') THEN
    CREATE TYPE project_status_t AS ENUM ('PendingConfirmation', 'Confirmed');
  END IF;
END$$;
`

const createRolesTable = `
CREATE TABLE IF NOT EXISTS roles (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  name TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

const seedRoles = `
INSERT INTO roles (name, description) VALUES
  ('admin', '系统管理员'),
  ('manager', '项目经理'),
  ('user', '普通用户')
ON CONFLICT (name) DO NOTHING;
`

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'user' REFERENCES roles(name),
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  last_login_at TIMESTAMP WITH TIME ZONE
);

CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
`

// Framework codes are unique; the manager must exist and cannot be deleted while referenced.
const createFrameworksTable = `
CREATE TABLE IF NOT EXISTS frameworks (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  code TEXT NOT NULL,
  name TEXT NOT NULL,
  manager_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
  manager_name TEXT NOT NULL DEFAULT '',
  biz_manager TEXT,
  "group" TEXT NOT NULL DEFAULT '',
  client_dept TEXT,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  created_by UUID REFERENCES users(id) ON DELETE SET NULL,
  updated_by UUID REFERENCES users(id) ON DELETE SET NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_frameworks_code ON frameworks(code);
CREATE INDEX IF NOT EXISTS idx_frameworks_manager_id ON frameworks(manager_id);
`

const createProjectsTable = `
CREATE TABLE IF NOT EXISTS projects (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  name TEXT NOT NULL DEFAULT '',
  status project_status_t NOT NULL DEFAULT 'PendingConfirmation',
  is_pending_entry BOOLEAN NOT NULL DEFAULT FALSE,
  contract_amount NUMERIC(15,2) NOT NULL DEFAULT 0 CHECK (contract_amount >= 0),
  framework_id UUID REFERENCES frameworks(id) ON DELETE RESTRICT,
  archived_at TIMESTAMP WITH TIME ZONE,
  archived_by UUID REFERENCES users(id) ON DELETE SET NULL,
  unarchived_by UUID REFERENCES users(id) ON DELETE SET NULL,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_projects_framework_id ON projects(framework_id);
CREATE INDEX IF NOT EXISTS idx_projects_archived_at ON projects(archived_at);
`

const createBudgetsTable = `
CREATE TABLE IF NOT EXISTS budgets (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
  category TEXT NOT NULL,
  amount NUMERIC(15,2) NOT NULL DEFAULT 0,
  year INT NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_budgets_project_id ON budgets(project_id);
`

const createExpensesTable = `
CREATE TABLE IF NOT EXISTS expenses (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
  budget_id UUID REFERENCES budgets(id) ON DELETE SET NULL,
  description TEXT NOT NULL DEFAULT '',
  amount NUMERIC(15,2) NOT NULL DEFAULT 0,
  spent_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  created_by UUID REFERENCES users(id) ON DELETE SET NULL,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_expenses_project_id ON expenses(project_id);
CREATE INDEX IF NOT EXISTS idx_expenses_budget_id ON expenses(budget_id);
`
