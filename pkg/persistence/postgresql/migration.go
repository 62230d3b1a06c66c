package postgresql

// migrations returns the schema migrations keyed by version. Workflow
// definitions and executions live in dedicated typed tables; the entity
// tables mirror the minimal shape the engine reads and are created only when
// the owning application has not provisioned them already.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS workflows (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				trigger JSONB NOT NULL,
				conditions JSONB NOT NULL DEFAULT '[]',
				actions JSONB NOT NULL DEFAULT '[]',
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				priority INTEGER NOT NULL DEFAULT 1,
				execution_count BIGINT NOT NULL DEFAULT 0,
				last_executed_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_workflows_active
				ON workflows (is_active, priority DESC, created_at DESC);

			CREATE TABLE IF NOT EXISTS workflow_executions (
				id TEXT PRIMARY KEY,
				workflow_id TEXT NOT NULL REFERENCES workflows (id) ON DELETE CASCADE,
				entity_id TEXT NOT NULL,
				entity_type TEXT NOT NULL,
				status TEXT NOT NULL,
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE,
				error_message TEXT NOT NULL DEFAULT '',
				log JSONB NOT NULL DEFAULT '[]',
				data JSONB NOT NULL DEFAULT '{}',
				resume_index INTEGER,
				resume_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_workflow_executions_workflow
				ON workflow_executions (workflow_id, started_at DESC);

			CREATE INDEX IF NOT EXISTS idx_workflow_executions_resume
				ON workflow_executions (resume_at)
				WHERE resume_at IS NOT NULL;

			CREATE TABLE IF NOT EXISTS notifications (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				message TEXT NOT NULL DEFAULT '',
				type TEXT NOT NULL DEFAULT '',
				priority TEXT NOT NULL DEFAULT 'medium',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS customers (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL DEFAULT '',
				email TEXT NOT NULL DEFAULT '',
				phone TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS appointments (
				id TEXT PRIMARY KEY,
				customer_id TEXT REFERENCES customers (id),
				status TEXT NOT NULL DEFAULT '',
				starts_at TIMESTAMP WITH TIME ZONE,
				deposit NUMERIC,
				notes TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS payments (
				id TEXT PRIMARY KEY,
				customer_id TEXT REFERENCES customers (id),
				status TEXT NOT NULL DEFAULT '',
				amount NUMERIC,
				method TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS tattoo_requests (
				id TEXT PRIMARY KEY,
				customer_id TEXT REFERENCES customers (id),
				status TEXT NOT NULL DEFAULT '',
				style TEXT NOT NULL DEFAULT '',
				placement TEXT NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
		`,
	}
}
