package database

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS rating_snapshots (
		id UUID PRIMARY KEY,
		published_at TIMESTAMPTZ NOT NULL,
		players INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS player_ratings (
		snapshot_id UUID NOT NULL REFERENCES rating_snapshots(id) ON DELETE CASCADE,
		player TEXT NOT NULL,
		elo_hard DOUBLE PRECISION NOT NULL,
		elo_clay DOUBLE PRECISION NOT NULL,
		elo_grass DOUBLE PRECISION NOT NULL,
		elo_overall DOUBLE PRECISION NOT NULL,
		matches_played INTEGER NOT NULL,
		last_updated TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (snapshot_id, player)
	)`,
	`CREATE TABLE IF NOT EXISTS value_bets (
		id UUID PRIMARY KEY,
		snapshot_id UUID NOT NULL,
		strategy TEXT NOT NULL,
		match_id UUID NOT NULL,
		player1 TEXT NOT NULL,
		player2 TEXT NOT NULL,
		tournament TEXT NOT NULL DEFAULT '',
		surface TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		side SMALLINT NOT NULL,
		player TEXT NOT NULL,
		opponent TEXT NOT NULL,
		odds DOUBLE PRECISION NOT NULL,
		fair_probability DOUBLE PRECISION NOT NULL,
		market_probability DOUBLE PRECISION NOT NULL,
		edge DOUBLE PRECISION NOT NULL,
		kelly_fraction DOUBLE PRECISION NOT NULL,
		recommended_stake NUMERIC(14, 2) NOT NULL,
		confidence_score DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_value_bets_created_at ON value_bets (created_at)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS rating_snapshots (
		id TEXT PRIMARY KEY,
		published_at TEXT NOT NULL,
		players INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS player_ratings (
		snapshot_id TEXT NOT NULL REFERENCES rating_snapshots(id) ON DELETE CASCADE,
		player TEXT NOT NULL,
		elo_hard REAL NOT NULL,
		elo_clay REAL NOT NULL,
		elo_grass REAL NOT NULL,
		elo_overall REAL NOT NULL,
		matches_played INTEGER NOT NULL,
		last_updated TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, player)
	)`,
	`CREATE TABLE IF NOT EXISTS value_bets (
		id TEXT PRIMARY KEY,
		snapshot_id TEXT NOT NULL,
		strategy TEXT NOT NULL,
		match_id TEXT NOT NULL,
		player1 TEXT NOT NULL,
		player2 TEXT NOT NULL,
		tournament TEXT NOT NULL DEFAULT '',
		surface TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		side INTEGER NOT NULL,
		player TEXT NOT NULL,
		opponent TEXT NOT NULL,
		odds REAL NOT NULL,
		fair_probability REAL NOT NULL,
		market_probability REAL NOT NULL,
		edge REAL NOT NULL,
		kelly_fraction REAL NOT NULL,
		recommended_stake TEXT NOT NULL,
		confidence_score REAL NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_value_bets_created_at ON value_bets (created_at)`,
}
