package migrations

import "gorm.io/gorm"

func GetCoreMigrations() []Step {
	return []Step{
		{
			Name: "2025_01_02_000000_create_organizations_and_teams",
			Up: func(db *gorm.DB) error {
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS organizations (
						id SERIAL PRIMARY KEY,
						name VARCHAR(255) NOT NULL,
						slug VARCHAR(255) UNIQUE NOT NULL,
						logo VARCHAR(512),
						about TEXT,
						owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_organizations_owner_id ON organizations(owner_id);
					CREATE INDEX IF NOT EXISTS idx_organizations_deleted_at ON organizations(deleted_at);
				`).Error; err != nil {
					return err
				}

				return db.Exec(`
					CREATE TABLE IF NOT EXISTS teams (
						id SERIAL PRIMARY KEY,
						team_name VARCHAR(255) NOT NULL,
						slug VARCHAR(255) UNIQUE NOT NULL,
						team_logo VARCHAR(512),
						owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_teams_owner_id ON teams(owner_id);
					CREATE INDEX IF NOT EXISTS idx_teams_deleted_at ON teams(deleted_at);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				if err := db.Exec("DROP TABLE IF EXISTS teams CASCADE").Error; err != nil {
					return err
				}
				return db.Exec("DROP TABLE IF EXISTS organizations CASCADE").Error
			},
		},
		{
			Name: "2025_01_02_000001_create_events_and_registrations",
			Up: func(db *gorm.DB) error {
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS events (
						id SERIAL PRIMARY KEY,
						title VARCHAR(255) NOT NULL,
						slug VARCHAR(255) UNIQUE NOT NULL,
						game VARCHAR(100) NOT NULL,
						type VARCHAR(20) NOT NULL DEFAULT 'tournament',
						category VARCHAR(20) NOT NULL DEFAULT 'squad',
						status VARCHAR(30) NOT NULL DEFAULT 'registration-open',
						registration_mode VARCHAR(20) NOT NULL DEFAULT 'open',
						description TEXT,
						cover_image VARCHAR(512),
						prize_pool VARCHAR(255),
						max_slots INTEGER NOT NULL DEFAULT 0,
						joined_slots INTEGER NOT NULL DEFAULT 0,
						start_date TIMESTAMP NULL,
						registration_ends_at TIMESTAMP NULL,
						org_id INTEGER NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_events_org_id ON events(org_id);
					CREATE INDEX IF NOT EXISTS idx_events_status ON events(status);
					CREATE INDEX IF NOT EXISTS idx_events_deleted_at ON events(deleted_at);
				`).Error; err != nil {
					return err
				}

				return db.Exec(`
					CREATE TABLE IF NOT EXISTS event_registrations (
						id SERIAL PRIMARY KEY,
						event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
						team_id INTEGER NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
						status VARCHAR(20) NOT NULL DEFAULT 'pending',
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						deleted_at TIMESTAMP NULL,
						UNIQUE (event_id, team_id)
					);
					CREATE INDEX IF NOT EXISTS idx_event_registrations_event_id ON event_registrations(event_id);
					CREATE INDEX IF NOT EXISTS idx_event_registrations_team_id ON event_registrations(team_id);
					CREATE INDEX IF NOT EXISTS idx_event_registrations_deleted_at ON event_registrations(deleted_at);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				if err := db.Exec("DROP TABLE IF EXISTS event_registrations CASCADE").Error; err != nil {
					return err
				}
				return db.Exec("DROP TABLE IF EXISTS events CASCADE").Error
			},
		},
		{
			Name: "2025_01_02_000002_create_rounds_and_groups",
			Up: func(db *gorm.DB) error {
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS rounds (
						id SERIAL PRIMARY KEY,
						round_name VARCHAR(255) NOT NULL,
						round_number INTEGER NOT NULL,
						status VARCHAR(20) NOT NULL DEFAULT 'pending',
						event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
						start_time TIMESTAMP NULL,
						gap_minutes INTEGER DEFAULT 0,
						matches_per_group INTEGER DEFAULT 1,
						qualifying_teams INTEGER DEFAULT 0,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_rounds_event_id ON rounds(event_id);
					CREATE INDEX IF NOT EXISTS idx_rounds_deleted_at ON rounds(deleted_at);
				`).Error; err != nil {
					return err
				}

				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS groups (
						id SERIAL PRIMARY KEY,
						group_name VARCHAR(255) NOT NULL,
						total_match INTEGER NOT NULL DEFAULT 1,
						matches_played INTEGER NOT NULL DEFAULT 0,
						match_time TIMESTAMP NULL,
						status VARCHAR(20) NOT NULL DEFAULT 'pending',
						round_id INTEGER NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_groups_round_id ON groups(round_id);
					CREATE INDEX IF NOT EXISTS idx_groups_deleted_at ON groups(deleted_at);
				`).Error; err != nil {
					return err
				}

				return db.Exec(`
					CREATE TABLE IF NOT EXISTS group_teams (
						group_id INTEGER NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
						team_id INTEGER NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
						PRIMARY KEY (group_id, team_id)
					);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				if err := db.Exec("DROP TABLE IF EXISTS group_teams CASCADE").Error; err != nil {
					return err
				}
				if err := db.Exec("DROP TABLE IF EXISTS groups CASCADE").Error; err != nil {
					return err
				}
				return db.Exec("DROP TABLE IF EXISTS rounds CASCADE").Error
			},
		},
		{
			Name: "2025_01_02_000003_create_leaderboards",
			Up: func(db *gorm.DB) error {
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS leaderboards (
						id SERIAL PRIMARY KEY,
						group_id INTEGER UNIQUE NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_leaderboards_deleted_at ON leaderboards(deleted_at);
				`).Error; err != nil {
					return err
				}

				return db.Exec(`
					CREATE TABLE IF NOT EXISTS leaderboard_entries (
						id SERIAL PRIMARY KEY,
						leaderboard_id INTEGER NOT NULL REFERENCES leaderboards(id) ON DELETE CASCADE,
						team_id INTEGER NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
						score INTEGER DEFAULT 0,
						kills INTEGER DEFAULT 0,
						wins INTEGER DEFAULT 0,
						total_points INTEGER DEFAULT 0,
						position INTEGER DEFAULT 0,
						matches_played INTEGER DEFAULT 0,
						is_qualified BOOLEAN DEFAULT false,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						deleted_at TIMESTAMP NULL,
						UNIQUE (leaderboard_id, team_id)
					);
					CREATE INDEX IF NOT EXISTS idx_leaderboard_entries_leaderboard_id ON leaderboard_entries(leaderboard_id);
					CREATE INDEX IF NOT EXISTS idx_leaderboard_entries_team_id ON leaderboard_entries(team_id);
					CREATE INDEX IF NOT EXISTS idx_leaderboard_entries_deleted_at ON leaderboard_entries(deleted_at);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				if err := db.Exec("DROP TABLE IF EXISTS leaderboard_entries CASCADE").Error; err != nil {
					return err
				}
				return db.Exec("DROP TABLE IF EXISTS leaderboards CASCADE").Error
			},
		},
	}
}
