package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"signflow/internal/config"
)

type Database struct {
	DB     *sql.DB
	logger *zap.Logger
}

func NewDatabase(cfg *config.Config, logger *zap.Logger) (*Database, error) {
	// Build PostgreSQL connection string
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connected successfully",
		zap.String("driver", cfg.Database.Driver),
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("dbname", cfg.Database.DBName),
	)

	database := &Database{
		DB:     db,
		logger: logger,
	}

	// Run migrations
	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return database, nil
}

func (d *Database) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id SERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			original_filename VARCHAR(255) NOT NULL,
			file_path VARCHAR(500) NOT NULL,
			signed_file_path VARCHAR(500) DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			owner_id INTEGER NOT NULL,
			owner_name VARCHAR(255) DEFAULT '',
			owner_email VARCHAR(255) DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS document_signers (
			id SERIAL PRIMARY KEY,
			document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			signer_name VARCHAR(255) NOT NULL,
			signer_email VARCHAR(255) NOT NULL,
			signing_order INTEGER DEFAULT 0,
			status VARCHAR(50) DEFAULT 'pending',
			signed_at TIMESTAMP,
			signing_token VARCHAR(500),
			token_expires_at TIMESTAMP,
			rejection_reason TEXT DEFAULT '',
			rejected_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS signatures (
			id SERIAL PRIMARY KEY,
			document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			signer_email VARCHAR(255) NOT NULL,
			page_number INTEGER NOT NULL,
			x_position DOUBLE PRECISION NOT NULL,
			y_position DOUBLE PRECISION NOT NULL,
			width DOUBLE PRECISION NOT NULL,
			height DOUBLE PRECISION NOT NULL,
			signature_type VARCHAR(20) DEFAULT 'signature',
			signature_text VARCHAR(500) DEFAULT '',
			signature_font VARCHAR(100) DEFAULT 'cursive',
			signature_image_path VARCHAR(500) DEFAULT '',
			status VARCHAR(20) DEFAULT 'pending',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			signed_at TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS audit_logs (
			id SERIAL PRIMARY KEY,
			action VARCHAR(100) NOT NULL,
			description TEXT DEFAULT '',
			actor_email VARCHAR(255) DEFAULT '',
			document_id INTEGER REFERENCES documents(id) ON DELETE CASCADE,
			ip_address VARCHAR(50) DEFAULT '',
			user_agent VARCHAR(500) DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE INDEX IF NOT EXISTS idx_documents_owner ON documents(owner_id);`,
		`CREATE INDEX IF NOT EXISTS idx_signers_document ON document_signers(document_id);`,
		`CREATE INDEX IF NOT EXISTS idx_signers_email ON document_signers(signer_email);`,
		`CREATE INDEX IF NOT EXISTS idx_signatures_document ON signatures(document_id);`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_document ON audit_logs(document_id);`,
	}

	for _, stmt := range statements {
		if _, err := d.DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	d.logger.Info("Database migrations completed successfully")
	return nil
}

func (d *Database) Close() error {
	return d.DB.Close()
}
