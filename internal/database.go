package internal

import (
	"fmt"

	"clauseforge/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(cfg *config.Config) error {
	dsn := cfg.Database.DSN()

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := autoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	fmt.Println("Database connected and migrated successfully")
	return nil
}

func autoMigrate() error {
	fmt.Println("Creating clauses table if not exists...")
	result := DB.Exec(`
        CREATE TABLE IF NOT EXISTS clauses (
            id varchar(191) PRIMARY KEY,
            clause_type text NOT NULL,
            content text,
            category varchar(50),
            is_ai_generated boolean DEFAULT false,
            created_at timestamp(3) NULL,
            updated_at timestamp(3) NULL,
            deleted_at timestamp(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create clauses table: %w", result.Error)
	}

	DB.Exec("CREATE INDEX IF NOT EXISTS idx_clauses_deleted_at ON clauses(deleted_at)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_clauses_clause_type ON clauses(clause_type)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_clauses_category ON clauses(category)")

	fmt.Println("Creating clause_templates table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS clause_templates (
            id varchar(191) PRIMARY KEY,
            template_name text NOT NULL,
            document_type varchar(100),
            description text,
            is_ai_generated boolean DEFAULT false,
            created_at timestamp(3) NULL,
            updated_at timestamp(3) NULL,
            deleted_at timestamp(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create clause_templates table: %w", result.Error)
	}

	DB.Exec("CREATE INDEX IF NOT EXISTS idx_clause_templates_deleted_at ON clause_templates(deleted_at)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_clause_templates_document_type ON clause_templates(document_type)")

	fmt.Println("Creating template_clauses table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS template_clauses (
            id varchar(191) PRIMARY KEY,
            template_id varchar(191) NOT NULL,
            clause_id varchar(191) NOT NULL,
            position int NOT NULL,
            created_at timestamp(3) NULL,
            updated_at timestamp(3) NULL,
            deleted_at timestamp(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create template_clauses table: %w", result.Error)
	}

	DB.Exec("CREATE INDEX IF NOT EXISTS idx_template_clauses_deleted_at ON template_clauses(deleted_at)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_template_clauses_template_id ON template_clauses(template_id)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_template_clauses_clause_id ON template_clauses(clause_id)")

	fmt.Println("Creating documents table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS documents (
            id varchar(191) PRIMARY KEY,
            template_id varchar(191),
            user_id varchar(191),
            document_name text NOT NULL,
            document_type varchar(100),
            content jsonb,
            variables jsonb,
            pdf_path text,
            created_at timestamp(3) NULL,
            updated_at timestamp(3) NULL,
            deleted_at timestamp(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create documents table: %w", result.Error)
	}

	DB.Exec("CREATE INDEX IF NOT EXISTS idx_documents_deleted_at ON documents(deleted_at)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_documents_template_id ON documents(template_id)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_documents_user_id ON documents(user_id)")

	// Columns added after the first release
	ensureDocumentsColumns := map[string]string{
		"pdf_path": "ALTER TABLE documents ADD COLUMN pdf_path text",
		"user_id":  "ALTER TABLE documents ADD COLUMN user_id varchar(191)",
	}

	for column, stmt := range ensureDocumentsColumns {
		if err := ensureColumn("documents", column, stmt); err != nil {
			return err
		}
	}

	if err := ensureColumn("clauses", "is_ai_generated",
		"ALTER TABLE clauses ADD COLUMN is_ai_generated boolean DEFAULT false"); err != nil {
		return err
	}

	fmt.Println("Creating translation_previews table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS translation_previews (
            id varchar(191) PRIMARY KEY,
            original_id varchar(191) NOT NULL,
            original_type varchar(50) NOT NULL,
            lang varchar(10) NOT NULL,
            translated_content text,
            created_by varchar(191),
            expires_at timestamp(3) NOT NULL,
            confirmed boolean DEFAULT false,
            created_at timestamp(3) NULL,
            updated_at timestamp(3) NULL,
            deleted_at timestamp(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create translation_previews table: %w", result.Error)
	}

	DB.Exec("CREATE INDEX IF NOT EXISTS idx_translation_previews_deleted_at ON translation_previews(deleted_at)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_translation_previews_original_id ON translation_previews(original_id)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_translation_previews_expires_at ON translation_previews(expires_at)")

	fmt.Println("Creating translations table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS translations (
            id varchar(191) PRIMARY KEY,
            original_id varchar(191) NOT NULL,
            original_type varchar(50) NOT NULL,
            lang varchar(10) NOT NULL,
            content text,
            status varchar(20) DEFAULT 'confirmed',
            created_by varchar(191),
            verified_by varchar(191),
            created_at timestamp(3) NULL,
            updated_at timestamp(3) NULL,
            deleted_at timestamp(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create translations table: %w", result.Error)
	}

	DB.Exec("CREATE INDEX IF NOT EXISTS idx_translations_deleted_at ON translations(deleted_at)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_translations_original_id ON translations(original_id)")
	// One durable translation per (original_id, original_type, lang)
	DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_translations_triple ON translations(original_id, original_type, lang) WHERE deleted_at IS NULL")

	fmt.Println("Creating document_types table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS document_types (
            id varchar(191) PRIMARY KEY,
            code varchar(50) NOT NULL UNIQUE,
            name text NOT NULL,
            description text,
            category varchar(50),
            sort_order int DEFAULT 0,
            is_active boolean DEFAULT true,
            created_at timestamp(3) NULL,
            updated_at timestamp(3) NULL,
            deleted_at timestamp(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create document_types table: %w", result.Error)
	}

	DB.Exec("CREATE INDEX IF NOT EXISTS idx_document_types_deleted_at ON document_types(deleted_at)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_document_types_code ON document_types(code)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_document_types_is_active ON document_types(is_active)")

	fmt.Println("Creating usage_logs table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS usage_logs (
            id varchar(36) PRIMARY KEY,
            operation varchar(50) NOT NULL,
            original_id varchar(191),
            tokens_used int DEFAULT 0,
            model_used varchar(100),
            user_id varchar(36),
            created_at timestamp(3) NULL,
            updated_at timestamp(3) NULL,
            deleted_at timestamp(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create usage_logs table: %w", result.Error)
	}

	DB.Exec("CREATE INDEX IF NOT EXISTS idx_usage_logs_deleted_at ON usage_logs(deleted_at)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_usage_logs_operation ON usage_logs(operation)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_usage_logs_user_id ON usage_logs(user_id)")

	fmt.Println("Creating activity_logs table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS activity_logs (
            id varchar(191) PRIMARY KEY,
            method varchar(10) NOT NULL,
            path varchar(255) NOT NULL,
            user_agent text,
            ip_address varchar(45),
            query_params text,
            status_code int NOT NULL,
            response_time bigint NOT NULL,
            user_id varchar(36),
            created_at timestamp(3) NULL,
            updated_at timestamp(3) NULL,
            deleted_at timestamp(3) NULL
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create activity_logs table: %w", result.Error)
	}

	DB.Exec("CREATE INDEX IF NOT EXISTS idx_activity_logs_deleted_at ON activity_logs(deleted_at)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_activity_logs_method ON activity_logs(method)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_activity_logs_path ON activity_logs(path)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_activity_logs_created_at ON activity_logs(created_at)")

	fmt.Println("Tables created/verified successfully")
	return nil
}

func ensureColumn(table, column, statement string) error {
	if DB.Migrator().HasColumn(table, column) {
		return nil
	}

	fmt.Printf("Adding missing column %s.%s...\n", table, column)
	if err := DB.Exec(statement).Error; err != nil {
		return fmt.Errorf("failed to add column %s.%s: %w", table, column, err)
	}

	return nil
}

func CloseDB() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
