package model

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"posta/internal/config"
	"posta/internal/entity/db"
	"posta/internal/model/sql"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	DBTypeMySQL    = "mysql"
	DBTypeSQLite   = "sqlite"
	DBTypePostgres = "postgres"
)

// sqlite 连接参数：写锁最多等待 5 秒。
const sqliteDSNOptions = "_busy_timeout=5000&_journal_mode=WAL"

// RepositoryFactory 根据数据库类型创建对应的仓库实现
type RepositoryFactory struct{}

// NewRepositoryFactory 创建新的仓库工厂
func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

// InitRepository 初始化仓库的辅助函数。DBType 为空时返回 nil，由调用方决定是否继续。
func InitRepository(cfg *config.Config) (Repository, error) {
	if strings.TrimSpace(cfg.DBType) == "" {
		return nil, nil
	}
	return NewRepositoryFactory().CreateRepository(cfg)
}

// CreateRepository 打开数据库、迁移表结构并返回仓库
func (f *RepositoryFactory) CreateRepository(cfg *config.Config) (Repository, error) {
	dbType := strings.ToLower(strings.TrimSpace(cfg.DBType))
	dialector, err := f.dialector(dbType, cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := f.openGormDB(dialector, dbType)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dbType, err)
	}

	// 自动迁移数据库表结构
	if err := f.migrateSchema(gdb); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return sql.NewGormRepository(gdb), nil
}

func (f *RepositoryFactory) dialector(dbType string, cfg *config.Config) (gorm.Dialector, error) {
	switch dbType {
	case DBTypeMySQL:
		dsn := cfg.DSNURL
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
				cfg.DBUser, cfg.DBPassword, cfg.DBAddr, cfg.DBPort, cfg.DBName)
		}
		return mysql.Open(dsn), nil
	case DBTypePostgres:
		dsn := cfg.DSNURL
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
				cfg.DBAddr, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
		}
		return postgres.Open(dsn), nil
	case DBTypeSQLite:
		dsn, err := sqliteDSN(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}
}

// sqliteDSN 确保数据库目录存在并附加连接参数。
// SQLite 会在连接时自动创建 .db 文件，但前提是目录已存在。
func sqliteDSN(filePath string) (string, error) {
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		filePath = "datas/posta.db"
	}
	if filePath == ":memory:" || strings.Contains(filePath, "?") {
		return filePath, nil
	}
	if dir := filepath.Dir(filePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}
	return filePath + "?" + sqliteDSNOptions, nil
}

func (f *RepositoryFactory) openGormDB(dialector gorm.Dialector, dbType string) (*gorm.DB, error) {
	// 配置 GORM 日志
	gormLogger := logger.New(
		log.New(log.Writer(), "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second * 5,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, err
	}

	// 配置连接池
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if dbType == DBTypeSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return gdb, nil
}

// migrateSchema 迁移数据库表结构
func (f *RepositoryFactory) migrateSchema(gdb *gorm.DB) error {
	return gdb.AutoMigrate(db.AllModels()...)
}
