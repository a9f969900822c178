package repository

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"go_vocab_quiz/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// NewDB はドライバ名に応じて gorm の接続を作り、スキーマを作成します。
// sqlite はインメモリ/ファイルの組み込みストア、postgres はネットワーク越しのストア。
func NewDB(driver, databaseURL string, appLogger *slog.Logger) (*gorm.DB, error) {
	if appLogger == nil {
		appLogger = slog.Default()
	}

	gormLogLevel := gormlogger.Warn
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		gormLogLevel = gormlogger.Info
	}
	gormLogger := slogGorm.New(
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithTraceAll(),
		slogGorm.WithSlowThreshold(500*time.Millisecond),
	).LogMode(gormLogLevel)

	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case DriverSQLite, "":
		dialector = sqlite.Open(databaseURL)
	case DriverPostgres:
		dialector = postgres.Open(databaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		// 一意制約違反を gorm.ErrDuplicatedKey に変換する
		TranslateError: true,
	})
	if err != nil {
		appLogger.Error("Failed to connect to database with GORM", slog.Any("error", err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		appLogger.Error("Error pinging database", slog.Any("error", err))
		sqlDB.Close()
		return nil, err
	}

	if dialector.Name() == DriverSQLite {
		// sqlite は書き込みを1本に直列化する。インメモリDBは接続が全て閉じると消えるので寿命は無制限
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := Migrate(db); err != nil {
		appLogger.Error("Failed to migrate database", slog.Any("error", err))
		sqlDB.Close()
		return nil, err
	}

	appLogger.Info("Database connection established with GORM", slog.String("driver", dialector.Name()))
	return db, nil
}

// Migrate は3つのテーブルを作成/更新します
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Identity{}, &model.Vocabulary{}, &model.ProgressEvent{})
}

// pgUniqueViolation は PostgreSQL の unique_violation (SQLSTATE 23505)
const pgUniqueViolation = "23505"

// isUniqueViolation は一意制約違反かを判定します。
// TranslateError で変換済みのものに加え、変換されずに届いた pgconn.PgError も拾う
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
