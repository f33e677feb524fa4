package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // SQLite driver

	"mailapi/backend/internal/domain"
	"mailapi/backend/internal/storage"
)

// 支持的驱动
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store SQL 数据库快照存储（支持 MySQL、PostgreSQL 和 SQLite）
//
// 邮箱集合保存在 mailboxes 与 messages 两张表中，每次 Save 在一个事务内整体替换。
type Store struct {
	db         *sql.DB
	gormDB     *gorm.DB // GORM实例，用于迁移（SQLite 为 nil）
	driverName string
}

// mailboxRecord 邮箱表
type mailboxRecord struct {
	Name     string `gorm:"primaryKey;type:varchar(255)"`
	Position int    `gorm:"not null"`
}

func (mailboxRecord) TableName() string { return "mailboxes" }

// messageRecord 邮件表
type messageRecord struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Mailbox   string    `gorm:"type:varchar(255);index;not null"`
	Position  int       `gorm:"not null"`
	ToName    string    `gorm:"type:varchar(255);not null"`
	ToEmail   string    `gorm:"type:varchar(255);not null"`
	FromName  string    `gorm:"type:varchar(255);not null"`
	FromEmail string    `gorm:"type:varchar(255);not null"`
	Subject   string    `gorm:"type:varchar(500);not null"`
	Received  time.Time `gorm:"not null"`
	Content   string    `gorm:"type:text;not null"`
}

func (messageRecord) TableName() string { return "messages" }

// sqliteSchema SQLite 建表语句（GORM 没有基于 modernc 的方言）
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS mailboxes (
		name TEXT PRIMARY KEY,
		position INTEGER NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		mailbox TEXT NOT NULL,
		position INTEGER NOT NULL,
		to_name TEXT NOT NULL,
		to_email TEXT NOT NULL,
		from_name TEXT NOT NULL,
		from_email TEXT NOT NULL,
		subject TEXT NOT NULL,
		received DATETIME NOT NULL,
		content TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_messages_mailbox ON messages(mailbox);`,
}

// NewStore 创建SQL数据库快照存储并自动建表
func NewStore(
	driverName string,
	dsn string,
	maxOpenConns int,
	maxIdleConns int,
	connMaxLifetime time.Duration,
) (*Store, error) {
	// 验证驱动类型
	switch driverName {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (supported: mysql, postgres, sqlite)", driverName)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 设置连接池参数；SQLite 只用一个连接，保证 :memory: 库在连接间共享
	if driverName == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxIdleConns)
		db.SetConnMaxLifetime(connMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var gormDB *gorm.DB
	switch driverName {
	case DriverMySQL:
		gormDB, err = gorm.Open(mysql.New(mysql.Config{Conn: db}), gormConfig)
	case DriverPostgres:
		gormDB, err = gorm.Open(postgres.New(postgres.Config{Conn: db}), gormConfig)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize GORM: %w", err)
	}

	store := &Store{
		db:         db,
		gormDB:     gormDB,
		driverName: driverName,
	}

	if err := store.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Migrate 创建表结构（可重复执行）
func (s *Store) Migrate(ctx context.Context) error {
	if s.gormDB != nil {
		return s.gormDB.WithContext(ctx).AutoMigrate(&mailboxRecord{}, &messageRecord{})
	}

	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Load 读取快照；两张表都为空时返回 storage.ErrSnapshotNotFound
func (s *Store) Load(ctx context.Context) (*domain.Mailboxes, error) {
	names, err := s.loadMailboxNames(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, mailbox, to_name, to_email, from_name, from_email, subject, received, content
		FROM messages ORDER BY mailbox, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	boxes := domain.NewMailboxes(names...)
	count := 0
	for rows.Next() {
		var (
			rec messageRecord
			msg domain.Message
		)
		if err := rows.Scan(&rec.ID, &rec.Mailbox, &rec.ToName, &rec.ToEmail, &rec.FromName,
			&rec.FromEmail, &rec.Subject, &rec.Received, &rec.Content); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg = domain.Message{
			ID:        rec.ID,
			ToName:    rec.ToName,
			ToEmail:   rec.ToEmail,
			FromName:  rec.FromName,
			FromEmail: rec.FromEmail,
			Subject:   rec.Subject,
			Received:  rec.Received.UTC(),
			Content:   rec.Content,
		}
		boxes.Append(rec.Mailbox, msg)
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	if len(names) == 0 && count == 0 {
		return nil, storage.ErrSnapshotNotFound
	}
	return boxes, nil
}

func (s *Store) loadMailboxNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM mailboxes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mailboxes: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan mailbox: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Save 在事务中整体替换快照
func (s *Store) Save(ctx context.Context, boxes *domain.Mailboxes) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM mailboxes`); err != nil {
		return fmt.Errorf("failed to clear mailboxes: %w", err)
	}

	insertMailbox := fmt.Sprintf(`INSERT INTO mailboxes (name, position) VALUES (%s)`, s.placeholders(2))
	insertMessage := fmt.Sprintf(`INSERT INTO messages
		(id, mailbox, position, to_name, to_email, from_name, from_email, subject, received, content)
		VALUES (%s)`, s.placeholders(10))

	for i, name := range boxes.Names() {
		if _, err = tx.ExecContext(ctx, insertMailbox, name, i); err != nil {
			return fmt.Errorf("failed to insert mailbox %q: %w", name, err)
		}

		msgs, _ := boxes.Messages(name)
		for pos, msg := range msgs {
			if _, err = tx.ExecContext(ctx, insertMessage,
				msg.ID, name, pos, msg.ToName, msg.ToEmail, msg.FromName, msg.FromEmail,
				msg.Subject, msg.Received.UTC(), msg.Content,
			); err != nil {
				return fmt.Errorf("failed to insert message %s: %w", msg.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Health 检查数据库健康状态
func (s *Store) Health() error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// placeholders 根据数据库类型生成 n 个占位符
func (s *Store) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		if s.driverName == DriverPostgres {
			parts[i] = fmt.Sprintf("$%d", i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}
