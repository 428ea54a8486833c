package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/swasthyasaathi/bot/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &PostgresStorage{db: db}

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	_, err = s.db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

func (s *PostgresStorage) GetUserByWaID(ctx context.Context, waUserID string) (*models.User, error) {
	query := `
		SELECT id, wa_user_id, language, consent, pincode, fullname, created_at
		FROM users
		WHERE wa_user_id = $1`

	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, waUserID).Scan(
		&user.ID,
		&user.WaUserID,
		&user.Language,
		&user.Consent,
		&user.Pincode,
		&user.FullName,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user: %v", err)
	}

	return user, nil
}

func (s *PostgresStorage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (wa_user_id, language, consent, pincode, fullname)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(
		ctx,
		query,
		user.WaUserID,
		user.Language,
		user.Consent,
		user.Pincode,
		user.FullName,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating user: %v", err)
	}

	return nil
}

func (s *PostgresStorage) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET language = $1, consent = $2, pincode = $3, fullname = $4
		WHERE wa_user_id = $5`

	result, err := s.db.ExecContext(ctx, query,
		user.Language, user.Consent, user.Pincode, user.FullName, user.WaUserID)
	if err != nil {
		return fmt.Errorf("error updating user: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStorage) GetChild(ctx context.Context, userID int64) (*models.Child, error) {
	query := `
		SELECT id, user_id, dob
		FROM children
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT 1`

	child := &models.Child{}
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&child.ID, &child.UserID, &child.DOB)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying child: %v", err)
	}

	return child, nil
}

func (s *PostgresStorage) UpsertChild(ctx context.Context, userID int64, dob time.Time) error {
	update := `
		UPDATE children
		SET dob = $1, updated_at = NOW()
		WHERE id = (
			SELECT id FROM children
			WHERE user_id = $2
			ORDER BY updated_at DESC
			LIMIT 1
		)`

	result, err := s.db.ExecContext(ctx, update, dob, userID)
	if err != nil {
		return fmt.Errorf("error updating child: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	insert := `INSERT INTO children (user_id, dob) VALUES ($1, $2)`
	if _, err := s.db.ExecContext(ctx, insert, userID, dob); err != nil {
		return fmt.Errorf("error creating child: %v", err)
	}

	return nil
}

func (s *PostgresStorage) ListConsentedByPincode(ctx context.Context, pincode string) ([]*models.User, error) {
	query := `
		SELECT id, wa_user_id, language, consent, pincode, fullname, created_at
		FROM users
		WHERE pincode = $1 AND consent
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, pincode)
	if err != nil {
		return nil, fmt.Errorf("error querying users by pincode: %v", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID,
			&user.WaUserID,
			&user.Language,
			&user.Consent,
			&user.Pincode,
			&user.FullName,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %v", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %v", err)
	}

	return users, nil
}

func (s *PostgresStorage) AppendOutbox(ctx context.Context, msg *models.OutboundMessage) error {
	var buttons any
	if len(msg.Buttons) > 0 {
		data, err := json.Marshal(msg.Buttons)
		if err != nil {
			return fmt.Errorf("error encoding buttons: %v", err)
		}
		buttons = data
	}

	query := `
		INSERT INTO outbox (id, wa_user_id, body, buttons)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := s.db.QueryRowContext(ctx, query, msg.ID, msg.WaUserID, msg.Body, buttons).
		Scan(&msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("error appending outbox record: %v", err)
	}

	return nil
}

func (s *PostgresStorage) MarkDelivered(ctx context.Context, id string) error {
	query := `
		UPDATE outbox
		SET delivered_at = NOW()
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error marking outbox record delivered: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
