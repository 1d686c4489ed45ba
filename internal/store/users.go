package store

import (
	"context"
	"database/sql"
	"errors"

	"cert-tracker/internal/models"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(s scanner) (*models.User, error) {
	var u models.User
	var role string
	if err := s.Scan(&u.EID, &u.FirstName, &u.LastName, &u.PasswordHash, &role); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT eid, first_name, last_name, password, role FROM users ORDER BY eid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *UserStore) Get(ctx context.Context, eid string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT eid, first_name, last_name, password, role FROM users WHERE eid = $1`, eid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// Create inserts u; an existing eid yields ErrDuplicate.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (eid, first_name, last_name, password, role) VALUES ($1, $2, $3, $4, $5)`,
		u.EID, u.FirstName, u.LastName, u.PasswordHash, string(u.Role))
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET first_name = $1, last_name = $2, password = $3, role = $4 WHERE eid = $5`,
		u.FirstName, u.LastName, u.PasswordHash, string(u.Role), u.EID)
	return expectAffected(res, err)
}

func (s *UserStore) Delete(ctx context.Context, eid string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE eid = $1`, eid)
	return expectAffected(res, err)
}
