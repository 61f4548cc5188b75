package repository

import (
	"context"
	"database/sql"

	"github.com/seonghoon-yang/ticket-reservation/internal/model"
)

// MySQLCatalog reads game metadata and pricing from the games table.
// Schema:
//
//   CREATE TABLE games (
//     id         VARCHAR(64)  PRIMARY KEY,
//     title      VARCHAR(255) NOT NULL,
//     starts_at  VARCHAR(64)  NOT NULL,
//     venue      VARCHAR(255) NOT NULL,
//     seat_price INT          NOT NULL
//   );
type MySQLCatalog struct {
	db *sql.DB
}

// NewMySQLCatalog returns a catalog bound to the provided database.
func NewMySQLCatalog(db *sql.DB) *MySQLCatalog { return &MySQLCatalog{db: db} }

// Game implements Catalog.
func (c *MySQLCatalog) Game(ctx context.Context, gameID string) (model.Game, error) {
	const q = `SELECT id, title, starts_at, venue, seat_price FROM games WHERE id = ?`
	var g model.Game
	err := c.db.QueryRowContext(ctx, q, gameID).Scan(&g.ID, &g.Title, &g.StartsAt, &g.Venue, &g.SeatPrice)
	if err == sql.ErrNoRows {
		return model.Game{}, ErrGameNotFound
	}
	if err != nil {
		return model.Game{}, err
	}
	return g, nil
}

// SeatPrice implements Catalog.
func (c *MySQLCatalog) SeatPrice(ctx context.Context, gameID string) (int, error) {
	const q = `SELECT seat_price FROM games WHERE id = ?`
	var price int
	err := c.db.QueryRowContext(ctx, q, gameID).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, ErrGameNotFound
	}
	if err != nil {
		return 0, err
	}
	return price, nil
}
