package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMySQLCatalogGame(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "title", "starts_at", "venue", "seat_price"}).
		AddRow("game-1", "KT vs LG", "2026.03.28 14:00", "잠실 야구장", 25000)
	mock.ExpectQuery("SELECT id, title, starts_at, venue, seat_price FROM games").
		WithArgs("game-1").
		WillReturnRows(rows)

	catalog := NewMySQLCatalog(db)
	g, err := catalog.Game(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	if g.Title != "KT vs LG" || g.SeatPrice != 25000 {
		t.Fatalf("unexpected game: %+v", g)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMySQLCatalogGameNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, title, starts_at, venue, seat_price FROM games").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "starts_at", "venue", "seat_price"}))

	catalog := NewMySQLCatalog(db)
	if _, err := catalog.Game(context.Background(), "nope"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestMySQLCatalogSeatPrice(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT seat_price FROM games").
		WithArgs("game-1").
		WillReturnRows(sqlmock.NewRows([]string{"seat_price"}).AddRow(30000))

	catalog := NewMySQLCatalog(db)
	price, err := catalog.SeatPrice(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("SeatPrice: %v", err)
	}
	if price != 30000 {
		t.Fatalf("price = %d, want 30000", price)
	}
}
