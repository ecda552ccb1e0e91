package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/cinebox/box-office/internal/model"
)

// MySQLStore implements Store on top of MySQL.  It is the driver to use
// when the flat-file document outgrows a single box office; the schema
// mirrors the document collections one table per collection.
type MySQLStore struct {
	db *sql.DB
}

var _ Store = (*MySQLStore)(nil)

// OpenMySQL connects to MySQL and verifies the connection.
func OpenMySQL(user, pass, host, port, name string) (*MySQLStore, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &MySQLStore{db: db}, nil
}

// DB exposes the underlying handle, mainly for migrations in tooling.
func (s *MySQLStore) DB() *sql.DB { return s.db }

func (s *MySQLStore) Showtime(ctx context.Context, id string) (model.Showtime, error) {
	const q = `SELECT id, movie_id, room_id, theater_id, shift_id, show_date,
	                  standard_price, vip_price, total_seats
	           FROM showtimes WHERE id = ?`
	var st model.Showtime
	err := s.db.QueryRowContext(ctx, q, id).Scan(&st.ID, &st.MovieID, &st.RoomID,
		&st.TheaterID, &st.ShiftID, &st.Date, &st.StandardPrice, &st.VIPPrice, &st.TotalSeats)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Showtime{}, ErrShowtimeNotFound
	}
	if err != nil {
		return model.Showtime{}, err
	}
	return st, nil
}

func (s *MySQLStore) Room(ctx context.Context, id string) (model.ScreeningRoom, error) {
	const q = `SELECT id, theater_id, name, seat_rows, seat_cols, vip_rows, seats
	           FROM screening_rooms WHERE id = ?`
	var (
		r       model.ScreeningRoom
		vipRows string
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(&r.ID, &r.TheaterID, &r.Name,
		&r.Layout.Rows, &r.Layout.Cols, &vipRows, &r.Seats)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ScreeningRoom{}, ErrRoomNotFound
	}
	if err != nil {
		return model.ScreeningRoom{}, err
	}
	r.Layout.VIPRows, err = parseVIPRows(vipRows)
	if err != nil {
		return model.ScreeningRoom{}, fmt.Errorf("room %s: %w", id, err)
	}
	return r, nil
}

func (s *MySQLStore) Theater(ctx context.Context, id int) (model.Theater, error) {
	var t model.Theater
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(address,'') FROM theaters WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Theater{}, ErrTheaterNotFound
	}
	if err != nil {
		return model.Theater{}, err
	}
	return t, nil
}

func (s *MySQLStore) Theaters(ctx context.Context) ([]model.Theater, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, COALESCE(address,'') FROM theaters ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Theater, 0)
	for rows.Next() {
		var t model.Theater
		if err := rows.Scan(&t.ID, &t.Name, &t.Address); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *MySQLStore) RoomsForTheaters(ctx context.Context, theaterIDs []int) ([]model.ScreeningRoom, error) {
	if len(theaterIDs) == 0 {
		return []model.ScreeningRoom{}, nil
	}
	q := `SELECT id, theater_id, name, seat_rows, seat_cols, vip_rows, seats
	      FROM screening_rooms WHERE theater_id IN (` + placeholders(len(theaterIDs)) + `) ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, intArgs(theaterIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ScreeningRoom, 0)
	for rows.Next() {
		var (
			r       model.ScreeningRoom
			vipRows string
		)
		if err := rows.Scan(&r.ID, &r.TheaterID, &r.Name, &r.Layout.Rows, &r.Layout.Cols, &vipRows, &r.Seats); err != nil {
			return nil, err
		}
		if r.Layout.VIPRows, err = parseVIPRows(vipRows); err != nil {
			return nil, fmt.Errorf("room %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *MySQLStore) Movies(ctx context.Context) ([]model.Movie, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, COALESCE(duration_min,0) FROM movies ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Duration); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *MySQLStore) Shifts(ctx context.Context) ([]model.Shift, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, COALESCE(time_range,'') FROM shifts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Shift, 0)
	for rows.Next() {
		var sh model.Shift
		if err := rows.Scan(&sh.ID, &sh.Name, &sh.Time); err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *MySQLStore) SearchShowtimes(ctx context.Context, f ShowtimeFilter) ([]model.Showtime, error) {
	q := `SELECT id, movie_id, room_id, theater_id, shift_id, show_date,
	             standard_price, vip_price, total_seats
	      FROM showtimes WHERE 1=1`
	args := make([]interface{}, 0, 3)
	if f.MovieID != "" {
		q += " AND movie_id = ?"
		args = append(args, f.MovieID)
	}
	if f.ShiftID != "" {
		q += " AND shift_id = ?"
		args = append(args, f.ShiftID)
	}
	if f.Date != "" {
		q += " AND show_date = ?"
		args = append(args, f.Date)
	}
	q += " ORDER BY show_date, shift_id"
	return s.queryShowtimes(ctx, q, args...)
}

func (s *MySQLStore) ShowtimesForTheaters(ctx context.Context, theaterIDs []int) ([]model.Showtime, error) {
	if len(theaterIDs) == 0 {
		return []model.Showtime{}, nil
	}
	q := `SELECT id, movie_id, room_id, theater_id, shift_id, show_date,
	             standard_price, vip_price, total_seats
	      FROM showtimes WHERE theater_id IN (` + placeholders(len(theaterIDs)) + `)
	      ORDER BY show_date, shift_id`
	return s.queryShowtimes(ctx, q, intArgs(theaterIDs)...)
}

func (s *MySQLStore) queryShowtimes(ctx context.Context, q string, args ...interface{}) ([]model.Showtime, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Showtime, 0)
	for rows.Next() {
		var st model.Showtime
		if err := rows.Scan(&st.ID, &st.MovieID, &st.RoomID, &st.TheaterID, &st.ShiftID,
			&st.Date, &st.StandardPrice, &st.VIPPrice, &st.TotalSeats); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *MySQLStore) TicketsForShowtime(ctx context.Context, showtimeID string) ([]model.Ticket, error) {
	const q = `SELECT id, showtime_id, seat, class, price, sold_at, sold_by
	           FROM tickets WHERE showtime_id = ? ORDER BY sold_at`
	return s.queryTickets(ctx, q, showtimeID)
}

func (s *MySQLStore) TicketsForShowtimes(ctx context.Context, showtimeIDs []string) ([]model.Ticket, error) {
	if len(showtimeIDs) == 0 {
		return []model.Ticket{}, nil
	}
	q := `SELECT id, showtime_id, seat, class, price, sold_at, sold_by
	      FROM tickets WHERE showtime_id IN (` + placeholders(len(showtimeIDs)) + `) ORDER BY sold_at`
	return s.queryTickets(ctx, q, stringArgs(showtimeIDs)...)
}

func (s *MySQLStore) queryTickets(ctx context.Context, q string, args ...interface{}) ([]model.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Ticket, 0)
	for rows.Next() {
		var (
			t     model.Ticket
			class string
		)
		if err := rows.Scan(&t.ID, &t.ShowtimeID, &t.Seat, &class, &t.Price, &t.SoldAt, &t.SoldBy); err != nil {
			return nil, err
		}
		t.Class = model.SeatClass(class)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *MySQLStore) TicketCounts(ctx context.Context, showtimeIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(showtimeIDs))
	if len(showtimeIDs) == 0 {
		return counts, nil
	}
	q := `SELECT showtime_id, COUNT(*) FROM tickets
	      WHERE showtime_id IN (` + placeholders(len(showtimeIDs)) + `) GROUP BY showtime_id`
	rows, err := s.db.QueryContext(ctx, q, stringArgs(showtimeIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id string
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// AppendTickets inserts all rows inside one transaction so a batch sale
// either lands completely or not at all.
func (s *MySQLStore) AppendTickets(ctx context.Context, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	query := `INSERT INTO tickets (id, showtime_id, seat, class, price, sold_at, sold_by) VALUES `
	args := make([]interface{}, 0, len(tickets)*7)
	for i, t := range tickets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, t.ID, t.ShowtimeID, t.Seat, string(t.Class), t.Price, t.SoldAt, t.SoldBy)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *MySQLStore) AddShowtime(ctx context.Context, st model.Showtime) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM showtimes WHERE room_id = ? AND shift_id = ? AND show_date = ? LIMIT 1`,
		st.RoomID, st.ShiftID, st.Date).Scan(&existing)
	if err == nil {
		return ErrScheduleConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO showtimes (id, movie_id, room_id, theater_id, shift_id, show_date,
		                        standard_price, vip_price, total_seats)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.MovieID, st.RoomID, st.TheaterID, st.ShiftID, st.Date,
		st.StandardPrice, st.VIPPrice, st.TotalSeats)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *MySQLStore) DeleteShowtime(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE showtime_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM showtimes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrShowtimeNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *MySQLStore) UserByUsername(ctx context.Context, username string) (model.User, error) {
	const q = `SELECT id, username, password_hash, role, COALESCE(full_name,'')
	           FROM users WHERE username = ?`
	var u model.User
	err := s.db.QueryRowContext(ctx, q, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.FullName)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *MySQLStore) UserByID(ctx context.Context, id string) (model.User, error) {
	const q = `SELECT id, username, password_hash, role, COALESCE(full_name,'')
	           FROM users WHERE id = ?`
	var u model.User
	err := s.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.FullName)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *MySQLStore) ManagedTheaterIDs(ctx context.Context, userID string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT theater_id FROM theater_managers WHERE user_id = ? ORDER BY theater_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *MySQLStore) SaveRefreshToken(ctx context.Context, tok model.RefreshToken) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`,
		tok.UserID, tok.TokenHash, tok.ExpiresAt)
	return err
}

func (s *MySQLStore) RefreshTokenByHash(ctx context.Context, hash string) (model.RefreshToken, error) {
	const q = `SELECT user_id, token_hash, expires_at FROM refresh_tokens WHERE token_hash = ?`
	var tok model.RefreshToken
	err := s.db.QueryRowContext(ctx, q, hash).Scan(&tok.UserID, &tok.TokenHash, &tok.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RefreshToken{}, ErrTokenNotFound
	}
	if err != nil {
		return model.RefreshToken{}, err
	}
	if time.Now().UTC().After(tok.ExpiresAt) {
		return model.RefreshToken{}, ErrTokenNotFound
	}
	return tok, nil
}

func (s *MySQLStore) DeleteRefreshToken(ctx context.Context, hash string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token_hash = ?`, hash)
	return err
}

// parseVIPRows decodes the comma-separated vip_rows column ("0,1").
func parseVIPRows(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad vip_rows value %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func intArgs(ids []int) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func stringArgs(ids []string) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
