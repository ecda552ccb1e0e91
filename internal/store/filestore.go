package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cinebox/box-office/internal/model"
)

// Document is the shape of the flat JSON file.  The whole document is
// read on every call and rewritten on every mutation, mirroring the
// original db.json model.
type Document struct {
	Users           []model.User           `json:"users"`
	Theaters        []model.Theater        `json:"theaters"`
	TheaterManagers []model.TheaterManager `json:"theaterManagers"`
	ScreeningRooms  []model.ScreeningRoom  `json:"screeningRooms"`
	Movies          []model.Movie          `json:"movies"`
	Shifts          []model.Shift          `json:"shifts"`
	Showtimes       []model.Showtime       `json:"showtimes"`
	Tickets         []model.Ticket         `json:"tickets"`
	RefreshTokens   []model.RefreshToken   `json:"refreshTokens"`
}

// FileStore implements Store over a single JSON document on disk.
// A process-wide RW mutex serialises document access; rewrites go
// through a temp file followed by rename so a failed write never leaves
// a partial document behind.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a FileStore backed by the given path.  The file
// is not required to exist yet; use SeedIfMissing to bootstrap it.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// SeedIfMissing writes the given document to disk when no file exists
// yet.  It is a no-op when the file is already present.
func (s *FileStore) SeedIfMissing(doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return s.save(doc)
}

// load reads and decodes the whole document.  Callers must hold at
// least a read lock.
func (s *FileStore) load() (Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return doc, nil
}

// save encodes and atomically replaces the document.  Callers must hold
// the write lock.
func (s *FileStore) save(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".db-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Showtime(_ context.Context, id string) (model.Showtime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return model.Showtime{}, err
	}
	for _, st := range doc.Showtimes {
		if st.ID == id {
			return st, nil
		}
	}
	return model.Showtime{}, ErrShowtimeNotFound
}

func (s *FileStore) Room(_ context.Context, id string) (model.ScreeningRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return model.ScreeningRoom{}, err
	}
	for _, r := range doc.ScreeningRooms {
		if r.ID == id {
			return r, nil
		}
	}
	return model.ScreeningRoom{}, ErrRoomNotFound
}

func (s *FileStore) Theater(_ context.Context, id int) (model.Theater, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return model.Theater{}, err
	}
	for _, t := range doc.Theaters {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Theater{}, ErrTheaterNotFound
}

func (s *FileStore) Theaters(_ context.Context) ([]model.Theater, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Theaters, nil
}

func (s *FileStore) RoomsForTheaters(_ context.Context, theaterIDs []int) ([]model.ScreeningRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	allowed := intSet(theaterIDs)
	rooms := make([]model.ScreeningRoom, 0)
	for _, r := range doc.ScreeningRooms {
		if allowed[r.TheaterID] {
			rooms = append(rooms, r)
		}
	}
	return rooms, nil
}

func (s *FileStore) Movies(_ context.Context) ([]model.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Movies, nil
}

func (s *FileStore) Shifts(_ context.Context) ([]model.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Shifts, nil
}

func (s *FileStore) SearchShowtimes(_ context.Context, f ShowtimeFilter) ([]model.Showtime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]model.Showtime, 0)
	for _, st := range doc.Showtimes {
		if f.MovieID != "" && st.MovieID != f.MovieID {
			continue
		}
		if f.ShiftID != "" && st.ShiftID != f.ShiftID {
			continue
		}
		if f.Date != "" && st.Date != f.Date {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *FileStore) ShowtimesForTheaters(_ context.Context, theaterIDs []int) ([]model.Showtime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	allowed := intSet(theaterIDs)
	out := make([]model.Showtime, 0)
	for _, st := range doc.Showtimes {
		if allowed[st.TheaterID] {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *FileStore) TicketsForShowtime(_ context.Context, showtimeID string) ([]model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]model.Ticket, 0)
	for _, t := range doc.Tickets {
		if t.ShowtimeID == showtimeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *FileStore) TicketsForShowtimes(_ context.Context, showtimeIDs []string) ([]model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	allowed := stringSet(showtimeIDs)
	out := make([]model.Ticket, 0)
	for _, t := range doc.Tickets {
		if allowed[t.ShowtimeID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *FileStore) TicketCounts(_ context.Context, showtimeIDs []string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	allowed := stringSet(showtimeIDs)
	counts := make(map[string]int, len(showtimeIDs))
	for _, t := range doc.Tickets {
		if allowed[t.ShowtimeID] {
			counts[t.ShowtimeID]++
		}
	}
	return counts, nil
}

func (s *FileStore) AppendTickets(_ context.Context, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Tickets = append(doc.Tickets, tickets...)
	return s.save(doc)
}

func (s *FileStore) AddShowtime(_ context.Context, st model.Showtime) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range doc.Showtimes {
		if existing.RoomID == st.RoomID && existing.ShiftID == st.ShiftID && existing.Date == st.Date {
			return ErrScheduleConflict
		}
	}
	doc.Showtimes = append(doc.Showtimes, st)
	return s.save(doc)
}

func (s *FileStore) DeleteShowtime(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	kept := doc.Showtimes[:0]
	found := false
	for _, st := range doc.Showtimes {
		if st.ID == id {
			found = true
			continue
		}
		kept = append(kept, st)
	}
	if !found {
		return ErrShowtimeNotFound
	}
	doc.Showtimes = kept
	// drop the showtime's sales history along with it
	tickets := doc.Tickets[:0]
	for _, t := range doc.Tickets {
		if t.ShowtimeID != id {
			tickets = append(tickets, t)
		}
	}
	doc.Tickets = tickets
	return s.save(doc)
}

func (s *FileStore) UserByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return model.User{}, err
	}
	for _, u := range doc.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

func (s *FileStore) UserByID(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return model.User{}, err
	}
	for _, u := range doc.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

func (s *FileStore) ManagedTheaterIDs(_ context.Context, userID string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, tm := range doc.TheaterManagers {
		if tm.UserID == userID {
			return tm.TheaterIDs, nil
		}
	}
	return nil, nil
}

func (s *FileStore) SaveRefreshToken(_ context.Context, tok model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.RefreshTokens = append(doc.RefreshTokens, tok)
	return s.save(doc)
}

func (s *FileStore) RefreshTokenByHash(_ context.Context, hash string) (model.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.load()
	if err != nil {
		return model.RefreshToken{}, err
	}
	for _, tok := range doc.RefreshTokens {
		if tok.TokenHash == hash {
			if time.Now().UTC().After(tok.ExpiresAt) {
				return model.RefreshToken{}, ErrTokenNotFound
			}
			return tok, nil
		}
	}
	return model.RefreshToken{}, ErrTokenNotFound
}

func (s *FileStore) DeleteRefreshToken(_ context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	kept := doc.RefreshTokens[:0]
	for _, tok := range doc.RefreshTokens {
		if tok.TokenHash != hash {
			kept = append(kept, tok)
		}
	}
	doc.RefreshTokens = kept
	return s.save(doc)
}

func intSet(ids []int) map[int]bool {
	m := make(map[int]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func stringSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
