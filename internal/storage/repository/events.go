package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/eventmaster/internal/models"
)

const eventColumns = `id, user_id, title, description, date, time, creator, participants, route_data, distance`

// CreateEvent вставляет мероприятие и возвращает его ID.
func (s *Storage) CreateEvent(ctx context.Context, e models.NewEvent) (int64, error) {
	const op = "storage.CreateEvent"
	if err := checkContext(ctx, op); err != nil {
		return 0, err
	}

	participants := e.Participants
	if participants == nil {
		participants = []string{}
	}
	participantsJSON, err := json.Marshal(participants)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO events (user_id, title, description, date, time, creator,
			      participants, route_data, distance)
			  VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb, $9)
			  RETURNING id`
	var newID int64
	err = s.DB.QueryRowContext(ctx, query,
		e.UserID, e.Title, e.Description, e.Date, e.Time, e.Creator,
		string(participantsJSON), nullableJSON(e.RouteData), e.Distance).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// GetEvent возвращает мероприятие по ID.
func (s *Storage) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	const op = "storage.GetEvent"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return e, nil
}

// ListEvents возвращает все мероприятия, новые по дате первыми.
func (s *Storage) ListEvents(ctx context.Context) ([]models.Event, error) {
	const op = "storage.ListEvents"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListEventsByUser возвращает мероприятия, созданные пользователем userID.
func (s *Storage) ListEventsByUser(ctx context.Context, userID int64) ([]models.Event, error) {
	const op = "storage.ListEventsByUser"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE user_id = $1 ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ChangeParticipation добавляет или удаляет login из списка участников.
// Строка мероприятия блокируется до конца транзакции, поэтому
// параллельные изменения одного мероприятия выполняются по очереди.
func (s *Storage) ChangeParticipation(ctx context.Context, eventID int64, action, login string) (*models.ParticipationResult, error) {
	const op = "storage.ChangeParticipation"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT e.user_id, e.title, e.participants, u.login
			  FROM events e
			  JOIN users u ON u.id = e.user_id
			  WHERE e.id = $1
			  FOR UPDATE OF e`
	var (
		res          models.ParticipationResult
		rawList      []byte
		ownerLogin   string
		participants []string
	)
	if err = tx.QueryRowContext(ctx, query, eventID).Scan(&res.OwnerID, &res.Title, &rawList, &ownerLogin); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	if participants, err = decodeParticipants(rawList); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	next, err := applyParticipation(participants, ownerLogin, action, login)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	nextJSON, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE events SET participants = $1::jsonb WHERE id = $2`, string(nextJSON), eventID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res.Participants = next
	return &res, nil
}

// DeleteEvent удаляет мероприятие владельца userID вместе с его уведомлениями.
// Чужое мероприятие даёт models.ErrForbidden, отсутствующее даёт models.ErrNotFound.
func (s *Storage) DeleteEvent(ctx context.Context, eventID, userID int64) error {
	const op = "storage.DeleteEvent"
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, s.ownershipError(ctx, "events", eventID))
	}
	return nil
}

// ListEventsOnDate возвращает мероприятия на дату date (YYYY-MM-DD) с логином владельца.
func (s *Storage) ListEventsOnDate(ctx context.Context, date string) ([]models.EventDigest, error) {
	const op = "storage.ListEventsOnDate"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT e.id, e.user_id, u.login, e.title, e.date, e.time, e.participants
			  FROM events e
			  JOIN users u ON u.id = e.user_id
			  WHERE e.date = $1
			  ORDER BY e.id`
	rows, err := s.DB.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.EventDigest, 0)
	for rows.Next() {
		var (
			d       models.EventDigest
			t       sql.NullString
			rawList []byte
		)
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.OwnerLogin, &d.Title, &d.Date, &t, &rawList); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if t.Valid {
			d.Time = &t.String
		}
		if d.Participants, err = decodeParticipants(rawList); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ownershipError уточняет, почему запись table с данным id не затронута:
// её нет или она принадлежит другому пользователю.
func (s *Storage) ownershipError(ctx context.Context, table string, id int64) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrNotFound
	}
	return models.ErrForbidden
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		e           models.Event
		description sql.NullString
		t           sql.NullString
		distance    sql.NullFloat64
		rawList     []byte
		routeData   []byte
		err         error
	)
	if err = row.Scan(&e.ID, &e.UserID, &e.Title, &description, &e.Date, &t,
		&e.Creator, &rawList, &routeData, &distance); err != nil {
		return nil, err
	}
	if description.Valid {
		e.Description = &description.String
	}
	if t.Valid {
		e.Time = &t.String
	}
	if distance.Valid {
		e.Distance = &distance.Float64
	}
	if len(routeData) > 0 {
		e.RouteData = json.RawMessage(routeData)
	}
	if e.Participants, err = decodeParticipants(rawList); err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEvents(rows *sql.Rows) ([]models.Event, error) {
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func decodeParticipants(raw []byte) ([]string, error) {
	participants := make([]string, 0)
	if len(raw) == 0 {
		return participants, nil
	}
	if err := json.Unmarshal(raw, &participants); err != nil {
		return nil, fmt.Errorf("decode participants: %w", err)
	}
	if participants == nil {
		participants = []string{}
	}
	return participants, nil
}

// nullableJSON возвращает nil для пустого или null значения, иначе JSON строкой.
func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}
