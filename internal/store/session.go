package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/rotorwerk/internal/rotor"
)

// Session is one recorded Transform run.
type Session struct {
	Token        string `json:"token"`
	SettingsName string `json:"settings_name"`
	RightStart   int    `json:"right_start"`
	MiddleStart  int    `json:"middle_start"`
	LeftStart    int    `json:"left_start"`
	CreatedAt    string `json:"created_at"`
	StepCount    int    `json:"step_count"`
}

// BeginSession inserts a session row recording the settings name and the
// starting rotor positions, and returns the session with its generated
// token.
func (s *Store) BeginSession(ctx context.Context, settingsName string, right, middle, left int) (*Session, error) {
	token := s.tokens.Generate()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, settings_name, right_start, middle_start, left_start)
		VALUES (?, ?, ?, ?, ?)
	`, token, settingsName, right, middle, left)
	if err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}
	return s.readSessionRow(ctx, token)
}

// AppendSteps writes the trace steps of a session in one transaction.
// Steps are keyed by (session, seq); re-appending the same seq fails, which
// keeps a session's history append-only.
func (s *Store) AppendSteps(ctx context.Context, token string, steps []rotor.Step) error {
	if len(steps) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append steps: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO steps (session_token, seq, input, output, right_pos, middle_pos, left_pos)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("append steps: %w", err)
	}
	defer stmt.Close()

	for _, step := range steps {
		_, err := stmt.ExecContext(ctx, token, step.Seq,
			string(step.Input), string(step.Output),
			step.Right, step.Middle, step.Left)
		if err != nil {
			return fmt.Errorf("append step %d: %w", step.Seq, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append steps: %w", err)
	}
	return nil
}

// ErrSessionNotFound is returned when a token has no session row.
var ErrSessionNotFound = fmt.Errorf("session not found")

// ReadSession returns a session and its steps ordered by seq.
func (s *Store) ReadSession(ctx context.Context, token string) (*Session, []rotor.Step, error) {
	session, err := s.readSessionRow(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, input, output, right_pos, middle_pos, left_pos
		FROM steps
		WHERE session_token = ?
		ORDER BY seq ASC
	`, token)
	if err != nil {
		return nil, nil, fmt.Errorf("read session steps: %w", err)
	}
	defer rows.Close()

	var steps []rotor.Step
	for rows.Next() {
		var step rotor.Step
		var input, output string
		if err := rows.Scan(&step.Seq, &input, &output, &step.Right, &step.Middle, &step.Left); err != nil {
			return nil, nil, fmt.Errorf("scan step: %w", err)
		}
		step.Input = firstRune(input)
		step.Output = firstRune(output)
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("read session steps: %w", err)
	}
	return session, steps, nil
}

// ListSessions returns all sessions, newest token last. UUIDv7 tokens sort
// by creation time, so token order is session order.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.token, s.settings_name, s.right_start, s.middle_start, s.left_start, s.created_at,
		       COUNT(st.seq)
		FROM sessions s
		LEFT JOIN steps st ON st.session_token = s.token
		GROUP BY s.token
		ORDER BY s.token ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.Token, &sess.SettingsName,
			&sess.RightStart, &sess.MiddleStart, &sess.LeftStart,
			&sess.CreatedAt, &sess.StepCount); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *Store) readSessionRow(ctx context.Context, token string) (*Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx, `
		SELECT s.token, s.settings_name, s.right_start, s.middle_start, s.left_start, s.created_at,
		       (SELECT COUNT(*) FROM steps WHERE session_token = s.token)
		FROM sessions s
		WHERE s.token = ?
	`, token).Scan(&sess.Token, &sess.SettingsName,
		&sess.RightStart, &sess.MiddleStart, &sess.LeftStart,
		&sess.CreatedAt, &sess.StepCount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, token)
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	return &sess, nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
