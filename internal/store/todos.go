package store

import (
	"context"
	"database/sql"
	"strings"

	ferrors "git.home.luguber.info/inful/solia/internal/foundation/errors"
)

// AddTodo inserts a checklist item under the given parent. The parent must
// exist in the table the kind maps to.
func (s *Store) AddTodo(ctx context.Context, kind TodoKind, parentID int64, text string) (*Todo, error) {
	table, parentCol, ok := kind.table()
	if !ok {
		return nil, ferrors.ValidationError("unknown todo kind").
			WithContext("kind", string(kind)).Build()
	}
	if strings.TrimSpace(text) == "" {
		return nil, ferrors.ValidationError("todo text must not be empty").Build()
	}
	var created Todo
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := s.now().Unix()
		res, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+" ("+parentCol+", text, completed, created_ts) VALUES (?, ?, 0, ?)",
			parentID, text, now)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		created = Todo{ID: id, ParentID: parentID, Text: text, CreatedTS: now}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListTodos returns a parent's checklist in creation order.
func (s *Store) ListTodos(ctx context.Context, kind TodoKind, parentID int64) ([]Todo, error) {
	table, parentCol, ok := kind.table()
	if !ok {
		return nil, ferrors.ValidationError("unknown todo kind").
			WithContext("kind", string(kind)).Build()
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, "+parentCol+", text, completed, created_ts FROM "+table+
			" WHERE "+parentCol+" = ? ORDER BY created_ts ASC, id ASC", parentID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []Todo
	for rows.Next() {
		var todo Todo
		if err := rows.Scan(&todo.ID, &todo.ParentID, &todo.Text, &todo.Completed, &todo.CreatedTS); err != nil {
			return nil, classify(err)
		}
		out = append(out, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// SetTodoCompleted flips the completed flag of one item.
func (s *Store) SetTodoCompleted(ctx context.Context, kind TodoKind, todoID int64, completed bool) error {
	table, _, ok := kind.table()
	if !ok {
		return ferrors.ValidationError("unknown todo kind").
			WithContext("kind", string(kind)).Build()
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE "+table+" SET completed = ? WHERE id = ?", completed, todoID)
		if err != nil {
			return err
		}
		return requireAffected(res, "todo", todoID)
	})
}

// DeleteTodo removes one checklist item.
func (s *Store) DeleteTodo(ctx context.Context, kind TodoKind, todoID int64) error {
	table, _, ok := kind.table()
	if !ok {
		return ferrors.ValidationError("unknown todo kind").
			WithContext("kind", string(kind)).Build()
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", todoID)
		if err != nil {
			return err
		}
		return requireAffected(res, "todo", todoID)
	})
}
