package store

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/mcclellann/fredBank/pkg/models"
)

// Table is one collection of the dataset, keyed by record id.
// Iteration is always in ascending id order.
type Table[T any] struct {
	rows map[models.ID]*T
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{rows: make(map[models.ID]*T)}
}

// Get returns the record stored under id.
func (t *Table[T]) Get(id models.ID) (*T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

// Put stores row under id, replacing any previous record.
func (t *Table[T]) Put(id models.ID, row *T) {
	t.rows[id] = row
}

func (t *Table[T]) Len() int {
	return len(t.rows)
}

// NextID returns one more than the largest id in the table, or 1 when empty.
func (t *Table[T]) NextID() models.ID {
	var top models.ID
	for id := range t.rows {
		if id > top {
			top = id
		}
	}
	return top + 1
}

// All yields every record in ascending id order.
func (t *Table[T]) All() iter.Seq2[models.ID, *T] {
	return func(yield func(models.ID, *T) bool) {
		for _, id := range slices.Sorted(maps.Keys(t.rows)) {
			if !yield(id, t.rows[id]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the table as an object keyed by the string form of each id.
func (t *Table[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.rows)
}

// UnmarshalJSON decodes an object keyed by id. A record without its own id
// takes the key; a record whose id disagrees with its key is an error.
func (t *Table[T]) UnmarshalJSON(data []byte) error {
	rows := make(map[models.ID]*T)
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	for id, row := range rows {
		if row == nil {
			return fmt.Errorf("record %s is null", id)
		}
		if err := bindKey(id, row); err != nil {
			return err
		}
	}
	t.rows = rows
	return nil
}

// keyed is implemented by every record type in the models package.
type keyed interface {
	Key() models.ID
	SetKey(models.ID)
}

func bindKey(id models.ID, row any) error {
	k, ok := row.(keyed)
	if !ok {
		return nil
	}
	switch k.Key() {
	case 0:
		k.SetKey(id)
	case id:
	default:
		return fmt.Errorf("record %s carries id %s", id, k.Key())
	}
	return nil
}

func (t *Table[T]) encodeRows() (map[models.ID][]byte, error) {
	out := make(map[models.ID][]byte, len(t.rows))
	for id, row := range t.rows {
		body, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("failed to encode record %s: %w", id, err)
		}
		out[id] = body
	}
	return out, nil
}

func (t *Table[T]) decodeRows(raw map[models.ID][]byte) error {
	rows := make(map[models.ID]*T, len(raw))
	for id, body := range raw {
		var row T
		if err := json.Unmarshal(body, &row); err != nil {
			return fmt.Errorf("failed to decode record %s: %w", id, err)
		}
		if err := bindKey(id, &row); err != nil {
			return err
		}
		rows[id] = &row
	}
	t.rows = rows
	return nil
}
