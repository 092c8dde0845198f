package handler

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CursorPage defines the structure for one page of a cursor-paginated list.
// Clients pass Cursor back verbatim to fetch the next page; it is opaque to
// them.
type CursorPage[T any] struct {
	Data   []T    `json:"data"`
	Cursor string `json:"cursor,omitempty"`
	IsDone bool   `json:"is_done"`
}

// NewCursorPage creates a page whose cursor resumes after lastID. A done
// page carries no cursor.
func NewCursorPage[T any](data []T, lastID uint, isDone bool) CursorPage[T] {
	page := CursorPage[T]{Data: data, IsDone: isDone}
	if !isDone {
		page.Cursor = encodeCursor(lastID)
	}
	return page
}

func encodeCursor(lastID uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf("id:%d", lastID)))
}

// decodeCursor inverts encodeCursor. An empty cursor means "from the start".
func decodeCursor(cursor string) (uint, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, errors.Wrap(err, "malformed cursor")
	}
	value, ok := strings.CutPrefix(string(raw), "id:")
	if !ok {
		return 0, errors.New("malformed cursor")
	}
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, errors.Wrap(err, "malformed cursor")
	}
	return uint(id), nil
}
