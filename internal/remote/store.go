// Package remote talks to the authoritative document store. Store is the
// transport-level collection API; Sync scopes it to the signed-in user and
// translates between documents and schedules.
package remote

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Collection holds one document per schedule.
const Collection = "schedules"

// Document is a stored JSON object and its store-assigned id. The id is not
// part of Body.
type Document struct {
	ID   string
	Body []byte
}

// Filter is a top-level field equality match. The zero Filter matches
// every document.
type Filter struct {
	Field string
	Value string
}

// Match reports whether the JSON object body satisfies f. Non-object bodies
// never match a non-zero filter.
func (f Filter) Match(body []byte) bool {
	if f.Field == "" {
		return true
	}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return false
	}
	v, ok := fields[f.Field]
	if !ok {
		return false
	}
	return fmt.Sprint(v) == f.Value
}

// Store is a document-collection database. Update and Delete report
// common.ErrorNotFound for unknown ids.
type Store interface {
	Query(ctx context.Context, collection string, filter Filter) ([]Document, error)
	Insert(ctx context.Context, collection string, body []byte) (string, error)
	Update(ctx context.Context, collection, id string, body []byte) error
	Delete(ctx context.Context, collection, id string) error
}

// UserIDSource yields the id of the signed-in user.
type UserIDSource interface {
	CurrentUserID(ctx context.Context) (string, error)
}
