package remote

import (
	"context"
	"time"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/mitchellh/mapstructure"
)

// Row is a raw record as returned by the remote data service.
type Row map[string]any

type Filter struct {
	Column string
	Value  any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

type Order struct {
	Column     string
	Descending bool
}

func Asc(column string) *Order  { return &Order{Column: column} }
func Desc(column string) *Order { return &Order{Column: column, Descending: true} }

type Query struct {
	Table   entity.Table
	Filters []Filter

	// AnyOf matches rows satisfying at least one of the filters. Used for the
	// current user's messages (sender or receiver).
	AnyOf []Filter

	Order *Order
	Limit int
}

type Event struct {
	Table entity.Table
	Kind  entity.EventKind
	Row   Row
}

type EventHandler func(ctx context.Context, ev Event)

type Subscription interface {
	Close() error
}

// Client is the remote data service surface the sync core depends on. Insert,
// update and upsert return the authoritative row including server-assigned
// fields; the entity store is only ever patched with those.
type Client interface {
	Authorize(accessToken string)

	Read(ctx context.Context, q Query) ([]Row, error)
	Insert(ctx context.Context, table entity.Table, values map[string]any) (Row, error)
	Update(ctx context.Context, table entity.Table, values map[string]any, filters ...Filter) ([]Row, error)
	Upsert(ctx context.Context, table entity.Table, values map[string]any, conflictColumns ...string) (Row, error)
	Delete(ctx context.Context, table entity.Table, filters ...Filter) error

	Call(ctx context.Context, procedure string, args map[string]any) (any, error)

	Subscribe(ctx context.Context, tables []entity.Table, kinds []entity.EventKind, handler EventHandler) (Subscription, error)
}

// DecodeRow maps a raw row onto a typed record. Timestamps arrive either as
// RFC3339 strings (wire) or time.Time (test fakes); both decode.
func DecodeRow[T any](row Row) (*T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
		Result:     &out,
		TagName:    "json",
		Squash:     true,
	})
	if err != nil {
		return nil, err
	}

	if err := dec.Decode(map[string]any(row)); err != nil {
		return nil, err
	}

	return &out, nil
}

func DecodeRows[T any](rows []Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		record, err := DecodeRow[T](row)
		if err != nil {
			return nil, err
		}

		out = append(out, *record)
	}

	return out, nil
}
