package actionlog

import (
	"context"
	"encoding/json"
	"fmt"

	"prospectmap_backend/platform/db"
)

// Repository appends to actions_log. Rows are never updated.
type Repository struct {
	q db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

func (r *Repository) Append(ctx context.Context, e Entry) error {
	if !e.Type.Valid() {
		return fmt.Errorf("unknown action type %q", e.Type)
	}
	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	_, err = r.q.Exec(ctx, `
		INSERT INTO actions_log (type_action, commerce_id, profile_id, description, metadata)
		VALUES ($1, $2, $3, $4, $5)`,
		string(e.Type), e.CommerceID, e.ProfileID, e.Description, raw)
	return err
}
