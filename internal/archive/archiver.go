// Package archive exports the full version chain of a closed entity to an
// S3-compatible bucket. The database stays the source of truth; the archive
// is a cold copy for audit consumers.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Archiver struct {
	client *Client
}

func NewArchiver(client *Client) *Archiver {
	return &Archiver{client: client}
}

type chainDocument struct {
	Entity     string      `json:"entity"`
	BusinessID string      `json:"business_id"`
	ArchivedAt time.Time   `json:"archived_at"`
	Versions   interface{} `json:"versions"`
}

// ArchiveHistory uploads the version chain as one JSON object keyed by
// entity type and business id.
func (a *Archiver) ArchiveHistory(ctx context.Context, entity, businessID string, versions interface{}) error {
	doc := chainDocument{
		Entity:     entity,
		BusinessID: businessID,
		ArchivedAt: time.Now().UTC(),
		Versions:   versions,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s %s chain: %w", entity, businessID, err)
	}

	key := fmt.Sprintf("archive/%s/%s.json", entity, businessID)
	if err := a.client.UploadBytes(ctx, key, data); err != nil {
		return fmt.Errorf("failed to archive %s %s: %w", entity, businessID, err)
	}
	return nil
}
