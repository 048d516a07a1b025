package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/schedkeeper/internal/common"
	"github.com/dmitrijs2005/schedkeeper/internal/logging"
	"github.com/dmitrijs2005/schedkeeper/internal/models"
)

// BatchResult summarizes a best-effort bulk operation.
type BatchResult struct {
	Deleted int
	Failed  int
	Errors  []error
}

// Sync performs schedule CRUD against a Store on behalf of the signed-in
// user. Every Store failure is reported as common.ErrRemoteUnavailable
// wrapping the cause, except common.ErrorNotFound which is passed through.
type Sync struct {
	store Store
	users UserIDSource
	log   logging.Logger
}

func NewSync(store Store, users UserIDSource, log logging.Logger) *Sync {
	return &Sync{store: store, users: users, log: log}
}

func storeErr(op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("remote %s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", common.ErrRemoteUnavailable, op, err)
}

// FetchAll returns every schedule owned by the current user, in store
// order. Documents that do not decode as schedules are logged and skipped.
func (s *Sync) FetchAll(ctx context.Context) ([]models.Schedule, error) {
	uid, err := s.users.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.Query(ctx, Collection, Filter{Field: "ownerId", Value: uid})
	if err != nil {
		return nil, storeErr("query", err)
	}

	out := make([]models.Schedule, 0, len(docs))
	for _, d := range docs {
		sc, err := models.Decode(d.Body)
		if err != nil {
			s.log.Warn(ctx, "skipping malformed remote schedule", "id", d.ID, "error", err)
			continue
		}
		sc.ID = d.ID
		out = append(out, *sc)
	}
	return out, nil
}

// Create inserts sc owned by the current user and returns the id the store
// assigned. sc.OwnerID is set to the current user; sc.ID is left for the
// caller to apply.
func (s *Sync) Create(ctx context.Context, sc *models.Schedule) (string, error) {
	uid, err := s.users.CurrentUserID(ctx)
	if err != nil {
		return "", err
	}
	sc.OwnerID = uid
	if err := sc.Validate(); err != nil {
		return "", err
	}

	body, err := models.EncodeBody(sc)
	if err != nil {
		return "", fmt.Errorf("failed to encode schedule: %w", err)
	}
	id, err := s.store.Insert(ctx, Collection, body)
	if err != nil {
		return "", storeErr("insert", err)
	}
	return id, nil
}

// Update overwrites the stored document sc.ID with sc's content.
func (s *Sync) Update(ctx context.Context, sc *models.Schedule) error {
	if sc.ID == "" {
		return fmt.Errorf("remote update: empty id: %w", common.ErrorNotFound)
	}
	if err := sc.Validate(); err != nil {
		return err
	}
	body, err := models.EncodeBody(sc)
	if err != nil {
		return fmt.Errorf("failed to encode schedule %s: %w", sc.ID, err)
	}
	if err := s.store.Update(ctx, Collection, sc.ID, body); err != nil {
		return storeErr("update", err)
	}
	return nil
}

func (s *Sync) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, Collection, id); err != nil {
		return storeErr("delete", err)
	}
	return nil
}

// DeleteAllForOwner deletes the current user's schedules one at a time.
// It is not transactional: failures are counted and the loop continues.
// An error is returned only if the initial fetch fails.
func (s *Sync) DeleteAllForOwner(ctx context.Context) (BatchResult, error) {
	list, err := s.FetchAll(ctx)
	if err != nil {
		return BatchResult{}, err
	}

	var res BatchResult
	for _, sc := range list {
		if err := s.Delete(ctx, sc.ID); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, err)
			continue
		}
		res.Deleted++
	}
	if res.Failed > 0 {
		s.log.Warn(ctx, "bulk delete incomplete", "deleted", res.Deleted, "failed", res.Failed)
	}
	return res, nil
}
