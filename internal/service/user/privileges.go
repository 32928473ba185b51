package user

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"labadmin-service/internal/domain/audit"
	"labadmin-service/internal/domain/user"
	wstypes "labadmin-service/internal/domain/websocket"
	xerrors "labadmin-service/internal/pkg/errors"
	"labadmin-service/internal/pkg/privilege"
)

// keyedMutex serializes mutations per target email. Concurrent add/reset
// against the same user would race the verification re-reads.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// AddPrivileges resolves the submitted privilege tokens against the catalog,
// issues the add mutation, then re-reads the detail until the new privileges
// are visible or the reconcile deadline passes.
func (s *UserService) AddPrivileges(ctx context.Context, token, actorID string, req *user.UpdatePrivilegesRequest) (*user.MutationOutcome, error) {
	if req.UserID == "" || req.Email == "" {
		return nil, xerrors.ErrMissingIdentifier
	}
	if err := s.checkMutationRate(ctx, actorID, req.Email); err != nil {
		return nil, err
	}

	catalog, err := s.Catalog(ctx, token)
	if err != nil {
		return nil, err
	}
	ids, unresolved := privilege.ResolveIdentifiers(req.Privileges, catalog)
	if len(ids) == 0 {
		return nil, xerrors.ErrNoValidPrivilegesSelected
	}
	if len(unresolved) > 0 {
		s.logger.Warn("skipping unresolved privilege tokens",
			zap.String("target_email", req.Email),
			zap.Strings("unresolved", unresolved))
	}

	unlock := s.targets.lock(req.Email)
	defer unlock()

	outcome := &user.MutationOutcome{
		Action:       audit.ActionAdd,
		SubmittedIDs: ids,
		Unresolved:   unresolved,
	}

	if err := s.users.UpdatePrivileges(ctx, token, req.UserID, req.Email, audit.ActionAdd, ids); err != nil {
		s.recordMutation(ctx, actorID, req.UserID, req.Email, audit.ActionAdd, expectedNames(ids, catalog), false, err.Error())
		return nil, err
	}

	detail, verified, message := s.reconcile(ctx, token, req.Email, expectedNames(ids, catalog), "")
	outcome.Detail = detail
	outcome.Verified = verified
	outcome.UpstreamMessage = message

	s.recordMutation(ctx, actorID, req.UserID, req.Email, audit.ActionAdd, expectedNames(ids, catalog), true, "")
	s.publishPrivilegesUpdated(req.UserID, req.Email, audit.ActionAdd)
	return outcome, nil
}

// ResetPrivileges clears the target's added privileges back to their role
// baseline. Destructive, so the handler requires explicit confirmation before
// this is reached.
func (s *UserService) ResetPrivileges(ctx context.Context, token, actorID string, req *user.ResetPrivilegesRequest) (*user.MutationOutcome, error) {
	if req.UserID == "" || req.Email == "" {
		return nil, xerrors.ErrMissingIdentifier
	}
	if err := s.checkMutationRate(ctx, actorID, req.Email); err != nil {
		return nil, err
	}

	unlock := s.targets.lock(req.Email)
	defer unlock()

	// Snapshot the pre-mutation state: the verification below must never
	// accept a read that still equals it, however consistently the backend
	// serves it.
	prior := ""
	if raw, err := s.users.GetUserDetail(ctx, token, req.Email); err == nil {
		prior = fingerprint(normalizeDetail(req.Email, raw).Privileges)
	}

	if err := s.users.UpdatePrivileges(ctx, token, req.UserID, req.Email, audit.ActionReset, nil); err != nil {
		s.recordMutation(ctx, actorID, req.UserID, req.Email, audit.ActionReset, nil, false, err.Error())
		return nil, err
	}

	// No target privilege set to wait for after a reset; settle for two
	// consecutive consistent reads that have moved past the snapshot.
	detail, verified, message := s.reconcile(ctx, token, req.Email, nil, prior)

	s.recordMutation(ctx, actorID, req.UserID, req.Email, audit.ActionReset, nil, true, "")
	s.publishPrivilegesUpdated(req.UserID, req.Email, audit.ActionReset)

	return &user.MutationOutcome{
		Action:          audit.ActionReset,
		Detail:          detail,
		Verified:        verified,
		UpstreamMessage: message,
	}, nil
}

// reconcile polls the detail endpoint until it reflects the mutation or the
// deadline passes. With expected names it waits for all of them to appear;
// without, it waits for two consecutive reads that agree with each other and
// differ from the prior fingerprint. Returns the last detail read either way;
// verified reports whether consistency was observed in time, and message
// carries the last obstacle when it was not.
func (s *UserService) reconcile(ctx context.Context, token, email string, expected []string, prior string) (*user.Detail, bool, string) {
	deadline := s.reconcileIn
	if deadline <= 0 {
		deadline = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	policy := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(200*time.Millisecond),
		backoff.WithMaxInterval(2*time.Second),
	), ctx)

	var last *user.Detail
	var prevFingerprint string
	verified := false

	op := func() error {
		raw, err := s.users.GetUserDetail(ctx, token, email)
		if err != nil {
			return err
		}
		last = normalizeDetail(email, raw)

		if len(expected) > 0 {
			if containsAll(last.Privileges, expected) {
				verified = true
				return nil
			}
			return fmt.Errorf("privileges not yet visible")
		}

		fp := fingerprint(last.Privileges)
		if fp == prior && prior != "" {
			prevFingerprint = ""
			return fmt.Errorf("detail still at pre-mutation state")
		}
		if prevFingerprint != "" && fp == prevFingerprint {
			verified = true
			return nil
		}
		prevFingerprint = fp
		return fmt.Errorf("detail not yet settled")
	}

	if err := backoff.Retry(op, policy); err != nil {
		s.logger.Warn("privilege mutation not confirmed before deadline",
			zap.String("target_email", email),
			zap.Error(err))
		return last, verified, xerrors.MessageOrDefault(err, "mutation not confirmed before deadline")
	}
	return last, verified, ""
}

func (s *UserService) checkMutationRate(ctx context.Context, actorID, targetEmail string) error {
	if s.limiter == nil {
		return nil
	}
	allowed, _, err := s.limiter.CheckMutationAttempt(ctx, actorID, targetEmail)
	if err != nil {
		s.logger.Warn("rate limiter unavailable, allowing mutation", zap.Error(err))
		return nil
	}
	if !allowed {
		return xerrors.ErrRateLimited
	}
	return nil
}

func (s *UserService) recordMutation(ctx context.Context, actorID, targetID, targetEmail, action string, names []string, succeeded bool, message string) {
	if s.auditRepo == nil {
		return
	}
	m := &audit.PrivilegeMutation{
		ActorID:        actorID,
		TargetUserID:   targetID,
		TargetEmail:    targetEmail,
		Action:         action,
		PrivilegeNames: pq.StringArray(names),
		Succeeded:      succeeded,
		Message:        message,
	}
	if err := s.auditRepo.RecordPrivilegeMutation(ctx, m); err != nil {
		s.logger.Error("failed to record privilege mutation audit",
			zap.String("target_email", targetEmail),
			zap.Error(err))
	}
}

func (s *UserService) publishPrivilegesUpdated(userID, email, action string) {
	if s.events == nil {
		return
	}
	s.events.Broadcast(wstypes.EventPrivilegesUpdated, map[string]string{
		"userId": userID,
		"email":  email,
		"action": action,
	})
}

// MutationHistory returns the recent audit trail for one target email.
func (s *UserService) MutationHistory(ctx context.Context, targetEmail string, limit int) ([]audit.PrivilegeMutation, error) {
	if targetEmail == "" {
		return nil, xerrors.ErrMissingIdentifier
	}
	if s.auditRepo == nil {
		return []audit.PrivilegeMutation{}, nil
	}
	return s.auditRepo.ListRecentForTarget(ctx, targetEmail, limit)
}

// expectedNames maps resolved ids back to display names via the catalog.
func expectedNames(ids []int64, catalog []privilege.CatalogEntry) []string {
	byID := make(map[int64]string, len(catalog))
	for _, e := range catalog {
		byID[e.ID] = e.DisplayName()
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

func containsAll(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}

func fingerprint(names []string) string {
	sorted := append([]string(nil), names...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return fmt.Sprintf("%q", sorted)
}
