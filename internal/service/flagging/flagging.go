package flagging

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"labadmin-service/internal/domain/flagging"
	xerrors "labadmin-service/internal/pkg/errors"
	"labadmin-service/internal/repository/postgres"
)

type FlaggingService struct {
	repo   *postgres.FlaggingConfigRepository
	logger *zap.Logger
}

func NewFlaggingService(repo *postgres.FlaggingConfigRepository, logger *zap.Logger) *FlaggingService {
	return &FlaggingService{repo: repo, logger: logger}
}

// AddConfigs validates and stores a batch of flagging thresholds.
func (s *FlaggingService) AddConfigs(ctx context.Context, req *flagging.AddConfigsRequest) ([]flagging.View, error) {
	configs := make([]*flagging.Config, 0, len(req.Configs))
	for i := range req.Configs {
		in := &req.Configs[i]
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("%w: config %d: %s", xerrors.ErrInvalidInput, i+1, err.Error())
		}

		c := &flagging.Config{
			TestCode:      in.TestCode,
			ParameterName: in.ParameterName,
			Unit:          in.Unit,
			Min:           *in.Min,
			Max:           *in.Max,
			IsActive:      true,
			EffectiveDate: *in.EffectiveDate,
		}
		if in.Description != "" {
			c.Description = sql.NullString{String: in.Description, Valid: true}
		}
		if in.Gender != "" {
			c.Gender = sql.NullString{String: in.Gender, Valid: true}
		}
		if in.IsActive != nil {
			c.IsActive = *in.IsActive
		}
		configs = append(configs, c)
	}

	if err := s.repo.CreateBatch(ctx, configs); err != nil {
		return nil, err
	}

	views := make([]flagging.View, 0, len(configs))
	for _, c := range configs {
		views = append(views, c.ToView())
	}
	s.logger.Info("flagging configs created", zap.Int("count", len(views)))
	return views, nil
}

// ListConfigs returns every stored flagging threshold.
func (s *FlaggingService) ListConfigs(ctx context.Context) ([]flagging.View, error) {
	configs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]flagging.View, 0, len(configs))
	for _, c := range configs {
		views = append(views, c.ToView())
	}
	return views, nil
}
