package game

import (
	"context"

	apperrors "github.com/nightbus/nightbus/internal/platform/errors"
	"github.com/nightbus/nightbus/internal/platform/grpc/pagination"
	"github.com/nightbus/nightbus/internal/services/game/api/grpc/auth"
	"github.com/nightbus/nightbus/internal/services/game/core/filter"
	"github.com/nightbus/nightbus/internal/services/game/play"
	"github.com/nightbus/nightbus/internal/services/game/storage"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultListAnalyticsPageSize = 50
	maxListAnalyticsPageSize     = 200
)

// AdminService implements the nightbus.game.v1.AdminService gRPC API.
type AdminService struct {
	flow      *play.GameFlow
	analytics storage.AnalyticsStore
}

// NewAdminService creates an AdminService.
func NewAdminService(flow *play.GameFlow, analytics storage.AnalyticsStore) *AdminService {
	return &AdminService{flow: flow, analytics: analytics}
}

var _ AdminServiceServer = (*AdminService)(nil)

// CleanupStaleSessions deletes sessions older than max_age_days and reports
// how many were removed.
func (s *AdminService) CleanupStaleSessions(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	days, err := intField(in, fieldMaxAgeDays, -1)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	if days < 0 {
		return nil, handleDomainError(ctx, invalidField(fieldMaxAgeDays, "must be zero or positive"))
	}
	removed, err := s.flow.CleanupStale(ctx, days)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return respond(ctx, map[string]any{fieldRemoved: removed})
}

// ListAnalyticsEvents pages through analytics events matching an AIP-160
// filter over kind, character_id, story_id, option_id, reason, request_id
// and ts.
func (s *AdminService) ListAnalyticsEvents(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	if s.analytics == nil {
		return nil, handleDomainError(ctx, apperrors.New(apperrors.CodeUnknown, "analytics store is not configured"))
	}

	filterStr, err := stringField(in, fieldFilter)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	cond, err := filter.ParseAnalyticsFilter(filterStr)
	if err != nil {
		return nil, handleDomainError(ctx, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid filter", err))
	}
	size, err := intField(in, fieldPageSize, 0)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	token, err := stringField(in, fieldPageToken)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	afterSeq, err := pagination.DecodeCursor(token)
	if err != nil {
		return nil, handleDomainError(ctx, invalidField(fieldPageToken, "is invalid"))
	}

	page, err := s.analytics.ListAnalyticsEvents(ctx, storage.ListAnalyticsEventsRequest{
		PageSize: pagination.ClampPageSize(int32(size), pagination.PageSizeConfig{
			Default: defaultListAnalyticsPageSize,
			Max:     maxListAnalyticsPageSize,
		}),
		AfterSeq:     afterSeq,
		FilterClause: cond.Clause,
		FilterParams: cond.Params,
	})
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}

	events := make([]any, 0, len(page.Events))
	for _, evt := range page.Events {
		events = append(events, analyticsEventToMap(evt))
	}
	nextToken := ""
	if page.HasMore && len(page.Events) > 0 {
		nextToken = pagination.EncodeCursor(page.Events[len(page.Events)-1].Seq)
	}
	return respond(ctx, map[string]any{
		"events":          events,
		"next_page_token": nextToken,
	})
}
