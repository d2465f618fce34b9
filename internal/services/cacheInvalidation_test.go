package services

import (
	"context"
	"testing"

	"estimator/internal/events"
	"estimator/internal/querykeys"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"
)

type recordingPublisher struct {
	published []events.Invalidation
	err       error
}

func (p *recordingPublisher) PublishInvalidation(invalidation events.Invalidation) error {
	p.published = append(p.published, invalidation)
	return p.err
}

func TestCacheInvalidationService_ExactTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mock.NewClient(ctrl)
	publisher := &recordingPublisher{}
	service := NewCacheInvalidationService(cache, publisher)

	cache.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "estimates")).
		Return(mock.Result(mock.ValkeyInt64(1)))

	invalidation := events.Invalidation{
		Targets: []events.Target{events.Exact(querykeys.Estimates.All())},
	}
	require.NoError(t, service.Invalidate(context.Background(), invalidation))

	require.Len(t, publisher.published, 1)
	assert.Equal(t, invalidation, publisher.published[0])
}

func TestCacheInvalidationService_TreeTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mock.NewClient(ctrl)
	publisher := &recordingPublisher{}
	service := NewCacheInvalidationService(cache, publisher)

	gomock.InOrder(
		cache.EXPECT().
			Do(gomock.Any(), mock.Match("DEL", "stages:proj-1")).
			Return(mock.Result(mock.ValkeyInt64(1))),
		cache.EXPECT().
			Do(gomock.Any(), mock.Match("SCAN", "0", "MATCH", "stages:proj-1:*", "COUNT", "200")).
			Return(mock.Result(mock.ValkeyArray(
				mock.ValkeyString("0"),
				mock.ValkeyArray(mock.ValkeyString("stages:proj-1:archived")),
			))),
		cache.EXPECT().
			Do(gomock.Any(), mock.Match("DEL", "stages:proj-1:archived")).
			Return(mock.Result(mock.ValkeyInt64(1))),
	)

	err := service.Invalidate(context.Background(), events.Invalidation{
		Targets: []events.Target{events.Tree(querykeys.Stages.ByProject("proj-1"))},
	})
	require.NoError(t, err)
	assert.Len(t, publisher.published, 1)
}

func TestCacheInvalidationService_ExactTargetsShareOneDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mock.NewClient(ctrl)
	publisher := &recordingPublisher{}
	service := NewCacheInvalidationService(cache, publisher)

	first, second := uuid.NewString(), uuid.NewString()
	cache.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "estimates", "estimates:"+first, "estimates:"+second)).
		Return(mock.Result(mock.ValkeyInt64(3))).
		Times(1)

	err := service.Invalidate(context.Background(), events.Invalidation{
		Targets: []events.Target{
			events.Exact(querykeys.Estimates.All()),
			events.Exact(querykeys.Estimates.Detail(first)),
			events.Exact(querykeys.Estimates.Detail(second)),
		},
	})
	require.NoError(t, err)
	assert.Len(t, publisher.published, 1)
}

func TestCacheInvalidationService_UserScopedTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mock.NewClient(ctrl)
	publisher := &recordingPublisher{}
	service := NewCacheInvalidationService(cache, publisher)

	userID := uuid.New()
	cache.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "user:profile:"+userID.String())).
		Return(mock.Result(mock.ValkeyInt64(1)))

	err := service.Invalidate(context.Background(), events.Invalidation{
		Targets: []events.Target{events.Exact(querykeys.User.Profile())},
		UserID:  &userID,
	})
	require.NoError(t, err)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, querykeys.Key{"user", "profile"}, publisher.published[0].Targets[0].Key)
}

func TestCacheInvalidationService_EvictionFailureStillPublishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mock.NewClient(ctrl)
	publisher := &recordingPublisher{}
	service := NewCacheInvalidationService(cache, publisher)

	cache.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "estimates")).
		Return(mock.ErrorResult(assert.AnError))

	err := service.Invalidate(context.Background(), events.Invalidation{
		Targets: []events.Target{events.Exact(querykeys.Estimates.All())},
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Len(t, publisher.published, 1)
}

func TestCacheInvalidationService_NoTargets(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mock.NewClient(ctrl)
	publisher := &recordingPublisher{}
	service := NewCacheInvalidationService(cache, publisher)

	require.NoError(t, service.Invalidate(context.Background(), events.Invalidation{}))
	assert.Empty(t, publisher.published)
}
