package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/titik444/express-blog/internal/domain"
	"github.com/titik444/express-blog/internal/events"
	"github.com/titik444/express-blog/internal/repository"
	"github.com/titik444/express-blog/pkg/apperror"
)

// mockLikeRepository keeps memberships and counters in memory with the
// same arbitration the database gives: duplicate inserts fail, deletes
// without a row fail, and the counter moves only on success.
type mockLikeRepository struct {
	likes    map[string]bool
	counters map[string]int
	targets  map[string]bool
}

func newMockLikeRepository() *mockLikeRepository {
	return &mockLikeRepository{
		likes:    make(map[string]bool),
		counters: make(map[string]int),
		targets:  make(map[string]bool),
	}
}

func likeKey(target domain.LikeTarget, userID, targetID string) string {
	return string(target) + ":" + userID + ":" + targetID
}

func (r *mockLikeRepository) Exists(ctx context.Context, target domain.LikeTarget, userID, targetID string) (bool, error) {
	return r.likes[likeKey(target, userID, targetID)], nil
}

func (r *mockLikeRepository) TargetExists(ctx context.Context, target domain.LikeTarget, targetID string) (bool, error) {
	return r.targets[string(target)+":"+targetID], nil
}

func (r *mockLikeRepository) CreateAndIncrement(ctx context.Context, target domain.LikeTarget, userID, targetID string) error {
	key := likeKey(target, userID, targetID)
	if r.likes[key] {
		return repository.ErrDuplicateLike
	}
	r.likes[key] = true
	r.counters[string(target)+":"+targetID]++
	return nil
}

func (r *mockLikeRepository) DeleteAndDecrement(ctx context.Context, target domain.LikeTarget, userID, targetID string) error {
	key := likeKey(target, userID, targetID)
	if !r.likes[key] {
		return repository.ErrLikeNotFound
	}
	delete(r.likes, key)
	r.counters[string(target)+":"+targetID]--
	return nil
}

func (r *mockLikeRepository) addTarget(target domain.LikeTarget, targetID string) {
	r.targets[string(target)+":"+targetID] = true
}

func (r *mockLikeRepository) count(target domain.LikeTarget, targetID string) int {
	return r.counters[string(target)+":"+targetID]
}

func TestLikeService_Like(t *testing.T) {
	ctx := context.Background()

	t.Run("like increments counter once", func(t *testing.T) {
		repo := newMockLikeRepository()
		repo.addTarget(domain.LikeTargetPost, "post-1")
		svc := NewLikeService(repo, events.NewPublisher(nil))

		err := svc.Like(ctx, domain.LikeTargetPost, "user-1", "post-1")
		assert.NoError(t, err)
		assert.Equal(t, 1, repo.count(domain.LikeTargetPost, "post-1"))
	})

	t.Run("duplicate like conflicts and leaves counter untouched", func(t *testing.T) {
		repo := newMockLikeRepository()
		repo.addTarget(domain.LikeTargetPost, "post-1")
		svc := NewLikeService(repo, events.NewPublisher(nil))

		assert.NoError(t, svc.Like(ctx, domain.LikeTargetPost, "user-1", "post-1"))

		err := svc.Like(ctx, domain.LikeTargetPost, "user-1", "post-1")
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
		assert.Equal(t, 1, repo.count(domain.LikeTargetPost, "post-1"))
	})

	t.Run("distinct users each count", func(t *testing.T) {
		repo := newMockLikeRepository()
		repo.addTarget(domain.LikeTargetPost, "post-1")
		svc := NewLikeService(repo, events.NewPublisher(nil))

		assert.NoError(t, svc.Like(ctx, domain.LikeTargetPost, "user-1", "post-1"))
		assert.NoError(t, svc.Like(ctx, domain.LikeTargetPost, "user-2", "post-1"))
		assert.Equal(t, 2, repo.count(domain.LikeTargetPost, "post-1"))
	})

	t.Run("missing target", func(t *testing.T) {
		repo := newMockLikeRepository()
		svc := NewLikeService(repo, events.NewPublisher(nil))

		err := svc.Like(ctx, domain.LikeTargetPost, "user-1", "missing")
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})

	t.Run("comment target uses comment tables", func(t *testing.T) {
		repo := newMockLikeRepository()
		repo.addTarget(domain.LikeTargetComment, "comment-1")
		svc := NewLikeService(repo, events.NewPublisher(nil))

		assert.NoError(t, svc.Like(ctx, domain.LikeTargetComment, "user-1", "comment-1"))
		assert.Equal(t, 1, repo.count(domain.LikeTargetComment, "comment-1"))
		assert.Equal(t, 0, repo.count(domain.LikeTargetPost, "comment-1"))
	})
}

func TestLikeService_Unlike(t *testing.T) {
	ctx := context.Background()

	t.Run("unlike decrements counter", func(t *testing.T) {
		repo := newMockLikeRepository()
		repo.addTarget(domain.LikeTargetPost, "post-1")
		svc := NewLikeService(repo, events.NewPublisher(nil))

		assert.NoError(t, svc.Like(ctx, domain.LikeTargetPost, "user-1", "post-1"))
		assert.NoError(t, svc.Unlike(ctx, domain.LikeTargetPost, "user-1", "post-1"))
		assert.Equal(t, 0, repo.count(domain.LikeTargetPost, "post-1"))
	})

	t.Run("unlike without membership conflicts", func(t *testing.T) {
		repo := newMockLikeRepository()
		repo.addTarget(domain.LikeTargetPost, "post-1")
		svc := NewLikeService(repo, events.NewPublisher(nil))

		err := svc.Unlike(ctx, domain.LikeTargetPost, "user-1", "post-1")
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
		assert.Equal(t, 0, repo.count(domain.LikeTargetPost, "post-1"))
	})

	t.Run("double unlike conflicts on the second call", func(t *testing.T) {
		repo := newMockLikeRepository()
		repo.addTarget(domain.LikeTargetPost, "post-1")
		svc := NewLikeService(repo, events.NewPublisher(nil))

		assert.NoError(t, svc.Like(ctx, domain.LikeTargetPost, "user-1", "post-1"))
		assert.NoError(t, svc.Unlike(ctx, domain.LikeTargetPost, "user-1", "post-1"))

		err := svc.Unlike(ctx, domain.LikeTargetPost, "user-1", "post-1")
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
		assert.Equal(t, 0, repo.count(domain.LikeTargetPost, "post-1"))
	})

	t.Run("missing target", func(t *testing.T) {
		repo := newMockLikeRepository()
		svc := NewLikeService(repo, events.NewPublisher(nil))

		err := svc.Unlike(ctx, domain.LikeTargetPost, "user-1", "missing")
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})

	t.Run("like unlike like lands at one", func(t *testing.T) {
		repo := newMockLikeRepository()
		repo.addTarget(domain.LikeTargetPost, "post-1")
		svc := NewLikeService(repo, events.NewPublisher(nil))

		assert.NoError(t, svc.Like(ctx, domain.LikeTargetPost, "user-1", "post-1"))
		assert.NoError(t, svc.Unlike(ctx, domain.LikeTargetPost, "user-1", "post-1"))
		assert.NoError(t, svc.Like(ctx, domain.LikeTargetPost, "user-1", "post-1"))
		assert.Equal(t, 1, repo.count(domain.LikeTargetPost, "post-1"))
	})
}

func TestLikeService_IsLiked(t *testing.T) {
	ctx := context.Background()

	repo := newMockLikeRepository()
	repo.addTarget(domain.LikeTargetPost, "post-1")
	svc := NewLikeService(repo, events.NewPublisher(nil))

	liked, err := svc.IsLiked(ctx, domain.LikeTargetPost, "user-1", "post-1")
	assert.NoError(t, err)
	assert.False(t, liked)

	assert.NoError(t, svc.Like(ctx, domain.LikeTargetPost, "user-1", "post-1"))

	liked, err = svc.IsLiked(ctx, domain.LikeTargetPost, "user-1", "post-1")
	assert.NoError(t, err)
	assert.True(t, liked)

	assert.NoError(t, svc.Unlike(ctx, domain.LikeTargetPost, "user-1", "post-1"))

	liked, err = svc.IsLiked(ctx, domain.LikeTargetPost, "user-1", "post-1")
	assert.NoError(t, err)
	assert.False(t, liked)
}
