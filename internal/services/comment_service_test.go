package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/socialhub/backend/internal/models"
	"github.com/anonto42/socialhub/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type postCounterStub struct {
	mu         sync.Mutex
	increments map[string]int
	decrements map[string]int
	err        error
}

func newPostCounterStub() *postCounterStub {
	return &postCounterStub{increments: map[string]int{}, decrements: map[string]int{}}
}

func (p *postCounterStub) IncrementCommentsCount(_ context.Context, postID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.increments[postID]++
	return p.err
}

func (p *postCounterStub) DecrementCommentsCount(_ context.Context, postID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.decrements[postID]++
	return p.err
}

type activityStub struct {
	replies []*models.CommentReply
	likes   []*models.CommentLike
}

func (a *activityStub) CommentReplied(_ context.Context, _ *models.Comment, reply *models.CommentReply) error {
	a.replies = append(a.replies, reply)
	return nil
}

func (a *activityStub) CommentLiked(_ context.Context, _ models.CommentEntry, like *models.CommentLike) error {
	a.likes = append(a.likes, like)
	return nil
}

type testEnv struct {
	svc      *CommentService
	db       *gorm.DB
	posts    *postCounterStub
	activity *activityStub
}

// tickingClock hands gorm strictly increasing timestamps so ordering is deterministic
func tickingClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func setupService(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: tickingClock(),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.Comment{}, &models.CommentReply{}, &models.CommentLike{}))

	env := &testEnv{db: db, posts: newPostCounterStub(), activity: &activityStub{}}
	env.svc = NewCommentService(
		repositories.NewPostgresCommentRepository(db),
		repositories.NewPostgresCommentLikeRepository(db),
		env.posts,
		env.activity,
		nil,
	)
	return env
}

func (e *testEnv) addComment(t *testing.T, userID, postID, content string) *models.Comment {
	t.Helper()
	c, err := e.svc.AddComment(context.Background(), AddCommentInput{
		UserID:         userID,
		PostID:         postID,
		Content:        content,
		Classification: models.ClassificationRegularPost,
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) reply(t *testing.T, commentID, userID, content string) *models.CommentReply {
	t.Helper()
	r, err := e.svc.ReplyToComment(context.Background(), ReplyInput{CommentID: commentID, UserID: userID, Content: content})
	require.NoError(t, err)
	return r
}

func (e *testEnv) like(t *testing.T, id string, typ models.CommentType, userID string, like bool) *LikeResult {
	t.Helper()
	res, err := e.svc.LikeOrUnlikeComment(context.Background(), LikeInput{
		CommentID:      id,
		PostID:         "p1",
		UserID:         userID,
		Like:           like,
		Classification: models.ClassificationRegularPost,
		Type:           typ,
	})
	require.NoError(t, err)
	return res
}

func (e *testEnv) countLikes(t *testing.T, commentID, userID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.CommentLike{}).Where("comment_id = ? AND user_id = ?", commentID, userID).Count(&n).Error)
	return n
}

func TestCommentService_AddComment(t *testing.T) {
	env := setupService(t)

	c := env.addComment(t, "u1", "p1", "first!")
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, models.CommentStatusActive, c.Status)
	assert.False(t, c.DeletedAt.Valid)
	assert.Equal(t, 1, env.posts.increments["p1"])

	t.Run("invalid classification", func(t *testing.T) {
		_, err := env.svc.AddComment(context.Background(), AddCommentInput{
			UserID: "u1", PostID: "p1", Content: "x", Classification: "STORY",
		})
		assert.True(t, models.IsKind(err, models.KindValidation))
	})

	t.Run("blank content", func(t *testing.T) {
		_, err := env.svc.AddComment(context.Background(), AddCommentInput{UserID: "u1", PostID: "p1", Content: "  "})
		assert.True(t, models.IsKind(err, models.KindValidation))
	})

	assert.Equal(t, 1, env.posts.increments["p1"])
}

func TestCommentService_AddCommentSurvivesCounterFailure(t *testing.T) {
	env := setupService(t)
	env.posts.err = errors.New("mongo down")

	c := env.addComment(t, "u1", "p1", "still saved")
	assert.NotEmpty(t, c.ID)
}

func TestCommentService_GetCommentsByPost(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	older := env.addComment(t, "u1", "p1", "older")
	removed := env.addComment(t, "u2", "p1", "removed")
	newer := env.addComment(t, "u3", "p1", "newer")
	env.addComment(t, "u1", "p2", "elsewhere")

	r1 := env.reply(t, older.ID, "u2", "r1")
	gone := env.reply(t, older.ID, "u3", "gone")
	r2 := env.reply(t, older.ID, "u1", "r2")

	require.NoError(t, env.svc.RemoveComment(ctx, RemoveCommentInput{ID: removed.ID, UserID: "u2", Type: models.CommentTypeComment}))
	require.NoError(t, env.svc.RemoveComment(ctx, RemoveCommentInput{ID: gone.ID, UserID: "u3", Type: models.CommentTypeReply}))

	env.like(t, older.ID, models.CommentTypeComment, "viewer", true)
	env.like(t, older.ID, models.CommentTypeComment, "u2", true)
	env.like(t, r2.ID, models.CommentTypeReply, "u2", true)

	views, err := env.svc.GetCommentsByPost(ctx, GetCommentsInput{PostID: "p1", RequestingUserID: "viewer"})
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, newer.ID, views[0].ID)
	assert.Empty(t, views[0].Replies)
	assert.NotNil(t, views[0].Replies)

	assert.Equal(t, older.ID, views[1].ID)
	assert.True(t, views[1].IsLiked)
	assert.Equal(t, int64(2), views[1].LikesCount)
	require.Len(t, views[1].Replies, 2)
	assert.Equal(t, r1.ID, views[1].Replies[0].ID)
	assert.Equal(t, r2.ID, views[1].Replies[1].ID)
	assert.Equal(t, models.CommentStatusActive, views[1].Replies[1].Status)
	assert.False(t, views[1].Replies[1].IsLiked)
	assert.Equal(t, int64(1), views[1].Replies[1].LikesCount)

	none, err := env.svc.GetCommentsByPost(ctx, GetCommentsInput{PostID: "nothing"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = env.svc.GetCommentsByPost(ctx, GetCommentsInput{})
	assert.True(t, models.IsKind(err, models.KindValidation))
}

func TestCommentService_UpdateComment(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	c := env.addComment(t, "owner", "p1", "before")
	r := env.reply(t, c.ID, "replier", "reply before")

	entry, err := env.svc.UpdateComment(ctx, UpdateCommentInput{ID: c.ID, UserID: "owner", Content: "after", Type: models.CommentTypeComment})
	require.NoError(t, err)
	assert.Equal(t, "after", entry.Comment.Content)

	entry, err = env.svc.UpdateComment(ctx, UpdateCommentInput{ID: r.ID, UserID: "replier", Content: "reply after", Type: models.CommentTypeReply})
	require.NoError(t, err)
	assert.Equal(t, "reply after", entry.Reply.Content)

	tests := []struct {
		name string
		in   UpdateCommentInput
		kind models.ErrorKind
	}{
		{"not the owner", UpdateCommentInput{ID: c.ID, UserID: "intruder", Content: "x", Type: models.CommentTypeComment}, models.KindNotAuthorizedOrNotFound},
		{"missing id", UpdateCommentInput{ID: "missing", UserID: "owner", Content: "x", Type: models.CommentTypeComment}, models.KindNotAuthorizedOrNotFound},
		{"wrong type", UpdateCommentInput{ID: r.ID, UserID: "replier", Content: "x", Type: models.CommentTypeComment}, models.KindNotAuthorizedOrNotFound},
		{"empty content", UpdateCommentInput{ID: c.ID, UserID: "owner", Content: "", Type: models.CommentTypeComment}, models.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.UpdateComment(ctx, tt.in)
			assert.True(t, models.IsKind(err, tt.kind), "got %v", err)
		})
	}

	// content is unchanged by the failed attempts
	got, _, err := repositories.NewPostgresCommentRepository(env.db).GetByID(ctx, c.ID, models.CommentTypeComment)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Comment.Content)
}

func TestCommentService_UpdateRemovedComment(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	c := env.addComment(t, "owner", "p1", "before")
	require.NoError(t, env.svc.RemoveComment(ctx, RemoveCommentInput{ID: c.ID, UserID: "owner", Type: models.CommentTypeComment}))

	_, err := env.svc.UpdateComment(ctx, UpdateCommentInput{ID: c.ID, UserID: "owner", Content: "after", Type: models.CommentTypeComment})
	assert.True(t, models.IsKind(err, models.KindNotAuthorizedOrNotFound))
}

func TestCommentService_RemoveComment(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	repo := repositories.NewPostgresCommentRepository(env.db)

	c := env.addComment(t, "owner", "p1", "to remove")
	r := env.reply(t, c.ID, "replier", "reply")

	t.Run("missing id", func(t *testing.T) {
		err := env.svc.RemoveComment(ctx, RemoveCommentInput{ID: "missing", Type: models.CommentTypeComment})
		assert.True(t, models.IsKind(err, models.KindNotFound))
	})

	t.Run("not the owner", func(t *testing.T) {
		err := env.svc.RemoveComment(ctx, RemoveCommentInput{ID: c.ID, UserID: "intruder", Type: models.CommentTypeComment})
		assert.True(t, models.IsKind(err, models.KindNotAuthorizedOrNotFound))
	})

	t.Run("id only exists as the other type", func(t *testing.T) {
		err := env.svc.RemoveComment(ctx, RemoveCommentInput{ID: r.ID, UserID: "replier", Type: models.CommentTypeComment})
		assert.NoError(t, err)
		entry, _, err := repo.GetByID(ctx, r.ID, models.CommentTypeReply)
		require.NoError(t, err)
		assert.False(t, entry.Removed())
	})

	t.Run("repeated removal keeps the first timestamp", func(t *testing.T) {
		in := RemoveCommentInput{ID: c.ID, UserID: "owner", Type: models.CommentTypeComment}
		require.NoError(t, env.svc.RemoveComment(ctx, in))
		first, found, err := repo.GetByID(ctx, c.ID, models.CommentTypeComment)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, models.CommentStatusRemoved, first.Comment.Status)
		assert.True(t, first.Comment.DeletedAt.Valid)

		require.NoError(t, env.svc.RemoveComment(ctx, in))
		second, _, err := repo.GetByID(ctx, c.ID, models.CommentTypeComment)
		require.NoError(t, err)
		assert.True(t, first.Comment.DeletedAt.Time.Equal(second.Comment.DeletedAt.Time))
		assert.Equal(t, 1, env.posts.decrements["p1"])
	})

	t.Run("reply removal leaves the post counter alone", func(t *testing.T) {
		require.NoError(t, env.svc.RemoveComment(ctx, RemoveCommentInput{ID: r.ID, UserID: "replier", Type: models.CommentTypeReply}))
		entry, _, err := repo.GetByID(ctx, r.ID, models.CommentTypeReply)
		require.NoError(t, err)
		assert.True(t, entry.Removed())
		assert.Equal(t, 1, env.posts.decrements["p1"])
	})
}

func TestCommentService_ReplyToComment(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	c := env.addComment(t, "owner", "p1", "parent")

	self := env.reply(t, c.ID, "owner", "talking to myself")
	assert.Equal(t, c.ID, self.CommentID)
	assert.Empty(t, env.activity.replies)

	other := env.reply(t, c.ID, "friend", "hi")
	require.Len(t, env.activity.replies, 1)
	assert.Equal(t, other.ID, env.activity.replies[0].ID)

	_, err := env.svc.ReplyToComment(ctx, ReplyInput{CommentID: "missing", UserID: "friend", Content: "hi"})
	assert.True(t, models.IsKind(err, models.KindNotFound))

	// replies cannot be nested
	_, err = env.svc.ReplyToComment(ctx, ReplyInput{CommentID: other.ID, UserID: "owner", Content: "hi"})
	assert.True(t, models.IsKind(err, models.KindNotFound))

	_, err = env.svc.ReplyToComment(ctx, ReplyInput{CommentID: c.ID, UserID: "friend", Content: ""})
	assert.True(t, models.IsKind(err, models.KindValidation))

	require.NoError(t, env.svc.RemoveComment(ctx, RemoveCommentInput{ID: c.ID, UserID: "owner", Type: models.CommentTypeComment}))
	_, err = env.svc.ReplyToComment(ctx, ReplyInput{CommentID: c.ID, UserID: "friend", Content: "too late"})
	assert.True(t, models.IsKind(err, models.KindNotFound))
}

func TestCommentService_LikeIsIdempotent(t *testing.T) {
	env := setupService(t)
	c := env.addComment(t, "owner", "p1", "likeable")

	first := env.like(t, c.ID, models.CommentTypeComment, "fan", true)
	assert.True(t, first.Liked)
	assert.True(t, first.Changed)
	require.NotNil(t, first.Like)

	second := env.like(t, c.ID, models.CommentTypeComment, "fan", true)
	assert.True(t, second.Liked)
	assert.False(t, second.Changed)
	assert.Equal(t, first.Like.ID, second.Like.ID)

	assert.Equal(t, int64(1), env.countLikes(t, c.ID, "fan"))
	assert.Len(t, env.activity.likes, 1)
}

func TestCommentService_LikeThenUnlike(t *testing.T) {
	env := setupService(t)
	c := env.addComment(t, "owner", "p1", "likeable")
	r := env.reply(t, c.ID, "friend", "reply")

	for _, target := range []struct {
		id  string
		typ models.CommentType
	}{{c.ID, models.CommentTypeComment}, {r.ID, models.CommentTypeReply}} {
		env.like(t, target.id, target.typ, "fan", true)
		res := env.like(t, target.id, target.typ, "fan", false)
		assert.False(t, res.Liked)
		assert.True(t, res.Changed)
		assert.Zero(t, env.countLikes(t, target.id, "fan"))

		again := env.like(t, target.id, target.typ, "fan", false)
		assert.False(t, again.Changed)
	}
}

func TestCommentService_LikeRules(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	c := env.addComment(t, "owner", "p1", "likeable")

	// self-likes are allowed but not notified
	res := env.like(t, c.ID, models.CommentTypeComment, "owner", true)
	assert.True(t, res.Changed)
	assert.Empty(t, env.activity.likes)

	_, err := env.svc.LikeOrUnlikeComment(ctx, LikeInput{CommentID: "missing", UserID: "fan", Like: true})
	assert.True(t, models.IsKind(err, models.KindNotFound))

	_, err = env.svc.LikeOrUnlikeComment(ctx, LikeInput{CommentID: c.ID, UserID: "fan", Like: true, Type: models.CommentTypeReply})
	assert.True(t, models.IsKind(err, models.KindNotFound))

	_, err = env.svc.LikeOrUnlikeComment(ctx, LikeInput{CommentID: c.ID, Like: true})
	assert.True(t, models.IsKind(err, models.KindValidation))

	require.NoError(t, env.svc.RemoveComment(ctx, RemoveCommentInput{ID: c.ID, UserID: "owner", Type: models.CommentTypeComment}))
	_, err = env.svc.LikeOrUnlikeComment(ctx, LikeInput{CommentID: c.ID, UserID: "fan", Like: true})
	assert.True(t, models.IsKind(err, models.KindNotFound))
}

type failingCommentRepository struct {
	repositories.CommentRepository
	err error
}

func (f failingCommentRepository) ListByPostID(context.Context, string, models.Classification) ([]models.Comment, error) {
	return nil, f.err
}

func (f failingCommentRepository) FindTypesByID(context.Context, string) ([]models.CommentType, error) {
	return nil, models.NewStorageError("comment.find_types", f.err)
}

func TestCommentService_StorageFailures(t *testing.T) {
	driverErr := errors.New("connection refused")
	svc := NewCommentService(failingCommentRepository{err: driverErr}, nil, nil, nil, nil)

	_, err := svc.GetCommentsByPost(context.Background(), GetCommentsInput{PostID: "p1"})
	assert.True(t, models.IsKind(err, models.KindStorage))
	assert.ErrorIs(t, err, driverErr)

	err = svc.RemoveComment(context.Background(), RemoveCommentInput{ID: "c1", Type: models.CommentTypeComment})
	assert.True(t, models.IsKind(err, models.KindStorage))
	assert.ErrorIs(t, err, driverErr)
}
