package service

import (
	"context"
	"log/slog"

	"bookclub/internal/models"
	"bookclub/internal/observability"
	"bookclub/internal/repository"
)

type PostService struct {
	postRepo         repository.PostRepository
	notificationRepo repository.NotificationRepository
	isAdmin          func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID  uint
	Title   string `json:"title"`
	Content string `json:"content"`
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Title   string `json:"title"`
	Content string `json:"content"`
}

func NewPostService(
	postRepo repository.PostRepository,
	notificationRepo repository.NotificationRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:         postRepo,
		notificationRepo: notificationRepo,
		isAdmin:          isAdmin,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	fields := map[string]string{}
	if in.Title == "" {
		fields["title"] = "Title is required"
	}
	if in.Content == "" {
		fields["content"] = "Content is required"
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	post := &models.Post{Title: in.Title, Content: in.Content, UserID: in.UserID}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, viewerID)
}

func (s *PostService) ListPosts(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, viewerID, limit, offset)
}

func (s *PostService) ListUserPosts(ctx context.Context, userID, viewerID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListByUser(ctx, userID, viewerID, limit, offset)
}

// Feed returns posts from users the viewer follows, newest first.
func (s *PostService) Feed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.Feed(ctx, userID, limit, offset)
}

// UpdatePost lets the author edit their post. Admins cannot edit posts they
// don't own; they can only remove them.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	fields := map[string]string{}
	if in.Title == "" {
		fields["title"] = "Title is required"
	}
	if in.Content == "" {
		fields["content"] = "Content is required"
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	post.Title = in.Title
	post.Content = in.Content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, in.PostID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}
	return s.postRepo.Delete(ctx, postID)
}

// LikePost records a like. A repeat like is the caller's error, reported as
// a validation failure so the handler can answer 400.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}

	created, err := s.postRepo.Like(ctx, userID, postID)
	if err != nil {
		observability.LikeOperations.WithLabelValues("like", "error").Inc()
		return err
	}
	if !created {
		observability.LikeOperations.WithLabelValues("like", "duplicate").Inc()
		return models.NewValidationError("Already liked")
	}
	observability.LikeOperations.WithLabelValues("like", "created").Inc()

	// Every first like notifies the author, their own included. Only the
	// comment path skips the self case.
	n := &models.Notification{
		RecipientID: post.UserID,
		ActorID:     userID,
		Verb:        models.VerbLikedPost,
		TargetType:  models.TargetPost,
		TargetID:    postID,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		// The like stands even when the notification write fails.
		slog.WarnContext(ctx, "like notification not recorded", "post_id", postID, "err", err)
	}
	return nil
}

// UnlikePost removes a like and retracts its notification. Unliking a post
// that was never liked is the caller's error.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}

	removed, err := s.postRepo.Unlike(ctx, userID, postID)
	if err != nil {
		observability.LikeOperations.WithLabelValues("unlike", "error").Inc()
		return err
	}
	if !removed {
		observability.LikeOperations.WithLabelValues("unlike", "missing").Inc()
		return models.NewValidationError("You haven't liked this post")
	}
	observability.LikeOperations.WithLabelValues("unlike", "removed").Inc()

	err = s.notificationRepo.DeleteMatching(ctx, post.UserID, userID,
		models.VerbLikedPost, models.TargetPost, postID)
	if err != nil {
		slog.WarnContext(ctx, "like notification not retracted", "post_id", postID, "err", err)
	}
	return nil
}
