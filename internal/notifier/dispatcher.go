package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/socialhub/backend/internal/auth"
	"github.com/anonto42/socialhub/backend/internal/models"
	"github.com/anonto42/socialhub/backend/internal/repositories"
	"go.uber.org/zap"
)

// Dispatcher records notifications for comment activity and emails reply
// alerts to the parent author when the directory knows their address.
type Dispatcher struct {
	notifications repositories.NotificationRepository
	directory     auth.Directory
	mailer        Mailer
	log           *zap.Logger
}

// NewDispatcher creates a Dispatcher. directory may be nil, which disables email.
func NewDispatcher(notifications repositories.NotificationRepository, directory auth.Directory, mailer Mailer, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		notifications: notifications,
		directory:     directory,
		mailer:        mailer,
		log:           log,
	}
}

func (d *Dispatcher) CommentReplied(ctx context.Context, parent *models.Comment, reply *models.CommentReply) error {
	n := &models.Notification{
		Type:        models.NotificationTypeCommentReply,
		ActorID:     reply.UserID,
		RecipientID: parent.UserID,
		TargetID:    reply.ID,
		TargetType:  string(models.CommentTypeReply),
		Message:     "replied to your comment",
	}
	if err := d.notifications.CreateNotification(ctx, n); err != nil {
		return err
	}

	if d.directory == nil || d.mailer == nil {
		return nil
	}
	email, err := d.directory.EmailFor(ctx, parent.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownUser) {
			d.log.Debug("no email for reply recipient", zap.String("user_id", parent.UserID))
			return nil
		}
		return err
	}
	body := fmt.Sprintf("Someone replied to your comment:\n\n%s\n", reply.Content)
	return d.mailer.Send(ctx, email, "New reply to your comment", body)
}

func (d *Dispatcher) CommentLiked(ctx context.Context, target models.CommentEntry, like *models.CommentLike) error {
	return d.notifications.CreateNotification(ctx, &models.Notification{
		Type:        models.NotificationTypeCommentLike,
		ActorID:     like.UserID,
		RecipientID: target.OwnerID(),
		TargetID:    target.ID(),
		TargetType:  string(target.Type),
		Message:     "liked your " + string(target.Type),
	})
}
