package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mailapi/backend/internal/domain"
	"mailapi/backend/internal/storage"
)

// MailService 封装邮件列表、读取、撰写和移动操作。
type MailService struct {
	repo  storage.MailboxRepository
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

// NewMailService 创建邮件业务服务。
func NewMailService(repo storage.MailboxRepository, log *zap.Logger) *MailService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MailService{
		repo:  repo,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// List 返回邮箱列表视图。name 为空时返回全部邮箱。
func (s *MailService) List(name string) ([]domain.Mailbox, error) {
	var views []domain.Mailbox
	err := s.repo.View(func(boxes *domain.Mailboxes) error {
		if name == "" {
			views = boxes.Views()
			return nil
		}
		view, ok := boxes.View(name)
		if !ok {
			return domain.ErrMailboxNotFound
		}
		views = []domain.Mailbox{view}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("mail listed", zap.String("mailbox", name), zap.Int("mailboxes", len(views)))
	return views, nil
}

// Get 按 ID 返回完整邮件。
func (s *MailService) Get(id string) (*domain.Message, error) {
	var found domain.Message
	err := s.repo.View(func(boxes *domain.Mailboxes) error {
		name, idx, ok := boxes.Find(id)
		if !ok {
			return domain.ErrMessageNotFound
		}
		msgs, _ := boxes.Messages(name)
		found = msgs[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// Compose 生成一封新邮件并放入 sent 邮箱。
func (s *MailService) Compose(ctx context.Context, input domain.ComposeInput) (*domain.Message, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	msg := domain.Message{
		ID:        s.newID(),
		ToName:    input.ToName,
		ToEmail:   input.ToEmail,
		FromName:  domain.DefaultSenderName,
		FromEmail: domain.DefaultSenderEmail,
		Subject:   input.Subject,
		Received:  s.now(),
		Content:   input.Content,
	}

	err := s.repo.Update(ctx, func(boxes *domain.Mailboxes) error {
		if _, _, exists := boxes.Find(msg.ID); exists {
			return domain.ErrDuplicateID
		}
		boxes.Append(domain.MailboxSent, msg)
		return nil
	})
	if err != nil {
		s.log.Warn("compose failed", zap.Error(err))
		return nil, err
	}

	s.log.Info("mail composed", zap.String("id", msg.ID))
	return &msg, nil
}

// Move 把邮件移动到目标邮箱，目标不存在时自动创建。
//
// 只有已在 sent 中的邮件可以移入 sent。
func (s *MailService) Move(ctx context.Context, id, mailbox string) error {
	if mailbox == "" {
		return domain.ErrMailboxRequired
	}

	var from string
	err := s.repo.Update(ctx, func(boxes *domain.Mailboxes) error {
		name, idx, ok := boxes.Find(id)
		if !ok {
			return domain.ErrMessageNotFound
		}
		if mailbox == domain.MailboxSent && name != domain.MailboxSent {
			return domain.ErrMoveToSent
		}

		from = name
		msg := boxes.Remove(name, idx)
		boxes.Append(mailbox, msg)
		return nil
	})
	if err != nil {
		s.log.Debug("move rejected", zap.String("id", id), zap.String("to", mailbox), zap.Error(err))
		return err
	}

	s.log.Info("mail moved", zap.String("id", id), zap.String("from", from), zap.String("to", mailbox))
	return nil
}

// Stats 返回邮箱数与邮件总数，读取失败时返回 0 并记录 debug 日志。
func (s *MailService) Stats() (mailboxes, messages int) {
	err := s.repo.View(func(boxes *domain.Mailboxes) error {
		mailboxes, messages = boxes.Count()
		return nil
	})
	if err != nil {
		s.log.Debug("mail stats unavailable", zap.Error(err))
		return 0, 0
	}
	return mailboxes, messages
}

// Health 检查底层存储。
func (s *MailService) Health() error {
	return s.repo.Health()
}
