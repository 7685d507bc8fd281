package notification

import (
	"context"

	"go-faculty-leave/internal/config"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type mailSender struct {
	dialer  *gomail.Dialer
	from    string
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewMailSender sends through SMTP, throttled to cfg.RatePerSecond.
func NewMailSender(cfg config.MailConfig, logger ...*zap.Logger) Sender {
	l := zap.L().Named("notification.mail")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.mail")
	}
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &mailSender{
		dialer:  gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:    cfg.From,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:  l,
	}
}

func (s *mailSender) Send(ctx context.Context, msg Message) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return err
	}
	s.logger.Debug("mail sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

type logSender struct {
	logger *zap.Logger
}

// NewLogSender only logs messages. It is used when SMTP is not configured.
func NewLogSender(logger ...*zap.Logger) Sender {
	l := zap.L().Named("notification.log")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.log")
	}
	return &logSender{logger: l}
}

func (s *logSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info("notification",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
