package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/logger"
	"github.com/Huzaifa-Afraz/swiftride-server/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	QueueKey       = "emails"
	FailedQueueKey = "emails:failed"
	MaxTries       = 3
)

type EmailJob struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis      *redis.Client
	from       string
	fromName   string
	smtpHost   string
	smtpPort   string
	smtpUser   string
	smtpPass   string
	retryDelay time.Duration
	send       func(EmailJob) error
	now        func() time.Time
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: redisAddr}),
		fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass)
}

func NewWithClient(rdb *redis.Client, fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass string) *Service {
	s := &Service{
		redis:      rdb,
		from:       fromEmail,
		fromName:   fromName,
		smtpHost:   smtpHost,
		smtpPort:   smtpPort,
		smtpUser:   smtpUser,
		smtpPass:   smtpPass,
		retryDelay: 5 * time.Second,
		now:        time.Now,
	}
	s.send = s.sendNow
	return s
}

// Send queues a message for the worker. emailType labels the message in
// metrics.
func (s *Service) Send(ctx context.Context, emailType, to, name, subject, body string) error {
	job := EmailJob{
		Type:    emailType,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: s.now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, QueueKey, data).Err(); err != nil {
		metrics.RecordEmail(emailType, "queue_failed")
		return fmt.Errorf("queue email: %w", err)
	}

	metrics.RecordEmail(emailType, "queued")
	logger.Debug("email queued", "type", emailType, "to", to)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, QueueKey).Result()
	if err != nil {
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("bad email job", "error", err)
		return
	}

	job.Tries++
	if err := s.send(job); err != nil {
		logger.Warn("email send failed", "type", job.Type, "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < MaxTries {
			s.retry(ctx, job)
		} else {
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Info("email sent", "type", job.Type, "to", job.To)
}

func (s *Service) retry(ctx context.Context, job EmailJob) {
	if s.retryDelay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(s.retryDelay):
		}
	}

	data, _ := json.Marshal(job)
	if err := s.redis.LPush(context.WithoutCancel(ctx), QueueKey, data).Err(); err != nil {
		s.saveFailed(job, err)
		return
	}
	metrics.RecordEmail(job.Type, "retried")
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n"
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  s.now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), FailedQueueKey, data)
	metrics.RecordEmail(job.Type, "failed")
	logger.Error("email moved to failed queue", "type", job.Type, "to", job.To, "attempts", job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, QueueKey).Result()
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func (s *Service) Close() error {
	return s.redis.Close()
}
