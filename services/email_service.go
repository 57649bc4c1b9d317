// File: /services/email_service.go
package services

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"friends-api/config"
)

// EmailSender is the SMTP boundary, satisfied by *gomail.Dialer.
type EmailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailJob struct {
	template  string
	recipient string
	params    map[string]string
}

// EmailService delivers templated notification emails. Enqueue is
// fire-and-forget: it never blocks, and delivery failures are logged and
// swallowed. A single worker goroutine drains the bounded queue.
type EmailService struct {
	config *config.Config
	sender EmailSender

	queue chan emailJob
	done  chan struct{}
	once  sync.Once
}

func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	return NewEmailServiceWithSender(cfg, dialer)
}

func NewEmailServiceWithSender(cfg *config.Config, sender EmailSender) *EmailService {
	service := &EmailService{
		config: cfg,
		sender: sender,
		queue:  make(chan emailJob, cfg.EmailQueueSize),
		done:   make(chan struct{}),
	}

	go service.worker()

	return service
}

// Enqueue queues a templated email. When the queue is full the job is
// dropped rather than blocking the request that triggered it.
func (es *EmailService) Enqueue(template, recipientEmail string, params map[string]string) {
	select {
	case es.queue <- emailJob{template: template, recipient: recipientEmail, params: params}:
	default:
		logrus.WithFields(logrus.Fields{
			"template":  template,
			"recipient": recipientEmail,
		}).Warn("email queue full, dropping notification")
	}
}

// Close stops accepting jobs, drains the queue, and waits for the worker.
func (es *EmailService) Close() {
	es.once.Do(func() {
		close(es.queue)
		<-es.done
	})
}

func (es *EmailService) worker() {
	defer close(es.done)

	for job := range es.queue {
		if err := es.send(job); err != nil {
			logrus.WithFields(logrus.Fields{
				"template":  job.template,
				"recipient": job.recipient,
			}).WithError(err).Error("failed to send notification email")
		}
	}
}

func (es *EmailService) send(job emailJob) error {
	subject, htmlBody, textBody, err := es.render(job.template, job.params)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", job.recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	if err := es.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %s email: %w", job.template, err)
	}
	return nil
}

func (es *EmailService) render(template string, params map[string]string) (subject, htmlBody, textBody string, err error) {
	username := params["username"]

	switch template {
	case TemplateFriendRequest:
		subject = fmt.Sprintf("%s - New Friend Request", es.config.FromName)
		htmlBody = es.wrapHTML("New Friend Request", fmt.Sprintf(`
            <h2>Hello!</h2>
            <p><strong>%s</strong> sent you a friend request.</p>
            <p>Log in to accept or decline it.</p>`, username))
		textBody = fmt.Sprintf(`Hello!

%s sent you a friend request.

Log in to accept or decline it.

The %s Team`, username, es.config.FromName)

	case TemplateFriendRequestAccepted:
		subject = fmt.Sprintf("%s - Friend Request Accepted", es.config.FromName)
		htmlBody = es.wrapHTML("Friend Request Accepted", fmt.Sprintf(`
            <h2>Good news!</h2>
            <p><strong>%s</strong> accepted your friend request.</p>
            <p>You are now friends.</p>`, username))
		textBody = fmt.Sprintf(`Good news!

%s accepted your friend request.

You are now friends.

The %s Team`, username, es.config.FromName)

	case TemplateFriendRequestRejected:
		subject = fmt.Sprintf("%s - Friend Request Declined", es.config.FromName)
		htmlBody = es.wrapHTML("Friend Request Declined", fmt.Sprintf(`
            <h2>Hello!</h2>
            <p><strong>%s</strong> declined your friend request.</p>`, username))
		textBody = fmt.Sprintf(`Hello!

%s declined your friend request.

The %s Team`, username, es.config.FromName)

	default:
		err = fmt.Errorf("unknown email template %q", template)
	}

	return subject, htmlBody, textBody, err
}

func (es *EmailService) wrapHTML(title, content string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: #007bff; color: white; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>%s</h1>
            <p>%s</p>
        </div>
        <div class="content">%s</div>
        <div class="footer">
            <p>This is an automated message, please do not reply.</p>
        </div>
    </div>
</body>
</html>
`, title, es.config.FromName, title, content)
}
