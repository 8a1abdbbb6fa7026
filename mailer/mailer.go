package mailer

import (
	"log"

	"gopkg.in/gomail.v2"
)

// Mailer ส่งเมลขาเดียว ล้มเหลวคืน error ให้ caller ไม่ retry เอง
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, username, password, from string) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTP) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// Log ใช้ตอน dev ที่ไม่มี SMTP จริง เทเนื้อเมลลง log แทนการส่ง
type Log struct{}

func (Log) Send(to, subject, body string) error {
	log.Printf("[mail] to=%s subject=%q body=%q", to, subject, body)
	return nil
}
