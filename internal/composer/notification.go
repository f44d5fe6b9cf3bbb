package composer

import (
	"fmt"
	"strings"
)

var (
	emailSubjects      = []string{"Операция по карте", "Пополнение счета", "Изменение тарифа"}
	notificationErrors = []string{"NETWORK_ERROR", "INVALID_RECIPIENT", "QUOTA_EXCEEDED"}
)

func channelOf(kind string) string {
	ch, _, _ := strings.Cut(kind, "_")
	return ch
}

// NotificationDomain is the notification service table. Kinds are named
// <channel>_sent or <channel>_failed.
func NotificationDomain() *Domain {
	d := NewDomain(NotificationService, "Notification").
		Base(func(d *Draft) {
			id := d.Ref.ID()
			u := d.Dir.User(d.Ref)
			d.Event.CorrelationID = id
			d.Event.SubjectID = u.ID
			d.Set("notification_id", id)
			d.Set("user_id", u.ID)
			d.Set("channel", channelOf(d.Event.Kind))
		})

	sent := func(d *Draft) {
		fillChannel(d)
		d.Event.Message = "Notification sent successfully via " + channelOf(d.Event.Kind)
	}
	failed := func(d *Draft) {
		fillChannel(d)
		code := d.Ref.Pick(notificationErrors)
		d.Set("error_code", code)
		d.Event.Message = fmt.Sprintf("Notification failed: %s", code)
	}
	for _, k := range []string{"sms_sent", "email_sent", "push_sent"} {
		d.Handle(k, sent)
	}
	for _, k := range []string{"sms_failed", "email_failed", "push_failed"} {
		d.Handle(k, failed)
	}
	return d
}

func fillChannel(d *Draft) {
	switch channelOf(d.Event.Kind) {
	case "sms":
		d.Set("phone", d.Ref.Phone())
		d.Set("verification_code", d.Ref.IntRange(100000, 999999))
	case "email":
		d.Set("email", d.Ref.Email())
		d.Set("subject", d.Ref.Pick(emailSubjects))
	case "push":
		d.Set("device_token", d.Ref.Hex(32))
	}
}
