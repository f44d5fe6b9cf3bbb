package composer

import "fmt"

var fraudFactors = []string{"unusual_amount", "unusual_time", "multiple_transactions", "new_recipient"}

// FraudDomain is the fraud detection service table.
func FraudDomain() *Domain {
	return NewDomain(FraudService, "Fraud").
		Base(func(d *Draft) {
			alertID := d.Ref.ID()
			u := d.Dir.User(d.Ref)
			d.Event.CorrelationID = alertID
			d.Event.SubjectID = u.ID
			d.Set("alert_id", alertID)
			d.Set("risk_score", d.Ref.IntRange(1, 100))
			d.Set("user_id", u.ID)
			d.Set("transaction_id", d.Ref.ID())
		}).
		Handle("suspicious_transaction", func(d *Draft) {
			d.Event.Message = "Suspicious transaction pattern detected"
			d.SetAmount(round2(d.Ref.Float64Range(50000, 1000000)))
			d.Set("factors", d.Ref.Sample(fraudFactors, d.Ref.IntRange(1, 3)))
		}).
		Handle("card_fraud_detected", func(d *Draft) {
			d.Event.Message = "Card fraud detected"
			d.Set("card_number", d.Ref.Numerify("####"))
			d.Set("merchant", d.Ref.Company())
			d.Set("location", d.Ref.City())
		}).
		Handle("account_takeover", func(d *Draft) {
			d.Event.Message = fmt.Sprintf("Account takeover suspected for %s", d.Event.SubjectID)
			d.Set("new_device", true)
			d.Set("location", d.Ref.City())
		})
}
