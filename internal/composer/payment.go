package composer

import (
	"fmt"
	"math"

	"github.com/gyaneshwarpardhi/banksim/internal/event"
)

// paymentKind holds the amount range and failure odds of one payment type.
type paymentKind struct {
	minAmount, maxAmount float64
	errorRate            float64
	extra                Rule
}

var paymentErrors = []string{
	"insufficient_funds",
	"account_blocked",
	"invalid_recipient",
	"limit_exceeded",
	"network_timeout",
	"fraud_detected",
	"invalid_amount",
	"service_unavailable",
	"duplicate_transaction",
}

// Errors that must not be retried by the client.
var terminalPaymentErrors = map[string]bool{
	"fraud_detected":  true,
	"account_blocked": true,
}

var utilityRecipients = []string{
	`ООО "Газпром энергосбыт"`,
	"МосЭнергоСбыт",
	"Мегафон",
	"МТС",
	"Билайн",
	`ПАО "МТБЦ"`,
	"X5 Retail Group",
	"Магнит",
	"Лента",
	"Озон",
	"Wildberries",
	"Яндекс.Такси",
}

var (
	merchantCategories = []string{"5411", "5812", "4900", "6011"}
	utilityServices    = []string{"electricity", "gas", "water", "internet", "mobile"}
	foreignCurrencies  = []string{"USD", "EUR", "CNY", "KZT"}
)

// LargePaymentThreshold is the amount above which payments need a compliance check.
const LargePaymentThreshold = 1_000_000

var paymentKinds = map[string]paymentKind{
	"transfer":        {minAmount: 100, maxAmount: 100000, errorRate: 0.08},
	"card_payment":    {minAmount: 50, maxAmount: 50000, errorRate: 0.05, extra: cardPaymentExtra},
	"utility_payment": {minAmount: 500, maxAmount: 20000, errorRate: 0.03, extra: utilityPaymentExtra},
	"salary_payment":  {minAmount: 20000, maxAmount: 300000, errorRate: 0.01},
	"large_transfer":  {minAmount: 500000, maxAmount: 10000000, errorRate: 0.15},
	"international_transfer": {
		minAmount: 1000, maxAmount: 500000, errorRate: 0.20, extra: internationalExtra,
	},
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func paymentRule(kind string, pk paymentKind) Rule {
	return func(d *Draft) {
		amount := round2(d.Ref.Float64Range(pk.minAmount, pk.maxAmount))
		currency := "RUB"
		if kind == "international_transfer" {
			currency = d.Ref.Pick(foreignCurrencies)
		}
		d.SetAmount(amount)
		d.Set("currency", currency)

		if d.Ref.Float64Range(0, 1) >= pk.errorRate {
			d.Benign = true
			d.Set("status", "success")
			d.Set("fee", round2(amount*d.Ref.Float64Range(0.001, 0.01)))
			d.Set("authorization_code", d.Ref.Numerify("AUTH-######"))
			d.Event.Message = fmt.Sprintf("Payment processed successfully: %.2f %s", amount, currency)
		} else {
			code := d.Ref.Pick(paymentErrors)
			d.Benign = false
			d.Event.Escalate(event.SeverityError)
			d.Set("status", "failed")
			d.Set("error_code", code)
			d.Set("retry_count", d.Ref.IntRange(0, 3))
			d.Set("can_retry", !terminalPaymentErrors[code])
			d.Event.Message = "Payment failed: " + code
		}
		if pk.extra != nil {
			pk.extra(d)
		}
	}
}

func cardPaymentExtra(d *Draft) {
	if d.Event.Fields["status"] == "success" {
		d.Set("merchant_category", d.Ref.Pick(merchantCategories))
	}
	d.Set("card_number", d.Ref.Numerify("####"))
	d.Set("terminal_id", d.Ref.Numerify("TERM-#####"))
	d.Set("merchant_name", d.Ref.Company())
}

func utilityPaymentExtra(d *Draft) {
	d.Set("recipient_name", d.Ref.Pick(utilityRecipients))
	d.Set("service_type", d.Ref.Pick(utilityServices))
}

func internationalExtra(d *Draft) {
	d.Set("swift_code", d.Ref.Lexify("????????")+d.Ref.Numerify("###"))
	d.Set("correspondent_bank", d.Ref.Company())
	rate := 1.0
	if d.Event.Fields["currency"] != "RUB" {
		rate = math.Round(d.Ref.Float64Range(50, 100)*10000) / 10000
	}
	d.Set("exchange_rate", rate)
}

// PaymentDomain is the payment service table. Payments above
// LargePaymentThreshold and successful payments between 00:00 and 06:59 are
// escalated for review.
func PaymentDomain() *Domain {
	d := NewDomain(PaymentService, "Payment").
		Base(func(d *Draft) {
			sender, recipient := d.Dir.AccountPair(d.Ref)
			txID := d.Ref.ID()
			d.Event.SubjectID = sender.ID
			d.Event.CorrelationID = txID
			d.Set("transaction_id", txID)
			d.Set("payment_type", d.Event.Kind)
			d.Set("sender_account", sender.ID)
			d.Set("sender_iban", sender.IBAN)
			d.Set("sender_name", sender.Owner)
			d.Set("recipient_account", recipient.ID)
			d.Set("recipient_iban", recipient.IBAN)
			d.Set("recipient_name", recipient.Owner)
			d.Set("processing_time_ms", d.Ref.IntRange(50, 2000))
		}).
		Escalate(
			LargeAmount{Threshold: LargePaymentThreshold},
			UnsocialHours{Start: 0, End: 6},
		)
	for kind, pk := range paymentKinds {
		d.Handle(kind, paymentRule(kind, pk))
	}
	return d
}
