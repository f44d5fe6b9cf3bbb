package composer

import "fmt"

// Client IP prefixes per region; "suspicious" holds known Tor exit ranges.
var ipPools = map[string][]string{
	"moscow":     {"77.88.55.", "95.108.213.", "178.154.131."},
	"spb":        {"81.177.6.", "188.120.245.", "176.59.108."},
	"regions":    {"89.108.65.", "188.113.194.", "94.25.173."},
	"suspicious": {"185.220.101.", "198.98.51.", "77.247.181."},
}

var ipRegions = []string{"moscow", "spb", "regions", "suspicious"}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 15_0 like Mac OS X)",
	"BankingApp/1.2.3 (iOS)",
	"BankingApp/2.1.0 (Android)",
}

var (
	loginFailureReasons = []string{"invalid_password", "user_not_found", "account_disabled"}
	suspiciousFactors   = []string{"unusual_location", "unusual_time", "new_device", "multiple_failed_attempts", "tor_usage"}
)

func clientIP(d *Draft, region string) string {
	if region == "" {
		region = d.Ref.Pick(ipRegions)
	}
	return fmt.Sprintf("%s%d", d.Ref.Pick(ipPools[region]), d.Ref.IntRange(1, 254))
}

// AuthDomain is the authentication service table.
func AuthDomain() *Domain {
	return NewDomain(AuthService, "Auth").
		Base(func(d *Draft) {
			u := d.Dir.User(d.Ref)
			session := d.Ref.ID()
			region := ""
			if d.Event.Kind == "suspicious_login" {
				region = "suspicious"
			}
			d.Event.SubjectID = u.ID
			d.Event.CorrelationID = session
			d.Set("user_id", u.ID)
			d.Set("username", u.Username)
			d.Set("session_id", session)
			d.Set("client_ip", clientIP(d, region))
			d.Set("user_agent", d.Ref.Pick(userAgents))
		}).
		Handle("login_success", func(d *Draft) {
			d.Event.Message = fmt.Sprintf("User %s successfully logged in", d.Event.Fields["username"])
			d.Set("location", d.Ref.City())
			d.Set("device_fingerprint", d.Ref.Hex(16))
			d.Set("two_factor_used", d.Ref.Bool())
		}).
		Handle("login_failed", func(d *Draft) {
			reason := d.Ref.Pick(loginFailureReasons)
			d.Event.Message = fmt.Sprintf("Login failed for user %s: %s", d.Event.Fields["username"], reason)
			d.Set("failure_reason", reason)
			d.Set("attempt_count", d.Ref.IntRange(1, 5))
		}).
		Handle("account_locked", func(d *Draft) {
			d.Event.Message = fmt.Sprintf("Account %s locked due to multiple failed attempts", d.Event.Fields["username"])
			d.Set("failed_attempts", d.Ref.IntRange(5, 10))
			d.Set("lock_duration", "30m")
			d.Set("auto_unlock", true)
		}).
		Handle("suspicious_login", func(d *Draft) {
			d.Event.Message = fmt.Sprintf("Suspicious login attempt for user %s", d.Event.Fields["username"])
			d.Set("risk_score", d.Ref.IntRange(70, 95))
			d.Set("suspicious_factors", d.Ref.Sample(suspiciousFactors, d.Ref.IntRange(1, 3)))
		}).
		Handle("two_factor_required", func(d *Draft) {
			d.Event.Message = fmt.Sprintf("Two-factor authentication required for user %s", d.Event.Fields["username"])
			d.Set("sms_sent", d.Ref.Bool())
			d.Set("app_notification", true)
		})
}
