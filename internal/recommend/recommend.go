// Package recommend evaluates an ordered table of retention rules against a
// single customer record. Rules are independent and may overlap; a customer
// collects every message whose predicate holds, in table order.
package recommend

// CustomerDetail is the single-customer record the rules read. It is supplied
// by the profile surface; the streaming core never touches it.
type CustomerDetail struct {
	CustomerID       string  `json:"customer_id"`
	Contract         string  `json:"contract"`
	Tenure           int     `json:"tenure"`
	SupportCalls     int     `json:"support_calls"`
	AvgSupportWait   float64 `json:"avg_support_wait"`
	LoginsLastMonth  int     `json:"logins_last_month"`
	FeatureUsageRate float64 `json:"feature_usage_rate"`
	PaymentDelayDays int     `json:"payment_delay_days"`
	AutoPay          string  `json:"autopay"`
	OnlineSecurity   string  `json:"onlinesecurity"`
	TechSupport      string  `json:"techsupport"`
	DeviceProtection string  `json:"device_protection"`
	PremiumAddons    int     `json:"premium_addons"`
	AvgInternetSpeed float64 `json:"avg_internet_speed"`
	ServiceOutages   int     `json:"service_outages"`
	NPSScore         float64 `json:"nps_score"`
	Age              int     `json:"age"`
	Region           string  `json:"region"`
	RiskScore        float64 `json:"risk_score"`
	LoyaltyPoints    int     `json:"loyalty_points"`
}

// Rule pairs a predicate with the action message it recommends.
type Rule struct {
	When    func(CustomerDetail) bool
	Message string
}

// FallbackMessage is returned alone when no rule matches.
const FallbackMessage = "Schedule a routine customer satisfaction call."

// Rules is the ordered rule table. Adding a retention play means appending an
// entry, not editing control flow.
var Rules = []Rule{
	// Contract & tenure
	{func(d CustomerDetail) bool { return d.Contract == "Month-to-month" && d.Tenure < 6 },
		"Offer 3-month discount for 1-year contract."},
	{func(d CustomerDetail) bool { return d.Contract == "Month-to-month" && d.Tenure >= 6 },
		"Propose annual contract with loyalty benefits."},
	{func(d CustomerDetail) bool { return d.Contract == "One year" && d.Tenure < 3 },
		"Send welcome engagement campaign."},
	{func(d CustomerDetail) bool { return d.Contract == "One year" && d.Tenure > 10 },
		"Offer renewal incentive to lock in early."},

	// Support interaction
	{func(d CustomerDetail) bool { return d.SupportCalls > 3 },
		"Schedule retention call: High support frequency."},
	{func(d CustomerDetail) bool { return d.SupportCalls > 6 },
		"Escalate to senior retention specialist for personalized offer."},
	{func(d CustomerDetail) bool { return d.AvgSupportWait > 5 },
		"Apologize for service delays and offer compensation credit."},

	// Usage & engagement
	{func(d CustomerDetail) bool { return d.LoginsLastMonth < 2 },
		"Trigger re-engagement email campaign."},
	{func(d CustomerDetail) bool { return d.LoginsLastMonth == 0 },
		"Send win-back push notification and SMS."},
	{func(d CustomerDetail) bool { return d.FeatureUsageRate < 0.3 },
		"Recommend personalized onboarding to increase feature adoption."},
	{func(d CustomerDetail) bool { return d.FeatureUsageRate < 0.1 },
		"Assign success manager for hands-on onboarding."},

	// Billing & payment behavior
	{func(d CustomerDetail) bool { return d.PaymentDelayDays > 10 },
		"Send payment reminder with flexible due date."},
	{func(d CustomerDetail) bool { return d.PaymentDelayDays > 30 },
		"Offer payment extension plan to avoid churn."},
	{func(d CustomerDetail) bool { return d.AutoPay == "No" },
		"Encourage enabling auto-pay with small discount."},

	// Services & add-ons
	{func(d CustomerDetail) bool { return d.OnlineSecurity == "No" || d.TechSupport == "No" },
		"Propose discounted 'Peace of Mind' security bundle."},
	{func(d CustomerDetail) bool { return d.DeviceProtection == "No" },
		"Upsell device protection plan."},
	{func(d CustomerDetail) bool { return d.PremiumAddons == 0 },
		"Promote add-on packages for enhanced value."},

	// Internet / service quality
	{func(d CustomerDetail) bool { return d.AvgInternetSpeed < 25 },
		"Offer speed upgrade plan with discount."},
	{func(d CustomerDetail) bool { return d.ServiceOutages > 2 },
		"Provide bill credit for service inconvenience."},
	{func(d CustomerDetail) bool { return d.NPSScore < 6 },
		"Trigger recovery workflow: unhappy customer."},

	// Demographics & behavior
	{func(d CustomerDetail) bool { return d.Age > 0 && d.Age < 25 && d.Tenure < 6 },
		"Offer student discount to increase retention."},
	{func(d CustomerDetail) bool { return d.Age > 55 && d.TechSupport == "No" },
		"Offer assisted setup and training for seniors."},
	{func(d CustomerDetail) bool { return d.Region == "Rural" && d.AvgInternetSpeed < 20 },
		"Offer alternative plan or coverage booster."},

	// Risk indicators
	{func(d CustomerDetail) bool { return d.RiskScore > 0.8 },
		"Send immediate retention alert to account manager."},
	{func(d CustomerDetail) bool { return d.RiskScore > 0.6 && d.Contract == "Month-to-month" },
		"Offer high-value incentive to lock in annual plan."},

	// Rewards & loyalty
	{func(d CustomerDetail) bool { return d.LoyaltyPoints > 5000 },
		"Send personalized loyalty rewards to encourage renewal."},
	{func(d CustomerDetail) bool { return d.Tenure > 24 },
		"Offer VIP perks or free upgrade for long-term loyalty."},
}

// Evaluate returns the messages of all matching rules in table order, or the
// single fallback message when nothing matches.
func Evaluate(d CustomerDetail) []string {
	return evaluate(Rules, d)
}

func evaluate(rules []Rule, d CustomerDetail) []string {
	var out []string
	for _, r := range rules {
		if r.When(d) {
			out = append(out, r.Message)
		}
	}
	if len(out) == 0 {
		out = append(out, FallbackMessage)
	}
	return out
}
