package scoring

// Component score constants. The six components sum to a base score in
// [13, 100]; the multipliers push the final score up to 130.
const (
	SeverityP1 = 38
	SeverityP2 = 30
	SeverityP3 = 22
	SeverityP4 = 16
	SeverityP5 = 8

	ARROver1M    = 15
	ARR500KTo1M  = 13
	ARR100KTo500K = 10
	ARRManyLow   = 8
	ARRFewLow    = 5
	ARRSingleLow = 0

	SLABreached    = 8
	SLANotBreached = 0

	FreqOver4 = 16
	Freq2To4  = 8
	FreqSingle = 0

	WorkaroundNone       = 15
	WorkaroundWithImpact = 12
	WorkaroundComplex    = 10
	WorkaroundSimple     = 5

	RCAYes = 8
	RCANo  = 0

	// MaxMultiplier caps each of the support and account multipliers.
	MaxMultiplier = 0.15
)

// ARR bucket names accepted as explicit overrides.
const (
	BucketARROver1M     = "arr_gt_1m"
	BucketARR500KTo1M   = "arr_500k_1m"
	BucketARR100KTo500K = "arr_100k_500k"
	BucketManyLow       = "many_low"
	BucketFewLow        = "few_low"
	BucketSingleLow     = "single_low"
)

// Config holds the keyword tables used by the component scorers. It is
// immutable once handed to NewScorer; tests inject their own tables instead
// of mutating package state.
type Config struct {
	// PriorityScores maps a lowercased priority field value to a severity
	// component value.
	PriorityScores map[string]int
	// SeverityMappings maps lowercased severity-field fragments (substring
	// match) to a severity component value.
	SeverityMappings map[string]int

	// MonitoringKeywords mark a monitoring/metrics-only issue; combined with
	// ServiceHealthyKeywords they cap the severity component at P4.
	MonitoringKeywords     []string
	ServiceHealthyKeywords []string

	// CriticalKeywords / DegradedKeywords / GeneralIssueKeywords drive the
	// description fallback when neither priority nor severity fields match.
	CriticalKeywords     []string
	DegradedKeywords     []string
	GeneralIssueKeywords []string

	VIPCustomers             []string
	MultipleCustomerKeywords []string
	EnterpriseLabels         []string
	SubscriptionTierKeywords []string

	// ManagedServiceLabels name managed-service variants whose SLA belongs to
	// the platform operator (for example "acre"); any match forces the SLA
	// component to 0.
	ManagedServiceLabels []string
	SLANegationKeywords  []string
	SLABreachKeywords    []string

	FrequencyMultipleKeywords []string
	FrequencySingleKeywords   []string
	SimilarIssueKeywords      []string

	WorkaroundNoneKeywords    []string
	WorkaroundImpactKeywords  []string
	WorkaroundComplexKeywords []string
	WorkaroundSimpleKeywords  []string

	RCAKeywords                []string
	RCAFollowUpKeywords        []string
	RCACurrentIncidentKeywords []string
	RCAFollowUpLabels          []string
}

// DefaultConfig returns the built-in keyword tables.
func DefaultConfig() Config {
	return Config{
		PriorityScores: map[string]int{
			"blocker":  SeverityP1,
			"critical": SeverityP1,
			"highest":  SeverityP1,
			"high":     SeverityP2,
			"medium":   SeverityP3,
			"low":      SeverityP4,
			"lowest":   SeverityP5,
			"trivial":  SeverityP5,
		},
		SeverityMappings: map[string]int{
			"1 - critical":  SeverityP1,
			"1 - very high": SeverityP1,
			"1 - high":      SeverityP1,
			"sev 1":         SeverityP1,
			"p1":            SeverityP1,
			"2 - high":      SeverityP2,
			"2 - medium":    SeverityP2,
			"sev 2":         SeverityP2,
			"p2":            SeverityP2,
			"3 - medium":    SeverityP3,
			"3 - low":       SeverityP3,
			"sev 3":         SeverityP3,
			"p3":            SeverityP3,
			"4 - low":       SeverityP4,
			"p4":            SeverityP4,
			"5 - trivial":   SeverityP5,
			"p5":            SeverityP5,
		},

		MonitoringKeywords: []string{
			"metric", "monitoring", "prometheus", "grafana",
			"alert", "false alert", "reporting",
			"dashboard", "visualization", "observability",
		},
		ServiceHealthyKeywords: []string{
			"service is fine", "service working", "db is working",
			"fully functional", "no actual", "reporting issue",
			"calculation artifact", "metrics artifact",
		},

		CriticalKeywords:     []string{"critical", "down", "outage", "stopped", "crash", "data loss"},
		DegradedKeywords:     []string{"degraded", "slow", "performance"},
		GeneralIssueKeywords: []string{"error", "bug", "issue", "problem"},

		VIPCustomers: []string{
			"monday.com", "monday", "salesforce", "twilio", "stripe",
			"shopify", "zoom", "slack", "datadog", "hashicorp",
		},
		MultipleCustomerKeywords: []string{"multiple customers", "several customers"},
		EnterpriseLabels:         []string{"enterprise", "premium"},
		SubscriptionTierKeywords: []string{"essentials", "standard"},

		ManagedServiceLabels: []string{"acre", "managed-service", "azure-managed"},
		SLANegationKeywords: []string{
			"no sla breach", "no downtime", "no shard downtime",
			"no actual", "shards stable", "service is fine",
			"fully functional", "no service impact",
		},
		SLABreachKeywords: []string{
			"sla breach", "sla violated", "exceeded sla",
			"manual recovery", "downtime",
		},

		FrequencyMultipleKeywords: []string{"multiple", "several", "recurring", "repeated", "again", "reoccur"},
		FrequencySingleKeywords:   []string{"first time", "one time", "single", "once"},
		SimilarIssueKeywords:      []string{"similar to", "same as"},

		WorkaroundNoneKeywords: []string{
			"no workaround", "cannot", "impossible",
			"requires fix", "needs patch", "requires new version",
		},
		WorkaroundImpactKeywords: []string{
			"slower", "degraded", "inconvenient",
			"operational overhead", "manual intervention",
			"hard-coded", "hardcoded", "manual update", "manually update",
			"reduced capability", "reduced effectiveness", "not as designed",
			"operational impact", "requires updating", "human error",
			"reduced confidence", "less effective", "workaround impact",
		},
		WorkaroundComplexKeywords: []string{"multiple steps", "several steps", "manual", "need to"},
		WorkaroundSimpleKeywords:  []string{"single command", "run command", "one command", "use instead", "simply"},

		RCAKeywords: []string{"rca", "root cause", "action item", "post mortem", "postmortem"},
		RCAFollowUpKeywords: []string{
			"follow-up from", "follow up from", "action item from",
			"identified in the rca", "identified during the rca",
			"per the rca", "from the postmortem", "rca concluded",
		},
		RCACurrentIncidentKeywords: []string{
			"rca needed", "needs rca", "need an rca", "requires rca",
			"rca will be", "rca to be", "pending rca", "rca in progress",
			"awaiting rca",
		},
		RCAFollowUpLabels: []string{"rca-action-item", "rca-follow-up", "postmortem-action"},
	}
}

// applyDefaults fills any empty table with the built-in values so a partially
// populated Config still behaves sensibly.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if len(c.PriorityScores) == 0 {
		c.PriorityScores = d.PriorityScores
	}
	if len(c.SeverityMappings) == 0 {
		c.SeverityMappings = d.SeverityMappings
	}
	if len(c.MonitoringKeywords) == 0 {
		c.MonitoringKeywords = d.MonitoringKeywords
	}
	if len(c.ServiceHealthyKeywords) == 0 {
		c.ServiceHealthyKeywords = d.ServiceHealthyKeywords
	}
	if len(c.CriticalKeywords) == 0 {
		c.CriticalKeywords = d.CriticalKeywords
	}
	if len(c.DegradedKeywords) == 0 {
		c.DegradedKeywords = d.DegradedKeywords
	}
	if len(c.GeneralIssueKeywords) == 0 {
		c.GeneralIssueKeywords = d.GeneralIssueKeywords
	}
	if len(c.VIPCustomers) == 0 {
		c.VIPCustomers = d.VIPCustomers
	}
	if len(c.MultipleCustomerKeywords) == 0 {
		c.MultipleCustomerKeywords = d.MultipleCustomerKeywords
	}
	if len(c.EnterpriseLabels) == 0 {
		c.EnterpriseLabels = d.EnterpriseLabels
	}
	if len(c.SubscriptionTierKeywords) == 0 {
		c.SubscriptionTierKeywords = d.SubscriptionTierKeywords
	}
	if len(c.ManagedServiceLabels) == 0 {
		c.ManagedServiceLabels = d.ManagedServiceLabels
	}
	if len(c.SLANegationKeywords) == 0 {
		c.SLANegationKeywords = d.SLANegationKeywords
	}
	if len(c.SLABreachKeywords) == 0 {
		c.SLABreachKeywords = d.SLABreachKeywords
	}
	if len(c.FrequencyMultipleKeywords) == 0 {
		c.FrequencyMultipleKeywords = d.FrequencyMultipleKeywords
	}
	if len(c.FrequencySingleKeywords) == 0 {
		c.FrequencySingleKeywords = d.FrequencySingleKeywords
	}
	if len(c.SimilarIssueKeywords) == 0 {
		c.SimilarIssueKeywords = d.SimilarIssueKeywords
	}
	if len(c.WorkaroundNoneKeywords) == 0 {
		c.WorkaroundNoneKeywords = d.WorkaroundNoneKeywords
	}
	if len(c.WorkaroundImpactKeywords) == 0 {
		c.WorkaroundImpactKeywords = d.WorkaroundImpactKeywords
	}
	if len(c.WorkaroundComplexKeywords) == 0 {
		c.WorkaroundComplexKeywords = d.WorkaroundComplexKeywords
	}
	if len(c.WorkaroundSimpleKeywords) == 0 {
		c.WorkaroundSimpleKeywords = d.WorkaroundSimpleKeywords
	}
	if len(c.RCAKeywords) == 0 {
		c.RCAKeywords = d.RCAKeywords
	}
	if len(c.RCAFollowUpKeywords) == 0 {
		c.RCAFollowUpKeywords = d.RCAFollowUpKeywords
	}
	if len(c.RCACurrentIncidentKeywords) == 0 {
		c.RCACurrentIncidentKeywords = d.RCACurrentIncidentKeywords
	}
	if len(c.RCAFollowUpLabels) == 0 {
		c.RCAFollowUpLabels = d.RCAFollowUpLabels
	}
}
