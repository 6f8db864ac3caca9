package models

// ComponentScore is one scored factor with the human-readable explanation of
// which rule produced the value.
type ComponentScore struct {
	Value     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

// Breakdown holds the six component scores plus the caller-supplied
// multipliers that were applied.
type Breakdown struct {
	ImpactSeverity    ComponentScore `json:"impact_severity"`
	CustomerARR       ComponentScore `json:"customer_arr"`
	SLABreach         ComponentScore `json:"sla_breach"`
	Frequency         ComponentScore `json:"frequency"`
	Workaround        ComponentScore `json:"workaround"`
	RCAActionItem     ComponentScore `json:"rca_action_item"`
	SupportMultiplier float64        `json:"support_multiplier"`
	AccountMultiplier float64        `json:"account_multiplier"`
}

// Result is the full scoring outcome for one ticket.
type Result struct {
	IssueKey      string      `json:"issue_key,omitempty"`
	Summary       string      `json:"summary,omitempty"`
	Source        string      `json:"source,omitempty"`
	Components    Breakdown   `json:"components"`
	BaseScore     int         `json:"base_score"`
	FinalScore    float64     `json:"final_score"`
	PriorityLevel string      `json:"priority_level"`
	Tags          []TicketTag `json:"tags,omitempty"`
}

// Overrides carries caller-supplied business judgment the scorer cannot
// derive from text. Zero values mean "not provided".
type Overrides struct {
	// ARRBucket is one of the fixed buckets: arr_gt_1m, arr_500k_1m,
	// arr_100k_500k, many_low, few_low, single_low. Wins over any inference.
	ARRBucket string `json:"arr_bucket,omitempty"`
	// ARRValue is an annual recurring revenue amount in dollars; mapped to a
	// bucket when ARRBucket is unset.
	ARRValue float64 `json:"arr_value,omitempty"`
	// CustomerCount is the number of affected low-ARR customers.
	CustomerCount int `json:"customer_count,omitempty"`
	// OccurrenceCount overrides the ticket's occurrence count.
	OccurrenceCount *int `json:"occurrence_count,omitempty"`
	// ManagedServiceNoSLA marks a managed-service variant whose SLA is owned
	// by the platform operator; forces the SLA component to 0.
	ManagedServiceNoSLA bool `json:"managed_service_no_sla,omitempty"`

	SupportMultiplier float64 `json:"support_multiplier,omitempty"`
	AccountMultiplier float64 `json:"account_multiplier,omitempty"`
}
