package dataset

import "github.com/calvinalkan/flowmap/internal/flow"

// HubSpot returns the target-state diagram.
func HubSpot() Dataset {
	return Dataset{
		Variant: flow.VariantHubSpot,
		Nodes: []flow.Node{
			// Lead sources
			content("hs-lead-source", 0, 350, "Lead Sources", "System", flow.StatusConfirmed,
				"Leads from forms, imports, integrations"),

			// Contact creation
			content("hs-contact", 300, 350, "Contact Record", "System", flow.StatusConfirmed,
				"Contact created/updated in HubSpot"),

			// BDC tasks
			content("hs-bdc-task", 600, 150, "BDC Task Queue", "BDC", flow.StatusPending,
				"Tasks assigned to BDC for outreach"),
			content("hs-bdc-call", 600, 450, "BDC Call Activity", "BDC", flow.StatusPending,
				"Logged call activities"),

			// Qualification outcome
			content("hs-qualified", 950, 250, "Qualified Lead", "BDC", flow.StatusOpenQuestion,
				"Lead meets qualification criteria"),
			content("hs-dq", 950, 550, "Disqualified", "BDC", flow.StatusPending,
				"Lead does not meet criteria"),

			content("hs-meeting-scheduled", 1300, 100, "Meeting Scheduled", "BDC", flow.StatusOpenQuestion,
				"HubSpot Meeting object created"),
			content("hs-deal-create", 1300, 350, "Deal Created", "System/BDC", flow.StatusOpenQuestion,
				"When to create deal? At meeting scheduled or qualification?"),

			// RVP pipeline
			content("hs-rvp-assigned", 1650, 100, "RVP Assigned", "RVP", flow.StatusPending,
				"Deal assigned to RVP for follow-up"),
			content("hs-meeting-completed", 1650, 350, "Meeting Completed", "RVP", flow.StatusPending,
				"Meeting outcome logged"),

			// Deal outcomes
			content("hs-deal-won", 2000, 0, "Deal Won", "RVP", flow.StatusConfirmed,
				"Closed Won stage"),
			content("hs-deal-lost", 2000, 220, "Deal Lost", "RVP", flow.StatusPending,
				"Closed Lost stage - capture reason"),
			content("hs-deal-nurture", 2000, 440, "Nurture/Follow-up", "System", flow.StatusOpenQuestion,
				"Re-engagement workflow"),

			// Post-sale
			content("hs-admin-workflow", 2350, 0, "Admin Workflow", "Admin", flow.StatusPending,
				"Automated tasks for paperwork"),
		},
		Edges: []flow.Edge{
			{ID: "e-hs-source-contact", Source: "hs-lead-source", Target: "hs-contact", Animated: true},

			{ID: "e-hs-contact-task", Source: "hs-contact", Target: "hs-bdc-task"},
			{ID: "e-hs-task-call", Source: "hs-bdc-task", Target: "hs-bdc-call"},

			{ID: "e-hs-call-qualified", Source: "hs-bdc-call", Target: "hs-qualified"},
			{ID: "e-hs-call-dq", Source: "hs-bdc-call", Target: "hs-dq"},

			{ID: "e-hs-qual-meeting", Source: "hs-qualified", Target: "hs-meeting-scheduled"},
			{ID: "e-hs-qual-deal", Source: "hs-qualified", Target: "hs-deal-create"},
			{ID: "e-hs-meeting-deal", Source: "hs-meeting-scheduled", Target: "hs-deal-create", Style: dashed()},

			{ID: "e-hs-deal-rvp", Source: "hs-deal-create", Target: "hs-rvp-assigned", Animated: true},
			{ID: "e-hs-meeting-rvp", Source: "hs-meeting-scheduled", Target: "hs-rvp-assigned"},

			{ID: "e-hs-rvp-complete", Source: "hs-rvp-assigned", Target: "hs-meeting-completed"},

			{ID: "e-hs-complete-won", Source: "hs-meeting-completed", Target: "hs-deal-won"},
			{ID: "e-hs-complete-lost", Source: "hs-meeting-completed", Target: "hs-deal-lost"},
			{ID: "e-hs-complete-nurture", Source: "hs-meeting-completed", Target: "hs-deal-nurture"},

			{ID: "e-hs-won-admin", Source: "hs-deal-won", Target: "hs-admin-workflow", Animated: true},

			// Nurture loop
			{ID: "e-hs-nurture-task", Source: "hs-deal-nurture", Target: "hs-bdc-task", Style: dashed()},
			{ID: "e-hs-lost-nurture", Source: "hs-deal-lost", Target: "hs-deal-nurture", Style: dashed()},
		},
	}
}

func content(id string, x, y float64, label, owner string, status flow.NodeStatus, description string) flow.Node {
	return flow.Node{
		ID:       id,
		Position: flow.Position{X: x, Y: y},
		Data: flow.Content{
			Label:       label,
			Owner:       owner,
			Description: description,
			Status:      status,
		},
	}
}

func dashed() *flow.EdgeStyle {
	return &flow.EdgeStyle{Dash: "5,5"}
}
