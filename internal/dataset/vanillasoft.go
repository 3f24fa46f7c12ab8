package dataset

import "github.com/calvinalkan/flowmap/internal/flow"

// Layout of the VanillaSoft diagram, in layout units.
const (
	stageWidth   = 420 // horizontal spacing between stage columns
	stageY       = 0
	childStartY  = 120 // first content row below the stage headers
	nodeHeight   = 95
	nodeGap      = 15
	groupPadding = 20
	groupGap     = 40
	groupWidth   = 360
	groupLabel   = 30
)

func stageX(index int) float64 {
	return float64(index * stageWidth)
}

func groupHeight(nodeCount int) float64 {
	return float64(nodeCount*nodeHeight + (nodeCount-1)*nodeGap + groupPadding*2 + groupLabel)
}

// inGroup positions the index-th node inside a group box starting at groupY.
func inGroup(stageIndex int, groupY float64, index int) (float64, float64) {
	return stageX(stageIndex) + 30, groupY + 45 + float64(index*(nodeHeight+nodeGap))
}

// Group rows. Each height is sized for the nodes listed beside it.
var (
	outcomesRetryY         = float64(childStartY)
	outcomesRetryHeight    = groupHeight(4) // no contact, left message, gatekeeper, callback
	outcomesProgressY      = outcomesRetryY + outcomesRetryHeight + groupGap
	outcomesProgressHeight = groupHeight(2) // NDM, DM

	meetingsY      = float64(childStartY)
	meetingsHeight = groupHeight(4) // light, solid, BHYB, hybrid

	rvpOwnershipY = float64(childStartY)
	rvpInitY      = rvpOwnershipY + nodeHeight + groupGap
	rvpInitHeight = groupHeight(4) // self-gen, unilateral, bilateral, next step
	rvpBDCY       = rvpInitY + rvpInitHeight + groupGap
	rvpBDCHeight  = groupHeight(1) // runs appointment

	resultsSaleY       = float64(childStartY)
	resultsSaleHeight  = groupHeight(3)
	resultsSitY        = resultsSaleY + resultsSaleHeight + groupGap
	resultsSitHeight   = groupHeight(6)
	resultsNoSitY      = resultsSitY + resultsSitHeight + groupGap
	resultsNoSitHeight = groupHeight(5)
)

var edgeStyles = struct {
	mainSpine, success flow.EdgeStyle
}{
	mainSpine: flow.EdgeStyle{Width: 2, Stroke: "#64748b"},
	success:   flow.EdgeStyle{Width: 2, Stroke: "#10b981"},
}

// VanillaSoft returns the current-state diagram: stage headers, group boxes
// and content nodes.
func VanillaSoft() Dataset {
	nodes := make([]flow.Node, 0, 64)
	nodes = append(nodes, vanillaSoftGroups()...)
	nodes = append(nodes, vanillaSoftStages()...)
	nodes = append(nodes, vanillaSoftContent()...)

	return Dataset{
		Variant: flow.VariantVanillaSoft,
		Nodes:   nodes,
		Edges:   vanillaSoftEdges(),
	}
}

func vanillaSoftStages() []flow.Node {
	stage := func(id string, index int, label, subtitle, color string) flow.Node {
		return flow.Node{
			ID:       id,
			Position: flow.Position{X: stageX(index), Y: stageY},
			Data:     flow.Stage{Label: label, Subtitle: subtitle, Color: color},
		}
	}

	return []flow.Node{
		stage("stage-sources", 0, "Lead Sources", "Entry Point", "slate"),
		stage("stage-queue", 1, "Queue", "Unworked", "slate"),
		stage("stage-bdc", 2, "BDC Calling", "Outreach", "slate"),
		stage("stage-outcomes", 3, "Call Outcomes", "What happened?", "slate"),
		stage("stage-meetings", 4, "Meeting Types", "BDC scheduled", "slate"),
		stage("stage-rvp", 5, "RVP Activity", "Field work", "slate"),
		stage("stage-results", 6, "Results", "Meeting outcome", "green"),
		stage("stage-routing", 7, "Routing", "Next steps", "slate"),
	}
}

func vanillaSoftGroups() []flow.Node {
	group := func(id string, stageIndex int, y float64, label string, height float64) flow.Node {
		return flow.Node{
			ID:       id,
			Position: flow.Position{X: stageX(stageIndex) + 10, Y: y},
			Data:     flow.Group{Label: label, Width: groupWidth, Height: height, Color: "slate"},
		}
	}

	return []flow.Node{
		group("group-retry", 3, outcomesRetryY, "Retry Outcomes", outcomesRetryHeight),
		group("group-progress", 3, outcomesProgressY, "Progress Outcomes", outcomesProgressHeight),
		group("group-meetings", 4, meetingsY, "Meeting Types", meetingsHeight),
		group("group-rvp-init", 5, rvpInitY, "RVP-Initiated", rvpInitHeight),
		group("group-bdc-sched", 5, rvpBDCY, "BDC-Scheduled", rvpBDCHeight),
		group("group-sit", 6, resultsSitY, "Sit Results", resultsSitHeight),
		group("group-nosit", 6, resultsNoSitY, "No-Sit Results", resultsNoSitHeight),
	}
}

func vanillaSoftContent() []flow.Node {
	row := func(i int) float64 { return float64(childStartY + i*(nodeHeight+nodeGap)) }
	grouped := func(id string, stageIndex int, groupY float64, index int, label, owner, desc string) flow.Node {
		x, y := inGroup(stageIndex, groupY, index)
		return content(id, x, y, label, owner, flow.StatusConfirmed, desc)
	}

	return []flow.Node{
		// Lead sources
		content("vs-data-purchase", stageX(0)+30, row(0), "Data Purchases", "System", flow.StatusConfirmed,
			"Purchased lead lists"),
		content("vs-unworked", stageX(0)+30, row(1), "Existing Unworked", "System", flow.StatusConfirmed,
			"Old leads never contacted"),
		content("vs-marketing", stageX(0)+30, row(2), "Marketing Leads", "Marketing", flow.StatusConfirmed,
			"Inbound from campaigns"),

		// Queue. The filter sits lower to leave room for the question box above it.
		content("vs-queue", stageX(1)+30, childStartY, "General Queue", "Nobody", flow.StatusOpenQuestion,
			`Unworked prospects. QUESTION: Is "queue" the right term? Any categorization when leads enter?`),
		content("vs-precall-filter", stageX(1)+30, childStartY+160, "Pre-Call Filter", "BDC", flow.StatusOpenQuestion,
			"Must have RVP coverage. QUESTION: What exact timeframe?"),

		// BDC calling
		content("vs-bdc-claims", stageX(2)+30, childStartY, "BDC Claims Lead", "BDC", flow.StatusOpenQuestion,
			`Any progress = BDC owns it. QUESTION: What counts as "progress"? First dial? Or reaching someone?`),
		content("vs-bdc-call", stageX(2)+30, childStartY+160, "Call Attempt", "BDC", flow.StatusConfirmed,
			"Dual scoring: Dialpad + VanillaSoft. Max 5 calls/week."),

		// Call outcomes: retry group
		grouped("vs-outcome-no-contact", 3, outcomesRetryY, 0, "No Contact", "BDC",
			"Nobody answered. Try again later."),
		grouped("vs-outcome-left-msg", 3, outcomesRetryY, 1, "Left Message", "BDC",
			"Voicemail. Wait for callback."),
		grouped("vs-outcome-gatekeeper", 3, outcomesRetryY, 2, "Spoke to Gatekeeper", "BDC",
			"Receptionist. No decision maker."),
		grouped("vs-outcome-callback", 3, outcomesRetryY, 3, "Callback Scheduled", "BDC",
			"They asked BDC to call back at specific time."),
		// Call outcomes: progress group
		grouped("vs-outcome-ndm", 3, outcomesProgressY, 0, "Spoke to NDM", "BDC",
			"Non-Decision Maker. No equity ownership."),
		grouped("vs-outcome-dm", 3, outcomesProgressY, 1, "Spoke to DM", "BDC",
			"Decision Maker. Has equity ownership. THE GOAL."),
		content("vs-outcome-dead", stageX(3)+30, outcomesProgressY+outcomesProgressHeight+groupGap, "Dead End", "BDC",
			flow.StatusOpenQuestion, "QUESTION: What kills a lead? DNC list? Wrong number? Out of business?"),

		// Meeting types
		grouped("vs-meeting-light", 4, meetingsY, 0, "Light Appointment", "BDC -> RVP",
			"NDM or vague time. Client may not expect visit."),
		grouped("vs-meeting-solid", 4, meetingsY, 1, "Solid Appointment", "BDC -> RVP",
			"DM + specific time. Client expects visit. GOLD STANDARD."),
		grouped("vs-meeting-bhyb", 4, meetingsY, 2, "BHYB", "BDC -> RVP",
			"Reverse Hybrid. Permission to stop by, no specific time."),
		grouped("vs-meeting-hybrid", 4, meetingsY, 3, "Hybrid", "RVP + BDC",
			"RVP touches first, requests BDC follow-up."),

		// RVP activity
		content("vs-rvp-owns", stageX(5)+30, rvpOwnershipY, "RVP Ownership", "RVP", flow.StatusConfirmed,
			"Any meeting type transfers ownership to RVP."),
		grouped("vs-rvp-selfgen", 5, rvpInitY, 0, "Self-Gen", "RVP",
			"RVP sets own appointment. No BDC."),
		grouped("vs-rvp-unilateral", 5, rvpInitY, 1, "Unilateral", "RVP",
			"RVP shows up without client knowledge. Cold call."),
		grouped("vs-rvp-bilateral", 5, rvpInitY, 2, "Bilateral", "RVP",
			"Scheduled follow-up. Both parties know the time."),
		grouped("vs-rvp-nextstep", 5, rvpInitY, 3, "Next Step", "RVP",
			"Follow-up for prospects in pipeline."),
		grouped("vs-rvp-runs-appt", 5, rvpBDCY, 0, "Runs Appointment", "RVP",
			"RVP goes to the BDC-scheduled appointment."),

		// Results: sit group
		grouped("vs-result-sale", 6, resultsSitY, 0, "SALE", "RVP -> Admin",
			"Deal closed! Out of pipeline."),
		grouped("vs-result-sit-dm", 6, resultsSitY, 1, "Sit DM", "RVP",
			"Met with Decision Maker. No sale yet."),
		grouped("vs-result-sit-ndm", 6, resultsSitY, 2, "Sit NDM", "RVP",
			"Met with Non-Decision Maker."),
		grouped("vs-result-nosale-dm", 6, resultsSitY, 3, "No Sale - DM", "RVP",
			"Proposed to DM, they said NO."),
		grouped("vs-result-nosale-ndm", 6, resultsSitY, 4, "No Sale - NDM", "RVP",
			"Proposed to NDM, they said no."),
		// Results: no-sit group
		grouped("vs-result-canceled", 6, resultsNoSitY, 0, "Canceled", "RVP",
			"Client canceled the meeting."),
		grouped("vs-result-nosit", 6, resultsNoSitY, 1, "No Sit", "RVP",
			"RVP showed up, client not there."),
		grouped("vs-result-rescheduled", 6, resultsNoSitY, 2, "Rescheduled", "RVP",
			"Rescheduled for another time."),
		grouped("vs-result-notsuitable", 6, resultsNoSitY, 3, "Not Suitable", "RVP",
			"Company not a fit (size, etc)."),

		// Routing
		content("vs-admin", stageX(7)+30, childStartY, "Admin Processing", "Admin", flow.StatusConfirmed,
			"Final sales/no-sales processed here."),
		content("vs-route-bdc", stageX(7)+30, childStartY+nodeHeight+nodeGap+40, "Back to BDC", "BDC",
			flow.StatusOpenQuestion, "QUESTION: Which results go back to BDC?"),
		content("vs-route-rvp", stageX(7)+30, row(2)+100, "Back to RVP", "RVP",
			flow.StatusOpenQuestion, "QUESTION: Which results stay with RVP?"),
		content("vs-loop", stageX(7)+30, row(3)+160, "Loop Continue", "System", flow.StatusConfirmed,
			"Records loop until SALE or NO SALE."),
	}
}

func vanillaSoftEdges() []flow.Edge {
	style := func(s flow.EdgeStyle) *flow.EdgeStyle { return &s }
	bold := func() *flow.LabelStyle { return &flow.LabelStyle{FontWeight: 700, FontSize: 11} }

	return []flow.Edge{
		// Main spine: stage to stage
		{ID: "e-stage-sources-queue", Source: "stage-sources", Target: "stage-queue", Style: style(edgeStyles.mainSpine)},
		{ID: "e-stage-queue-bdc", Source: "stage-queue", Target: "stage-bdc", Style: style(edgeStyles.mainSpine)},
		{ID: "e-stage-bdc-outcomes", Source: "stage-bdc", Target: "stage-outcomes", Style: style(edgeStyles.mainSpine)},
		{ID: "e-stage-outcomes-meetings", Source: "stage-outcomes", Target: "stage-meetings", Style: style(edgeStyles.mainSpine)},
		{ID: "e-stage-meetings-rvp", Source: "stage-meetings", Target: "stage-rvp", Style: style(edgeStyles.mainSpine)},
		{ID: "e-stage-rvp-results", Source: "stage-rvp", Target: "stage-results", Style: style(edgeStyles.mainSpine)},
		{ID: "e-stage-results-routing", Source: "stage-results", Target: "stage-routing", Style: style(edgeStyles.mainSpine)},

		// Group connections
		{ID: "e-retry-bdc", Source: "group-retry", Target: "vs-bdc-call", Style: style(edgeStyles.mainSpine),
			Label: "RETRY", LabelStyle: bold()},
		{ID: "e-progress-meetings", Source: "group-progress", Target: "group-meetings", Style: style(edgeStyles.mainSpine),
			Label: "ADVANCE", LabelStyle: bold()},

		// Success path
		{ID: "e-runappt-sale", Source: "vs-rvp-runs-appt", Target: "vs-result-sale", Style: style(edgeStyles.success)},
		{ID: "e-sale-admin", Source: "vs-result-sale", Target: "vs-admin", Style: style(edgeStyles.success)},
	}
}
