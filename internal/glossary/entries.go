package glossary

// Entries returns the built-in glossary in source order.
func Entries() []Entry {
	return []Entry{
		{Term: "DM", Definition: "Decision Maker - The person with authority to approve/purchase. Primary contact for sales.", Category: CategoryRole},
		{Term: "NDM", Definition: "Non-Decision Maker - Contact who is not the decision maker but may influence the sale.", Category: CategoryRole},
		{Term: "BDC", Definition: "Business Development Center - Team that handles initial outreach, appointment setting, and lead qualification.", Category: CategoryRole},
		{Term: "RVP", Definition: "Regional Vice President - Sales rep who conducts meetings and closes deals.", Category: CategoryRole},
		{Term: "Admin", Definition: "Administrative staff handling post-sale paperwork and support.", Category: CategoryRole},

		{Term: "BHYB", Definition: "Be Here Your Best - A specific meeting type in the sales process.", Category: CategoryMeetingType},
		{Term: "Light", Definition: "Light Meeting - Lower intensity meeting type, typically informational.", Category: CategoryMeetingType},
		{Term: "Solid", Definition: "Solid Meeting - Standard sales meeting with full presentation.", Category: CategoryMeetingType},
		{Term: "Hybrid", Definition: "Hybrid Meeting - Combination meeting type with mixed format.", Category: CategoryMeetingType},

		{Term: "Self-gen", Definition: "Self-generated lead - Lead sourced by the sales rep themselves.", Category: CategoryLeadType},
		{Term: "Unilateral", Definition: "Unilateral lead - Lead from a single source/referral.", Category: CategoryLeadType},
		{Term: "Bilateral", Definition: "Bilateral lead - Lead from multiple sources or mutual referral.", Category: CategoryLeadType},

		{Term: "Sale", Definition: "Successful sale completed.", Category: CategoryResultCode, Group: "Sale"},
		{Term: "Sit DM", Definition: "Sat with Decision Maker - Meeting completed with the decision maker present.", Category: CategoryResultCode, Group: "Sit"},
		{Term: "Sit NDM", Definition: "Sat with Non-Decision Maker - Meeting completed but DM was not present.", Category: CategoryResultCode, Group: "Sit"},
		{Term: "No Sale - MDM", Definition: "No Sale - Met Decision Maker. Meeting happened with DM but no sale closed.", Category: CategoryResultCode, Group: "No Sale"},
		{Term: "No Sale - MNDM", Definition: "No Sale - Met Non-Decision Maker. Meeting happened but DM was not present.", Category: CategoryResultCode, Group: "No Sale"},
		{Term: "No Sit", Definition: "No Sit - Appointment was scheduled but meeting did not happen (no-show, cancelled, etc.).", Category: CategoryResultCode, Group: "No Sit"},
		{Term: "Callback", Definition: "Lead requested a callback at a later time.", Category: CategoryResultCode},
		{Term: "Reschedule", Definition: "Appointment needs to be rescheduled.", Category: CategoryResultCode},
		{Term: "DQ", Definition: "Disqualified - Lead does not meet qualification criteria.", Category: CategoryResultCode},

		{Term: "Queue", Definition: "List of leads/contacts waiting to be worked by BDC or RVP.", Category: CategoryOther},
		{Term: "Appointment", Definition: "Scheduled meeting between RVP and prospect.", Category: CategoryOther},
		{Term: "Lead", Definition: "Potential customer contact in the system.", Category: CategoryOther},
		{Term: "Deal", Definition: "HubSpot record tracking a sales opportunity through the pipeline.", Category: CategoryOther},
		{Term: "Task", Definition: "To-do item assigned to a user in HubSpot.", Category: CategoryOther},
		{Term: "Meeting", Definition: "Calendar event in HubSpot associated with contacts/deals.", Category: CategoryOther},
		{Term: "VanillaSoft", Definition: "Current CRM/dialer system being migrated from.", Category: CategoryOther},
		{Term: "HubSpot", Definition: "Target CRM platform being migrated to.", Category: CategoryOther},
	}
}
