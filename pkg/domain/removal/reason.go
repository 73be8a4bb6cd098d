package removal

type Reason struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

const (
	ReasonNonMutual      = "non_mutual"
	ReasonBotDetected    = "bot_detected"
	ReasonLowPopularity  = "low_popularity"
	ReasonUnknownContact = "unknown_contact"
	ReasonInactive       = "inactive"
)

var Reasons = []Reason{
	{ID: ReasonNonMutual, Label: "Not Following Back", Description: "Accounts that don't follow you back"},
	{ID: ReasonBotDetected, Label: "Suspected Bot", Description: "Accounts identified as likely bots"},
	{ID: ReasonLowPopularity, Label: "Low Popularity", Description: "Accounts with very few followers"},
	{ID: ReasonUnknownContact, Label: "Unknown Contact", Description: "Accounts with no mutual connections"},
	{ID: ReasonInactive, Label: "Inactive Account", Description: "Accounts that haven't posted recently"},
}

// LookupReason returns the catalogue entry for id.
func LookupReason(id string) (Reason, bool) {
	for _, r := range Reasons {
		if r.ID == id {
			return r, true
		}
	}
	return Reason{}, false
}
