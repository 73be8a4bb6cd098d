package auditlogs

import "strconv"

// NewRemovalEvent describes a finished batch removal. Status is partial when
// only some followers could be removed.
func NewRemovalEvent(actor Actor, reqCtx Context, removalID, reason string, removed, failed int) Event {
	status := StatusSuccess
	switch {
	case removed == 0 && failed > 0:
		status = StatusFailure
	case failed > 0:
		status = StatusPartial
	}
	return Event{
		Event: EventInfo{
			Type:        EventTypeFollowersRemoved,
			Category:    CategoryFollowers,
			Description: "followers removed",
			Status:      status,
		},
		Actor:   actor,
		Target:  Target{Type: TargetTypeRemoval, ID: removalID},
		Context: reqCtx,
		Metadata: map[string]string{
			"reason":  reason,
			"removed": strconv.Itoa(removed),
			"failed":  strconv.Itoa(failed),
		},
	}
}
