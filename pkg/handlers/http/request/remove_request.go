package request

import (
	"strings"

	appFollower "github.com/NeuralTrust/FollowerManager/pkg/app/follower"
	"github.com/google/uuid"
)

const invalidRemoval = "Invalid request parameters"

type RemoveRequest struct {
	FollowerIDs []string `json:"followerIds"`
	Reason      string   `json:"reason"`
}

// ToRemoveRequest validates the body and parses the follower ids.
func (r RemoveRequest) ToRemoveRequest() (appFollower.RemoveRequest, error) {
	verr := &ValidationError{Message: invalidRemoval}
	if len(r.FollowerIDs) == 0 {
		verr.add("followerIds", "At least one follower must be selected")
	}
	ids := make([]uuid.UUID, 0, len(r.FollowerIDs))
	for _, raw := range r.FollowerIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			verr.add("followerIds", "invalid follower id %q", raw)
			continue
		}
		ids = append(ids, id)
	}
	if strings.TrimSpace(r.Reason) == "" {
		verr.add("reason", "Removal reason is required")
	}
	if err := verr.orNil(); err != nil {
		return appFollower.RemoveRequest{}, err
	}
	return appFollower.RemoveRequest{FollowerIDs: ids, Reason: strings.TrimSpace(r.Reason)}, nil
}
