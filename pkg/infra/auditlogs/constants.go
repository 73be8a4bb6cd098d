package auditlogs

const (
	EventTypeLoginSucceeded = "auth.login_succeeded"
	EventTypeLoginFailed    = "auth.login_failed"
	EventTypeLogout         = "auth.logout"

	EventTypeFollowersSynced  = "followers.synced"
	EventTypeFollowersRemoved = "followers.removed"

	EventTypeSettingsUpdated = "settings.updated"
	EventTypeSampleSeeded    = "sample.seeded"
)

const (
	CategoryAccount   = "account"
	CategoryFollowers = "followers"
)

const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailure = "failure"
)

const (
	TargetTypeUser     = "user"
	TargetTypeSettings = "settings"
	TargetTypeRemoval  = "removal"
)

const (
	ActorTypeUser   = "user"
	ActorTypeSystem = "system"
)
