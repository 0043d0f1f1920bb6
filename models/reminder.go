package models

// ReminderPayload is the queued payload for a start-time reminder push.
type ReminderPayload struct {
	TaskID        string `json:"taskId"`
	Household     string `json:"household"`
	UserID        string `json:"userId"`
	Description   string `json:"description"`
	TimeZone      string `json:"timeZone"`
	StartDatetime int64  `json:"startDatetime"`
}
