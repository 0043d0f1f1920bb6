package dispatch

import (
	"strconv"

	"tasknotify/models"
)

// Payload field names are a frozen contract with the mobile client; both the
// key set and the literal values must stay bit-exact.
const (
	keyDescription = "TASK_DESCRIPTION"
	keyTimeZone    = "TASK_TIMEZONE"
	keyTaskID      = "TASK_ID"
	keyUserName    = "USER_NAME"
	keyStartDate   = "TASK_START_DATE"
	keyIsDeleted   = "IS_DELETED"
	keyClickAction = "click_action"

	clickActionMain = "MainActivity"
)

// BuildTaskPayload composes the data payload for a task change. Created and
// updated tasks carry the full seven-field payload; deleted tasks carry only
// the task id and the deletion marker, since there is nothing left to render.
// FCM data payloads require homogeneous string values, so the start timestamp
// is stringified.
func BuildTaskPayload(kind models.ChangeKind, task *models.Task, user *models.User) map[string]string {
	if kind == models.TaskDeleted {
		return map[string]string{
			keyTaskID:    task.ID,
			keyIsDeleted: "true",
		}
	}
	return map[string]string{
		keyDescription: task.Description,
		keyTimeZone:    task.MetaData.TimeZone,
		keyTaskID:      task.ID,
		keyUserName:    user.Name,
		keyStartDate:   strconv.FormatInt(task.MetaData.StartDatetime, 10),
		keyIsDeleted:   "false",
		keyClickAction: clickActionMain,
	}
}
