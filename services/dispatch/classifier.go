package dispatch

import "tasknotify/models"

// SignificantChange reports whether an update to a task warrants a fresh
// notification. It compares a fixed allow-list of fields: schedule, owner and
// description. Anything else (including is_done_enabled, which this service
// writes back itself) is ignored, so the update event induced by our own
// write-back is suppressed and the trigger cycle terminates after one hop.
func SignificantChange(previous, next *models.Task) bool {
	if next.MetaData.StartDatetime != previous.MetaData.StartDatetime {
		return true
	}
	if next.User.ID != previous.User.ID {
		return true
	}
	if next.Description != previous.Description {
		return true
	}
	return false
}
