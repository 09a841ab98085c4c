// Package permission defines the flat capability tags used throughout the
// application and the decision primitive that gates every sensitive action.
package permission

// Key is an atomic capability tag. Each key gates exactly one class of
// user-visible action.
type Key string

const (
	ViewDashboard Key = "view-dashboard"
	ViewList      Key = "view-list"
	EditPatent    Key = "edit-patent"
	DeletePatent  Key = "delete-patent"
	SendEmail     Key = "send-email"
	ImportData    Key = "import-data"
	ExportData    Key = "export-data"
	ManageAccess  Key = "manage-access"
	ViewLogs      Key = "view-logs"
	AIChat        Key = "ai-chat"
)

// AllKeys lists every key in the current enumeration, in display order.
func AllKeys() []Key {
	return []Key{
		ViewDashboard,
		ViewList,
		EditPatent,
		DeletePatent,
		SendEmail,
		ImportData,
		ExportData,
		ManageAccess,
		ViewLogs,
		AIChat,
	}
}

// IsValid reports whether k belongs to the current enumeration. The role
// registry itself stores keys unchecked; validation happens at the admin
// boundary so stored data stays forward-compatible with additive growth.
func IsValid(k Key) bool {
	for _, known := range AllKeys() {
		if k == known {
			return true
		}
	}
	return false
}
