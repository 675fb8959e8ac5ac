package domain

import "strings"

// Action is one permission-gated UI affordance on a screen. Action strings
// from the permissions query are normalized to lowercase hyphenated form.
type Action string

const (
	ActionAdd           Action = "add"
	ActionEdit          Action = "edit"
	ActionDelete        Action = "delete"
	ActionSearch        Action = "search"
	ActionAdvanceSearch Action = "advance-search"
	ActionManageColumns Action = "manage-columns"
)

// NormalizeAction trims and lowercases a raw action string so that
// "Add", " add " and "add" all compare equal.
func NormalizeAction(raw string) Action {
	return Action(strings.ToLower(strings.TrimSpace(raw)))
}

// SortDirection is the direction of a single-column sort.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// Toggle flips the direction.
func (d SortDirection) Toggle() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// UploadStatus is the lifecycle state of one document slot's upload.
type UploadStatus string

const (
	UploadIdle      UploadStatus = "idle"
	UploadUploading UploadStatus = "uploading"
	UploadDone      UploadStatus = "done"
	UploadFailed    UploadStatus = "failed"
)

// ExportFormat selects the output of a full-result export.
type ExportFormat string

const (
	ExportCSV   ExportFormat = "csv"
	ExportXLSX  ExportFormat = "xlsx"
	ExportPDF   ExportFormat = "pdf"
	ExportPrint ExportFormat = "print"
)

// ParseExportFormat maps a raw format string to an ExportFormat.
func ParseExportFormat(raw string) (ExportFormat, bool) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case ExportCSV:
		return ExportCSV, true
	case ExportXLSX:
		return ExportXLSX, true
	case ExportPDF:
		return ExportPDF, true
	case ExportPrint:
		return ExportPrint, true
	default:
		return "", false
	}
}

// Role defines the operator role hierarchy.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// PageSizes are the selectable page sizes for every screen.
var PageSizes = []int{10, 25, 50, 100}

// ValidPageSize reports whether n is one of the selectable page sizes.
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if n == s {
			return true
		}
	}
	return false
}
