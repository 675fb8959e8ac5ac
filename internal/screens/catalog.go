// Package screens declares the management screens and owns the per-session
// controller and tracker instances behind them. Screens differ only by the
// configuration in this catalog; the behavior lives in listquery, columns,
// permission and uploads.
package screens

import (
	"opsboard/internal/domain"
	"opsboard/internal/listquery"
)

// Screen keys. These double as the column-preference screen keys.
const (
	KeyClients         = "clients"
	KeyEmployees       = "employees"
	KeyForms           = "forms"
	KeyVendorDocuments = "vendor-documents"
)

// Screen is one management screen's static definition.
type Screen struct {
	Key   string
	Title string
	listquery.Config
	// SaveProc handles add and edit; DeleteProc handles delete. Both take
	// the same generic jsonb parameter object as the list procedure.
	SaveProc   string
	DeleteProc string
	// HasUploadSlots marks screens whose edit form carries document
	// attachment slots.
	HasUploadSlots bool
	// DocumentTypeIDs enumerates the slots of the upload tab.
	DocumentTypeIDs []int
}

func defCol(name, display string, order int) domain.ColumnDefinition {
	return domain.ColumnDefinition{
		ColumnName:   name,
		DisplayName:  display,
		IsVisible:    true,
		IsHidden:     true,
		DisplayOrder: order,
	}
}

// Catalog lists every screen, keyed by screen key.
var Catalog = map[string]Screen{
	KeyClients: {
		Key:   KeyClients,
		Title: "Clients",
		Config: listquery.Config{
			ScreenKey:   KeyClients,
			FormID:      101,
			ListProc:    "list_clients",
			SortColumns: []string{"ClientName", "EmailId", "ContactNo", "City", "CreatedOn"},
			DateColumns: []string{"CreatedOn"},
			DefaultSort: "ClientName",
			DefaultColumns: []domain.ColumnDefinition{
				defCol("ClientName", "Client Name", 1),
				defCol("EmailId", "Email", 2),
				defCol("ContactNo", "Contact No", 3),
				defCol("City", "City", 4),
				defCol("IsActive", "Active", 5),
				defCol("CreatedOn", "Created On", 6),
			},
		},
		SaveProc:   "save_client",
		DeleteProc: "delete_client",
	},
	KeyEmployees: {
		Key:   KeyEmployees,
		Title: "Employees",
		Config: listquery.Config{
			ScreenKey:   KeyEmployees,
			FormID:      102,
			ListProc:    "list_employees",
			SortColumns: []string{"FullName", "EmailId", "Designation", "JoinedOn"},
			DateColumns: []string{"JoinedOn"},
			DefaultSort: "FullName",
			DefaultColumns: []domain.ColumnDefinition{
				defCol("FullName", "Full Name", 1),
				defCol("EmailId", "Email", 2),
				defCol("Designation", "Designation", 3),
				defCol("IsActive", "Active", 4),
				defCol("JoinedOn", "Joined On", 5),
			},
		},
		SaveProc:   "save_employee",
		DeleteProc: "delete_employee",
	},
	KeyForms: {
		Key:   KeyForms,
		Title: "Forms",
		Config: listquery.Config{
			ScreenKey:   KeyForms,
			FormID:      103,
			ListProc:    "list_forms",
			SortColumns: []string{"FormName", "ModuleName"},
			DefaultSort: "FormName",
			DefaultColumns: []domain.ColumnDefinition{
				defCol("FormName", "Form Name", 1),
				defCol("ModuleName", "Module", 2),
				defCol("Actions", "Actions", 3),
			},
		},
		SaveProc:   "save_form",
		DeleteProc: "delete_form",
	},
	KeyVendorDocuments: {
		Key:   KeyVendorDocuments,
		Title: "Vendor Documents",
		Config: listquery.Config{
			ScreenKey:   KeyVendorDocuments,
			FormID:      104,
			ListProc:    "list_vendor_documents",
			SortColumns: []string{"VendorName", "DocumentCount", "UpdatedOn"},
			DateColumns: []string{"UpdatedOn", "ExpiryDate"},
			DefaultSort: "VendorName",
			DefaultColumns: []domain.ColumnDefinition{
				defCol("VendorName", "Vendor Name", 1),
				defCol("DocumentCount", "Documents", 2),
				defCol("ExpiryDate", "Expiry Date", 3),
				defCol("UpdatedOn", "Updated On", 4),
			},
		},
		SaveProc:       "save_vendor_document",
		DeleteProc:     "delete_vendor_document",
		HasUploadSlots: true,
		// PAN, GST, bank proof, agreement, cancelled cheque.
		DocumentTypeIDs: []int{1, 2, 3, 4, 5},
	},
}

// Lookup resolves a screen key.
func Lookup(key string) (Screen, bool) {
	s, ok := Catalog[key]
	return s, ok
}
