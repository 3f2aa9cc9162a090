package schema

// RecordTable represents the 'records.record' table
type RecordTable struct {
	Table         string
	ID            string
	FileName      string
	Description   string
	CategoryTags  string
	FileUploadURL string
	OwnerID       string
	CreatedAt     string
	UpdatedAt     string
}

// Record is the schema definition for records.record
var Record = RecordTable{
	Table:         "records.record",
	ID:            "id",
	FileName:      "filename",
	Description:   "description",
	CategoryTags:  "categorytags",
	FileUploadURL: "fileuploadurl",
	OwnerID:       "ownerid",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

// Columns returns all standard column names
func (t RecordTable) Columns() []string {
	return []string{
		t.ID, t.FileName, t.Description, t.CategoryTags, t.FileUploadURL,
		t.OwnerID, t.CreatedAt, t.UpdatedAt,
	}
}
