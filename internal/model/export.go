package model

// StudentExport is the top-level JSON structure for a student data export.
type StudentExport struct {
	StudentID    string `json:"student_id"`
	ExportedAt   string `json:"exported_at"`
	Conversation []Turn `json:"conversation"`
	Tests        []Test `json:"tests"`
}
