package notifications

// StaticData is the part of the notification template data model set upon initialization.
type StaticData struct {
	Title   string `json:"title"`
	Host    string `json:"host"`
	Project string `json:"project,omitempty"`
}

// Data is the notification template data model.
type Data struct {
	StaticData
	Report *ReportData `json:"report"`
}
