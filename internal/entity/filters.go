package entity

// DocumentFilter narrows script and note listings. InboxOnly wins over
// ProjectID.
type DocumentFilter struct {
	ProjectID *ProjectID
	InboxOnly bool
}

// InspirationFilter narrows inspiration listings.
type InspirationFilter struct {
	ProjectID *ProjectID
	Type      InspirationType
}
