package models

// Project is a named, user-owned list of building IDs. One row per save;
// there is no update-in-place, and neither username nor project name is
// unique. Filters preserve the order they were saved in.
type Project struct {
	Username    string  `json:"username"`
	ProjectName string  `json:"projectName"`
	Filters     []int64 `json:"filters"`
	ID          int64   `json:"id"`
}

// ProjectSummary is the listing shape for a user's saved projects.
// Filters degrade to an empty list when the stored text fails to
// deserialize; a bad row never fails the whole listing.
type ProjectSummary struct {
	Name    string  `json:"name"`
	Filters []int64 `json:"filters"`
	ID      int64   `json:"id"`
}
