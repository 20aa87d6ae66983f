package domain

// Stats is a point-in-time snapshot of store counters.
type Stats struct {
	TotalPRs    int
	OpenPRs     int
	MergedPRs   int
	TotalUsers  int
	ActiveUsers int
	TotalTeams  int

	// ReviewerAssignments maps user id to the number of pull requests
	// currently listing the user as a reviewer.
	ReviewerAssignments map[string]int
}
