package model

// MemberTeamView is one member row left-joined with its team. Team fields
// are nil when the member has no team.
type MemberTeamView struct {
	MemberID MemberID `json:"memberId"`
	Username *string  `json:"username"`
	Age      int      `json:"age"`
	TeamID   *TeamID  `json:"teamId"`
	TeamName *string  `json:"teamName"`
}

// AgeSummary aggregates member ages over a filtered set. Min and Max are nil
// when the set is empty.
type AgeSummary struct {
	Count int64   `json:"count"`
	Sum   int64   `json:"sum"`
	Avg   float64 `json:"avg"`
	Min   *int    `json:"min"`
	Max   *int    `json:"max"`
}

type TeamAgeStats struct {
	TeamName string  `json:"teamName"`
	Members  int64   `json:"members"`
	AvgAge   float64 `json:"avgAge"`
}
