package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field names understood by specifications and sort fields.
const (
	FieldMemberID = "id"
	FieldUsername = "username"
	FieldAge      = "age"
	FieldTeamID   = "teamId"
	FieldTeamName = "teamName"
)

type MemberID struct {
	uuid.UUID
}

func NewMemberID() MemberID {
	return MemberID{UUID: uuid.Must(uuid.NewV7())}
}

func ParseMemberID(s string) (MemberID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return MemberID{}, ErrInvalidMemberID
	}

	return MemberID{UUID: id}, nil
}

func (m MemberID) String() string {
	return m.UUID.String()
}

func (m MemberID) IsZero() bool {
	return m.UUID == uuid.Nil
}

type TeamID struct {
	uuid.UUID
}

func NewTeamID() TeamID {
	return TeamID{UUID: uuid.Must(uuid.NewV7())}
}

func ParseTeamID(s string) (TeamID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return TeamID{}, err
	}

	return TeamID{UUID: id}, nil
}

func (t TeamID) String() string {
	return t.UUID.String()
}

func (t TeamID) IsZero() bool {
	return t.UUID == uuid.Nil
}

type Team struct {
	ID        TeamID    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewTeam(name string) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &InvalidConditionError{Field: FieldTeamName, Value: name, Err: ErrBlankValue}
	}

	return &Team{
		ID:        NewTeamID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Member belongs to at most one team. Username may be absent.
type Member struct {
	ID        MemberID  `json:"id"`
	Username  *string   `json:"username"`
	Age       int       `json:"age"`
	TeamID    *TeamID   `json:"teamId"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewMember(username *string, age int, team *Team) *Member {
	member := &Member{
		ID:        NewMemberID(),
		Username:  username,
		Age:       age,
		CreatedAt: time.Now().UTC(),
	}

	if team != nil {
		teamID := team.ID
		member.TeamID = &teamID
	}

	return member
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to a copy of v.
func IntPtr(v int) *int {
	return &v
}
