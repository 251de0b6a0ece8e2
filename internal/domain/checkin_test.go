package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckinSessionToggle(t *testing.T) {
	s := NewCheckinSession("p1")

	s.Toggle(10)
	assert.True(t, s.Present[10])

	s.Toggle(10)
	assert.False(t, s.Present[10])
	assert.Empty(t, s.Present)
}

func TestCheckinSessionMarkAllAndNone(t *testing.T) {
	s := NewCheckinSession("p1")
	s.Toggle(99)

	s.MarkAll([]int64{1, 2, 3})
	assert.Len(t, s.Present, 3)
	assert.False(t, s.Present[99], "MarkAll replaces earlier marks")

	s.MarkNone()
	assert.Empty(t, s.Present)
}

func TestPartitionPresent(t *testing.T) {
	yes := []Vote{
		{UserID: 1, Name: "Анна"},
		{UserID: 2, Name: "Борис"},
		{UserID: 3, Name: "Вера"},
	}

	arrived, noshow := PartitionPresent(yes, map[int64]bool{1: true, 3: true})

	assert.Len(t, arrived, 2)
	assert.Len(t, noshow, 1)
	assert.Equal(t, int64(2), noshow[0].UserID)
	assert.Equal(t, len(yes), len(arrived)+len(noshow))
}

func TestPartitionPresentEmptyMarks(t *testing.T) {
	yes := []Vote{{UserID: 1}, {UserID: 2}}

	arrived, noshow := PartitionPresent(yes, map[int64]bool{})
	assert.Empty(t, arrived)
	assert.Len(t, noshow, 2)
}

func TestLedgerEntryIDs(t *testing.T) {
	assert.Equal(t, "ci_abc_42", CheckinEntryID("abc", 42))
	assert.Equal(t, "ns_abc_42", PenaltyEntryID("abc", 42))
	assert.NotEqual(t, CheckinEntryID("p", 1), PenaltyEntryID("p", 1))
}

func TestBestName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{name: "override wins", user: User{DisplayName: "Катя", FirstName: "Ekaterina"}, want: "Катя"},
		{name: "full profile name", user: User{FirstName: "Ivan", LastName: "Petrov"}, want: "Ivan Petrov"},
		{name: "first name only", user: User{FirstName: "Ivan"}, want: "Ivan"},
		{name: "username fallback", user: User{Username: "ivan"}, want: "@ivan"},
		{name: "nothing known", user: User{}, want: FallbackName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.BestName())
		})
	}
}
