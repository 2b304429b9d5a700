package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/assignment"
)

type stubRepo struct {
	assignment *assignment.Assignment
	err        error
}

func (r *stubRepo) GetForDate(ctx context.Context, tenantID string, employeeID string, date time.Time) (*assignment.Assignment, error) {
	return r.assignment, r.err
}

func TestResolveReturnsNilForWalkIn(t *testing.T) {
	r := NewResolver(&stubRepo{}, 15)

	a, err := r.Resolve(context.Background(), "tenant", "employee", time.Now())
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestResolveWrapsRepoError(t *testing.T) {
	r := NewResolver(&stubRepo{err: assert.AnError}, 15)

	_, err := r.Resolve(context.Background(), "tenant", "employee", time.Now())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCheckWindow(t *testing.T) {
	r := NewResolver(&stubRepo{}, 15)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	a := &assignment.Assignment{StartAt: start}

	cases := []struct {
		name string
		now  time.Time
		want error
	}{
		{"exactly on time", start, nil},
		{"early inside window", start.Add(-15 * time.Minute), nil},
		{"late inside window", start.Add(15 * time.Minute), nil},
		{"too early", start.Add(-16 * time.Minute), assignment.ErrOutsideScheduleWindow},
		{"too late", start.Add(16 * time.Minute), assignment.ErrOutsideScheduleWindow},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := r.CheckWindow(a, c.now)
			if c.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, c.want)
			}
		})
	}
}

func TestCheckWindowNilAssignment(t *testing.T) {
	r := NewResolver(&stubRepo{}, 15)

	err := r.CheckWindow(nil, time.Now())
	assert.ErrorIs(t, err, assignment.ErrAssignmentNotFound)
}
