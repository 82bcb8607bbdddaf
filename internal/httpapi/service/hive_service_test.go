package service

import (
	"context"
	"testing"
	"time"

	"bookdocker/internal/httpapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestListBuzzes_OnlyActivePremiumCompleteWants(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	svc := NewHiveService(expertRepo, nil, time.Minute, testLogger())

	roster := []models.Expert{
		searcher("exp-1", "Premium With Want", "a@example.com", "premium", wantPtr("dune", "herbert")),
		searcher("exp-2", "Free With Want", "b@example.com", "free", wantPtr("emma", "austen")),
		searcher("exp-3", "Premium No Want", "c@example.com", "premium", nil),
	}
	disabled := searcher("exp-4", "Disabled Premium", "d@example.com", "premium", wantPtr("ivanhoe", "scott"))
	disabled.Status = models.StatusDisabled
	roster = append(roster, disabled)

	expertRepo.On("ListAll", mock.Anything).Return(roster, nil)

	buzzes, err := svc.ListBuzzes(context.Background())

	assert.NoError(t, err)
	assert.Len(t, buzzes, 1)
	assert.Equal(t, "exp-1", buzzes[0].ExpertID)
	assert.Equal(t, "dune", buzzes[0].Want.Title)
}

func TestListBuzzes_EmptyRosterYieldsEmptyList(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	svc := NewHiveService(expertRepo, nil, time.Minute, testLogger())

	expertRepo.On("ListAll", mock.Anything).Return([]models.Expert{}, nil)

	buzzes, err := svc.ListBuzzes(context.Background())

	assert.NoError(t, err)
	assert.NotNil(t, buzzes)
	assert.Empty(t, buzzes)
}
