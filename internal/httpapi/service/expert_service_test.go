package service

import (
	"context"
	"errors"
	"testing"

	"bookdocker/internal/httpapi/models"
	"bookdocker/internal/httpapi/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockExpertRepository mocks the ExpertRepository interface
type MockExpertRepository struct {
	mock.Mock
}

func (m *MockExpertRepository) Create(ctx context.Context, expert *models.Expert) error {
	args := m.Called(ctx, expert)
	return args.Error(0)
}

func (m *MockExpertRepository) FindByID(ctx context.Context, id string) (*models.Expert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Expert), args.Error(1)
}

func (m *MockExpertRepository) FindByEmail(ctx context.Context, email string) (*models.Expert, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Expert), args.Error(1)
}

func (m *MockExpertRepository) List(ctx context.Context, filters repository.ExpertFilters) ([]models.Expert, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Expert), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpertRepository) ListAll(ctx context.Context) ([]models.Expert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Expert), args.Error(1)
}

func (m *MockExpertRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockExpertRepository) ReplaceBooks(ctx context.Context, expertID string, books []models.Book) error {
	args := m.Called(ctx, expertID, books)
	return args.Error(0)
}

func (m *MockExpertRepository) ReplaceSpotlights(ctx context.Context, expertID string, spotlights []models.Spotlight) error {
	args := m.Called(ctx, expertID, spotlights)
	return args.Error(0)
}

func (m *MockExpertRepository) SetBookQuery(ctx context.Context, expertID string, query *models.BookQuery) error {
	args := m.Called(ctx, expertID, query)
	return args.Error(0)
}

func (m *MockExpertRepository) SetPresentOffer(ctx context.Context, expertID string, offer *models.PresentOffer) error {
	args := m.Called(ctx, expertID, offer)
	return args.Error(0)
}

func (m *MockExpertRepository) UpdateStatus(ctx context.Context, ids []string, status string) error {
	args := m.Called(ctx, ids, status)
	return args.Error(0)
}

func (m *MockExpertRepository) DeleteMany(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// MockAlertService mocks the AlertService interface
type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) Delta(oldBooks, newBooks []models.Book) []models.Book {
	args := m.Called(oldBooks, newBooks)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Book)
}

func (m *MockAlertService) Scan(seller models.Expert, addedBooks []models.Book, roster []models.Expert) []Match {
	args := m.Called(seller, addedBooks, roster)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]Match)
}

func (m *MockAlertService) Dispatch(ctx context.Context, seller models.Expert, matches []Match) {
	m.Called(ctx, seller, matches)
}

// MockHiveInvalidator mocks the HiveInvalidator interface
type MockHiveInvalidator struct {
	mock.Mock
}

func (m *MockHiveInvalidator) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

func freeExpert(id string, books ...models.Book) *models.Expert {
	return &models.Expert{
		ID:               id,
		Name:             "Test Expert",
		Email:            id + "@example.com",
		Status:           models.StatusActive,
		SubscriptionTier: "free",
		Books:            books,
	}
}

func manyBooks(n int) []models.Book {
	books := make([]models.Book, n)
	for i := range books {
		books[i] = models.Book{Title: "Book", Author: "Author", Status: models.BookAvailable}
	}
	return books
}

func TestReplaceBooks_FreeTierLimitRejected(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	alerts := new(MockAlertService)
	svc := NewExpertService(expertRepo, alerts, nil, nil, testLogger())

	expertRepo.On("FindByID", mock.Anything, "exp-1").Return(freeExpert("exp-1"), nil)

	_, err := svc.ReplaceBooks(context.Background(), "exp-1", manyBooks(36))

	assert.ErrorIs(t, err, ErrBookLimitExceeded)
	expertRepo.AssertNotCalled(t, "ReplaceBooks", mock.Anything, mock.Anything, mock.Anything)
	alerts.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything, mock.Anything)
}

func TestReplaceBooks_PremiumTierAllowsMore(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	alerts := new(MockAlertService)
	svc := NewExpertService(expertRepo, alerts, nil, nil, testLogger())

	expert := freeExpert("exp-1")
	expert.SubscriptionTier = "premium"
	expertRepo.On("FindByID", mock.Anything, "exp-1").Return(expert, nil)
	expertRepo.On("ReplaceBooks", mock.Anything, "exp-1", mock.Anything).Return(nil)
	alerts.On("Delta", mock.Anything, mock.Anything).Return([]models.Book{})

	_, err := svc.ReplaceBooks(context.Background(), "exp-1", manyBooks(100))

	assert.NoError(t, err)
	expertRepo.AssertCalled(t, "ReplaceBooks", mock.Anything, "exp-1", mock.Anything)
}

func TestReplaceBooks_PersistFailureMeansNoAlerts(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	alerts := new(MockAlertService)
	svc := NewExpertService(expertRepo, alerts, nil, nil, testLogger())

	expertRepo.On("FindByID", mock.Anything, "exp-1").Return(freeExpert("exp-1"), nil)
	expertRepo.On("ReplaceBooks", mock.Anything, "exp-1", mock.Anything).Return(errors.New("db down"))
	alerts.On("Delta", mock.Anything, mock.Anything).Return(manyBooks(1))

	_, err := svc.ReplaceBooks(context.Background(), "exp-1", manyBooks(1))

	assert.Error(t, err)
	alerts.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything, mock.Anything)
	alerts.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestReplaceBooks_OneScanPerSuccessfulSave(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	alerts := new(MockAlertService)
	svc := NewExpertService(expertRepo, alerts, nil, nil, testLogger())

	added := []models.Book{{ID: "b1", Title: "Dune", Author: "Frank Herbert", Status: models.BookAvailable}}
	roster := []models.Expert{*freeExpert("exp-1"), *freeExpert("exp-2")}

	expertRepo.On("FindByID", mock.Anything, "exp-1").Return(freeExpert("exp-1"), nil)
	expertRepo.On("ReplaceBooks", mock.Anything, "exp-1", mock.Anything).Return(nil)
	expertRepo.On("ListAll", mock.Anything).Return(roster, nil)
	alerts.On("Delta", mock.Anything, mock.Anything).Return(added)
	alerts.On("Scan", mock.Anything, added, roster).Return([]Match{})
	alerts.On("Dispatch", mock.Anything, mock.Anything, []Match{}).Return()

	_, err := svc.ReplaceBooks(context.Background(), "exp-1", manyBooks(1))

	assert.NoError(t, err)
	alerts.AssertNumberOfCalls(t, "Scan", 1)
	alerts.AssertNumberOfCalls(t, "Dispatch", 1)
	expertRepo.AssertNumberOfCalls(t, "ListAll", 1)
}

func TestReplaceBooks_NoAdditionsMeansNoScan(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	alerts := new(MockAlertService)
	svc := NewExpertService(expertRepo, alerts, nil, nil, testLogger())

	expertRepo.On("FindByID", mock.Anything, "exp-1").Return(freeExpert("exp-1"), nil)
	expertRepo.On("ReplaceBooks", mock.Anything, "exp-1", mock.Anything).Return(nil)
	alerts.On("Delta", mock.Anything, mock.Anything).Return([]models.Book{})

	_, err := svc.ReplaceBooks(context.Background(), "exp-1", manyBooks(1))

	assert.NoError(t, err)
	alerts.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything, mock.Anything)
	expertRepo.AssertNotCalled(t, "ListAll", mock.Anything)
}

func TestReplaceBooks_RosterLoadFailureDoesNotFailSave(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	alerts := new(MockAlertService)
	svc := NewExpertService(expertRepo, alerts, nil, nil, testLogger())

	expertRepo.On("FindByID", mock.Anything, "exp-1").Return(freeExpert("exp-1"), nil)
	expertRepo.On("ReplaceBooks", mock.Anything, "exp-1", mock.Anything).Return(nil)
	expertRepo.On("ListAll", mock.Anything).Return(nil, errors.New("db down"))
	alerts.On("Delta", mock.Anything, mock.Anything).Return(manyBooks(1))

	updated, err := svc.ReplaceBooks(context.Background(), "exp-1", manyBooks(1))

	assert.NoError(t, err)
	assert.NotNil(t, updated)
	alerts.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfile_AwayStatusRequiresPremium(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	svc := NewExpertService(expertRepo, new(MockAlertService), nil, nil, testLogger())

	expertRepo.On("FindByID", mock.Anything, "exp-1").Return(freeExpert("exp-1"), nil)

	_, err := svc.UpdateProfile(context.Background(), "exp-1", ProfileUpdate{OnLeave: true})

	assert.ErrorIs(t, err, ErrAwayRequiresPremium)
	expertRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfile_IncompleteWantRejected(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	svc := NewExpertService(expertRepo, new(MockAlertService), nil, nil, testLogger())

	expertRepo.On("FindByID", mock.Anything, "exp-1").Return(freeExpert("exp-1"), nil)

	_, err := svc.UpdateProfile(context.Background(), "exp-1", ProfileUpdate{
		Want: &models.BookQuery{Title: "Dune"},
	})

	assert.ErrorIs(t, err, models.ErrIncompleteWant)
}

func TestUpdateProfile_OfferRequiresPremium(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	svc := NewExpertService(expertRepo, new(MockAlertService), nil, nil, testLogger())

	expertRepo.On("FindByID", mock.Anything, "exp-1").Return(
		freeExpert("exp-1", models.Book{ID: "b1", Status: models.BookAvailable}), nil)

	_, err := svc.UpdateProfile(context.Background(), "exp-1", ProfileUpdate{
		Offer: &models.PresentOffer{BookID: "b1", BooksRequired: 3},
	})

	assert.ErrorIs(t, err, ErrOfferRequiresPremium)
}

func TestUpdateProfile_OfferMustReferenceAvailableBook(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	svc := NewExpertService(expertRepo, new(MockAlertService), nil, nil, testLogger())

	expert := freeExpert("exp-1", models.Book{ID: "b1", Status: models.BookSold})
	expert.SubscriptionTier = "premium"
	expertRepo.On("FindByID", mock.Anything, "exp-1").Return(expert, nil)

	_, err := svc.UpdateProfile(context.Background(), "exp-1", ProfileUpdate{
		Offer: &models.PresentOffer{BookID: "b1", BooksRequired: 3},
	})

	assert.ErrorIs(t, err, ErrOfferBookUnavailable)
}

func TestUpdateProfile_SaveInvalidatesHive(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	hive := new(MockHiveInvalidator)
	svc := NewExpertService(expertRepo, new(MockAlertService), hive, nil, testLogger())

	expertRepo.On("FindByID", mock.Anything, "exp-1").Return(freeExpert("exp-1"), nil)
	expertRepo.On("UpdateFields", mock.Anything, "exp-1", mock.Anything).Return(nil)
	expertRepo.On("SetBookQuery", mock.Anything, "exp-1", mock.Anything).Return(nil)
	expertRepo.On("SetPresentOffer", mock.Anything, "exp-1", (*models.PresentOffer)(nil)).Return(nil)
	hive.On("Invalidate", mock.Anything).Return()

	_, err := svc.UpdateProfile(context.Background(), "exp-1", ProfileUpdate{
		Name:  "Renamed",
		Genre: "Poetry",
		Want:  &models.BookQuery{Title: "Dune", Author: "Herbert"},
	})

	assert.NoError(t, err)
	hive.AssertNumberOfCalls(t, "Invalidate", 1)
}

func TestReplaceSpotlights_LimitAndLength(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	svc := NewExpertService(expertRepo, new(MockAlertService), nil, nil, testLogger())

	expertRepo.On("FindByID", mock.Anything, "exp-1").Return(freeExpert("exp-1"), nil)

	t.Run("TooManyForFreeTier", func(t *testing.T) {
		_, err := svc.ReplaceSpotlights(context.Background(), "exp-1", []models.Spotlight{
			{Title: "a", Content: "x"}, {Title: "b", Content: "y"},
		})
		assert.ErrorIs(t, err, ErrSpotlightLimitExceeded)
	})

	t.Run("ContentTooLong", func(t *testing.T) {
		long := make([]byte, models.SpotlightContentMax+1)
		for i := range long {
			long[i] = 'a'
		}
		_, err := svc.ReplaceSpotlights(context.Background(), "exp-1", []models.Spotlight{
			{Title: "a", Content: string(long)},
		})
		assert.ErrorIs(t, err, ErrSpotlightTooLong)
	})

	t.Run("FeaturedBookMustBeOwned", func(t *testing.T) {
		_, err := svc.ReplaceSpotlights(context.Background(), "exp-1", []models.Spotlight{
			{Title: "a", Content: "x", FeaturedBookID: strPtr("not-mine")},
		})
		assert.ErrorIs(t, err, ErrFeaturedBookNotOwned)
	})
}

func TestUpgradeToPremium_FlipsTierAndInvalidatesHive(t *testing.T) {
	expertRepo := new(MockExpertRepository)
	hive := new(MockHiveInvalidator)
	svc := NewExpertService(expertRepo, new(MockAlertService), hive, nil, testLogger())

	expertRepo.On("FindByID", mock.Anything, "exp-1").Return(freeExpert("exp-1"), nil)
	expertRepo.On("UpdateFields", mock.Anything, "exp-1", map[string]any{
		"subscription_tier": "premium",
	}).Return(nil)
	hive.On("Invalidate", mock.Anything).Return()

	err := svc.UpgradeToPremium(context.Background(), "exp-1")

	assert.NoError(t, err)
	expertRepo.AssertExpectations(t)
	hive.AssertNumberOfCalls(t, "Invalidate", 1)
}

func strPtr(s string) *string { return &s }
