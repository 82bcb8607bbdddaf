package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"bookdocker/internal/httpapi/models"
	"bookdocker/internal/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockNotificationRepository mocks the NotificationRepository interface
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetUnreadByExpert(ctx context.Context, expertID string) ([]models.Notification, error) {
	args := m.Called(ctx, expertID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, notificationID int64) error {
	args := m.Called(ctx, notificationID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, expertID string) error {
	args := m.Called(ctx, expertID)
	return args.Error(0)
}

// MockSender mocks the mailer.Sender interface
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func wantPtr(title, author string) *models.BookQuery {
	return &models.BookQuery{Title: title, Author: author}
}

func searcher(id, name, email, tier string, want *models.BookQuery) models.Expert {
	if want != nil {
		want.ExpertID = id
	}
	return models.Expert{
		ID:               id,
		Name:             name,
		Email:            email,
		Status:           models.StatusActive,
		SubscriptionTier: tier,
		BookQuery:        want,
	}
}

func TestDelta_NewAvailableBooksOnly(t *testing.T) {
	svc := NewAlertService(new(MockNotificationRepository), new(MockSender), "https://example.com", testLogger())

	old := []models.Book{
		{ID: "b1", Title: "Dune", Author: "Frank Herbert", Status: models.BookAvailable},
		{ID: "b2", Title: "Emma", Author: "Jane Austen", Status: models.BookAvailable},
	}
	updated := []models.Book{
		{ID: "b1", Title: "Dune", Author: "Frank Herbert", Status: models.BookAvailable},
		{ID: "b3", Title: "Persuasion", Author: "Jane Austen", Status: models.BookAvailable},
		{ID: "b4", Title: "Ivanhoe", Author: "Walter Scott", Status: models.BookSold},
	}

	added := svc.Delta(old, updated)

	assert.Len(t, added, 1)
	assert.Equal(t, "b3", added[0].ID)
}

func TestDelta_IdenticalListsYieldNothing(t *testing.T) {
	svc := NewAlertService(new(MockNotificationRepository), new(MockSender), "https://example.com", testLogger())

	books := []models.Book{
		{ID: "b1", Title: "Dune", Author: "Frank Herbert", Status: models.BookAvailable},
		{ID: "b2", Title: "Emma", Author: "Jane Austen", Status: models.BookReserved},
	}

	assert.Empty(t, svc.Delta(books, books))
}

func TestDelta_PreservesOrder(t *testing.T) {
	svc := NewAlertService(new(MockNotificationRepository), new(MockSender), "https://example.com", testLogger())

	updated := []models.Book{
		{ID: "b1", Status: models.BookAvailable},
		{ID: "b2", Status: models.BookAvailable},
		{ID: "b3", Status: models.BookAvailable},
	}

	added := svc.Delta(nil, updated)

	assert.Len(t, added, 3)
	assert.Equal(t, "b1", added[0].ID)
	assert.Equal(t, "b2", added[1].ID)
	assert.Equal(t, "b3", added[2].ID)
}

func TestMatchesWant_CaseInsensitiveSubstring(t *testing.T) {
	book := models.Book{Title: "The Complete Sherlock Holmes", Author: "Arthur Conan Doyle"}

	assert.True(t, MatchesWant(book, models.BookQuery{Title: "sherlock holmes", Author: "conan doyle"}))
	assert.True(t, MatchesWant(book, models.BookQuery{Title: "SHERLOCK", Author: "Doyle"}))
	assert.False(t, MatchesWant(book, models.BookQuery{Title: "sherlock", Author: "christie"}))
	assert.False(t, MatchesWant(book, models.BookQuery{Title: "poirot", Author: "doyle"}))
}

func TestMatchesWant_IgnoresPublisherEditionYear(t *testing.T) {
	book := models.Book{Title: "Dune", Author: "Frank Herbert", Year: 1999}

	publisher := "Chilton"
	edition := "1st"
	year := 1965
	want := models.BookQuery{
		Title:     "dune",
		Author:    "herbert",
		Publisher: &publisher,
		Edition:   &edition,
		Year:      &year,
	}

	assert.True(t, MatchesWant(book, want))
}

func TestScan_MatchesPremiumWants(t *testing.T) {
	svc := NewAlertService(new(MockNotificationRepository), new(MockSender), "https://example.com", testLogger())

	seller := searcher("seller-1", "Seller", "seller@example.com", "free", nil)
	added := []models.Book{
		{ID: "b1", Title: "Wuthering Heights", Author: "Emily Brontë", Status: models.BookAvailable},
	}
	roster := []models.Expert{
		seller,
		searcher("exp-1", "Premium Searcher", "p@example.com", "premium", wantPtr("wuthering", "brontë")),
		searcher("exp-2", "Other Premium", "o@example.com", "premium", wantPtr("dune", "herbert")),
	}

	matches := svc.Scan(seller, added, roster)

	assert.Len(t, matches, 1)
	assert.Equal(t, "exp-1", matches[0].Searcher.ID)
	assert.Equal(t, "b1", matches[0].Book.ID)
}

func TestScan_FreeTierWantNeverMatches(t *testing.T) {
	svc := NewAlertService(new(MockNotificationRepository), new(MockSender), "https://example.com", testLogger())

	seller := searcher("seller-1", "Seller", "seller@example.com", "free", nil)
	added := []models.Book{
		{ID: "b1", Title: "Dune", Author: "Frank Herbert", Status: models.BookAvailable},
	}
	roster := []models.Expert{
		seller,
		searcher("exp-1", "Free Searcher", "f@example.com", "free", wantPtr("dune", "herbert")),
	}

	assert.Empty(t, svc.Scan(seller, added, roster))
}

func TestScan_SellerOwnWantSuppressed(t *testing.T) {
	svc := NewAlertService(new(MockNotificationRepository), new(MockSender), "https://example.com", testLogger())

	seller := searcher("seller-1", "Seller", "seller@example.com", "premium", wantPtr("dune", "herbert"))
	added := []models.Book{
		{ID: "b1", Title: "Dune", Author: "Frank Herbert", Status: models.BookAvailable},
	}

	assert.Empty(t, svc.Scan(seller, added, []models.Expert{seller}))
}

func TestScan_OneMatchPerBookWantPair(t *testing.T) {
	svc := NewAlertService(new(MockNotificationRepository), new(MockSender), "https://example.com", testLogger())

	seller := searcher("seller-1", "Seller", "seller@example.com", "free", nil)
	added := []models.Book{
		{ID: "b1", Title: "Emma", Author: "Jane Austen", Status: models.BookAvailable},
		{ID: "b2", Title: "Emma: Annotated", Author: "Jane Austen", Status: models.BookAvailable},
	}
	roster := []models.Expert{
		seller,
		searcher("exp-1", "Searcher A", "a@example.com", "premium", wantPtr("emma", "austen")),
		searcher("exp-2", "Searcher B", "b@example.com", "premium", wantPtr("emma", "austen")),
	}

	matches := svc.Scan(seller, added, roster)

	// two books x two satisfied wants
	assert.Len(t, matches, 4)
}

func TestDispatch_CreatesNotificationAndEmailPerMatch(t *testing.T) {
	notificationRepo := new(MockNotificationRepository)
	sender := new(MockSender)
	svc := NewAlertService(notificationRepo, sender, "https://bookdockergo2.com", testLogger())

	seller := searcher("seller-1", "Seller", "seller@example.com", "free", nil)
	match := Match{
		Book:     models.Book{ID: "b1", Title: "Dune", Author: "Frank Herbert"},
		Searcher: searcher("exp-1", "Searcher", "searcher@example.com", "premium", wantPtr("dune", "herbert")),
	}

	notificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.ExpertID == "exp-1" &&
			n.Type == models.NotificationTitleHiveMatch &&
			n.BookTitle == "Dune" &&
			n.SellerID == "seller-1"
	})).Return(nil).Once()
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg mailer.Message) bool {
		return len(msg.To) == 1 && msg.To[0] == "searcher@example.com"
	})).Return(nil).Once()

	svc.Dispatch(context.Background(), seller, []Match{match})

	notificationRepo.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestDispatch_FailuresAreSwallowed(t *testing.T) {
	notificationRepo := new(MockNotificationRepository)
	sender := new(MockSender)
	svc := NewAlertService(notificationRepo, sender, "https://bookdockergo2.com", testLogger())

	seller := searcher("seller-1", "Seller", "seller@example.com", "free", nil)
	matches := []Match{
		{
			Book:     models.Book{ID: "b1", Title: "Dune", Author: "Frank Herbert"},
			Searcher: searcher("exp-1", "First", "first@example.com", "premium", wantPtr("dune", "herbert")),
		},
		{
			Book:     models.Book{ID: "b1", Title: "Dune", Author: "Frank Herbert"},
			Searcher: searcher("exp-2", "Second", "second@example.com", "premium", wantPtr("dune", "herbert")),
		},
	}

	notificationRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("email api down"))

	// Must not panic and must still attempt every match.
	svc.Dispatch(context.Background(), seller, matches)

	notificationRepo.AssertNumberOfCalls(t, "Create", 2)
	sender.AssertNumberOfCalls(t, "Send", 2)
}
