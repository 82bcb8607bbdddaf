package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bookdocker/internal/entitlement"
	"bookdocker/internal/httpapi/models"
	"bookdocker/internal/httpapi/repository"
	"bookdocker/internal/mailer"
)

// Match pairs one newly listed book with one searcher whose want it satisfies.
type Match struct {
	Book     models.Book
	Searcher models.Expert
}

// AlertService implements the Title Hive demand-matching pipeline: detect
// which books a save actually added, match them against other experts'
// wants, and fan out one alert per satisfied (book, want) pair.
type AlertService interface {
	Delta(oldBooks, newBooks []models.Book) []models.Book
	Scan(seller models.Expert, addedBooks []models.Book, roster []models.Expert) []Match
	Dispatch(ctx context.Context, seller models.Expert, matches []Match)
}

type alertService struct {
	notificationRepo repository.NotificationRepository
	mail             mailer.Sender
	platformBaseURL  string
	logger           *slog.Logger
}

func NewAlertService(
	notificationRepo repository.NotificationRepository,
	mail mailer.Sender,
	platformBaseURL string,
	logger *slog.Logger,
) AlertService {
	return &alertService{
		notificationRepo: notificationRepo,
		mail:             mail,
		platformBaseURL:  platformBaseURL,
		logger:           logger,
	}
}

// Delta returns the books in newBooks whose ID does not appear in oldBooks
// and whose status is available. A book added already reserved or sold does
// not trigger alerts. Order of newBooks is preserved.
func (s *alertService) Delta(oldBooks, newBooks []models.Book) []models.Book {
	oldIDs := make(map[string]bool, len(oldBooks))
	for _, b := range oldBooks {
		oldIDs[b.ID] = true
	}

	added := []models.Book{}
	for _, b := range newBooks {
		if !oldIDs[b.ID] && b.Status == models.BookAvailable {
			added = append(added, b)
		}
	}
	return added
}

// MatchesWant reports whether a book satisfies a want: the book title must
// contain the wanted title and the book author must contain the wanted
// author, both case-insensitively. Partial matches count. The want's
// publisher, edition, and year never participate.
func MatchesWant(book models.Book, want models.BookQuery) bool {
	bookTitle := strings.ToLower(book.Title)
	bookAuthor := strings.ToLower(book.Author)
	queryTitle := strings.ToLower(want.Title)
	queryAuthor := strings.ToLower(want.Author)

	return strings.Contains(bookTitle, queryTitle) && strings.Contains(bookAuthor, queryAuthor)
}

// wantEligible reports whether a roster member's want participates in the
// scan at all: premium tier, a complete want, and not the seller themselves.
func wantEligible(searcher models.Expert, sellerID string) bool {
	if searcher.ID == sellerID {
		return false
	}
	if !entitlement.Enabled(entitlement.Tier(searcher.SubscriptionTier), entitlement.FeatureWantRegistration) {
		return false
	}
	want := searcher.BookQuery
	return want != nil && want.Title != "" && want.Author != ""
}

// Scan runs every added book against every eligible want in the roster.
// The roster must be a fresh snapshot; the scan never reads cached state.
func (s *alertService) Scan(seller models.Expert, addedBooks []models.Book, roster []models.Expert) []Match {
	if len(addedBooks) == 0 {
		return nil
	}

	searchers := []models.Expert{}
	for _, e := range roster {
		if wantEligible(e, seller.ID) {
			searchers = append(searchers, e)
		}
	}
	if len(searchers) == 0 {
		return nil
	}

	matches := []Match{}
	for _, book := range addedBooks {
		for _, searcher := range searchers {
			if MatchesWant(book, *searcher.BookQuery) {
				matches = append(matches, Match{Book: book, Searcher: searcher})
			}
		}
	}
	return matches
}

// Dispatch emits one notification record and one email per match. Alerting
// is fire-and-forget relative to the save that triggered it: every failure
// here is logged and swallowed.
func (s *alertService) Dispatch(ctx context.Context, seller models.Expert, matches []Match) {
	for _, m := range matches {
		notification := &models.Notification{
			ExpertID:   m.Searcher.ID,
			Type:       models.NotificationTitleHiveMatch,
			BookTitle:  m.Book.Title,
			BookAuthor: m.Book.Author,
			SellerID:   seller.ID,
			SellerName: seller.Name,
			Message: fmt.Sprintf("A book matching your search query has just been listed by %s: %q by %s.",
				seller.Name, m.Book.Title, m.Book.Author),
		}
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			s.logger.Error("failed to record title hive notification",
				"searcher_id", m.Searcher.ID, "seller_id", seller.ID, "error", err)
		}

		profileURL := fmt.Sprintf("%s/#/profile/%s", s.platformBaseURL, seller.ID)
		subject, html := mailer.TitleHiveAlertEmail(m.Searcher.Name, seller.Name, m.Book.Title, m.Book.Author, profileURL)
		err := s.mail.Send(ctx, mailer.Message{
			To:      []string{m.Searcher.Email},
			Subject: subject,
			HTML:    html,
		})
		if err != nil {
			s.logger.Error("failed to send title hive alert email",
				"to", m.Searcher.Email, "seller_id", seller.ID, "error", err)
			continue
		}
		s.logger.Info("title hive alert sent",
			"to", m.Searcher.Email, "book_title", m.Book.Title, "seller_id", seller.ID)
	}
}
