package mailer

import (
	"fmt"
	"html/template"
	"strings"
)

const commonStyles = `
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px; background-color: #f9f9f9; }
  .header { font-size: 24px; font-weight: bold; color: #063542; text-align: center; margin-bottom: 20px; }
  .content { font-size: 16px; }
  .footer { font-size: 12px; color: #777; text-align: center; margin-top: 20px; }
  .button { display: inline-block; padding: 10px 20px; background-color: #51ADC9; color: #fff; text-decoration: none; border-radius: 5px; }
  .message-box { background-color: #fff; padding: 15px; border: 1px solid #eee; border-radius: 5px; margin-top: 15px; }
  .book-details { background-color: #e9f6f9; padding: 10px; border-radius: 5px; margin: 15px 0; }
`

func emailHTML(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <style>%s</style>
</head>
<body>
  <div class="container">
    <div class="header">%s</div>
    <div class="content">
      %s
    </div>
    <div class="footer">
      This is an automated message from the BookDocker platform.
    </div>
  </div>
</body>
</html>`, commonStyles, esc(title), body)
}

// esc escapes user-provided text before it is interpolated into HTML.
func esc(s string) string {
	return template.HTMLEscapeString(s)
}

// escLines escapes and converts newlines to <br> for message bodies.
func escLines(s string) string {
	return strings.ReplaceAll(esc(s), "\n", "<br>")
}

// TitleHiveAlertEmail notifies a searcher that a newly listed book matches
// their registered want.
func TitleHiveAlertEmail(searcherName, sellerName, bookTitle, bookAuthor, profileURL string) (subject, html string) {
	subject = "A Book You're Searching For Is Now Available!"
	body := fmt.Sprintf(`
        <p>Hello %s,</p>
        <p>Good news! A book matching your search query has just been listed by %s.</p>
        <div class="book-details">
            <strong>Title:</strong> %s<br>
            <strong>Author:</strong> %s
        </div>
        <p style="text-align: center; margin: 20px 0;"><a href="%s" class="button">View the expert's profile</a></p>
    `, esc(searcherName), esc(sellerName), esc(bookTitle), esc(bookAuthor), esc(profileURL))
	return subject, emailHTML(subject, body)
}

// InquiryEmail is sent to a seller when a user asks about one of their books.
func InquiryEmail(expertName, bookTitle, bookAuthor string, bookYear int, senderEmail, message string) (subject, html string) {
	subject = fmt.Sprintf("New Book Inquiry: %q", bookTitle)
	body := fmt.Sprintf(`
        <p>Hello %s,</p>
        <p>A user is interested in one of your books. You can reply directly to them at: <a href="mailto:%s">%s</a></p>
        <div class="book-details">
            <strong>Book:</strong> %s<br>
            <strong>Author:</strong> %s<br>
            <strong>Year:</strong> %d
        </div>
        <p><strong>Message from the user:</strong></p>
        <div class="message-box">
            <p>%s</p>
        </div>
    `, esc(expertName), esc(senderEmail), esc(senderEmail), esc(bookTitle), esc(bookAuthor), bookYear, escLines(message))
	return subject, emailHTML(subject, body)
}

// ContactEmail is a direct message from a user to an expert.
func ContactEmail(expertName, senderEmail, message, links string) (subject, html string) {
	subject = "New Message from a BookDocker User"
	linksBlock := ""
	if links != "" {
		linksBlock = fmt.Sprintf(`<p><strong>Shared Links:</strong> %s</p>`, esc(links))
	}
	body := fmt.Sprintf(`
        <p>Hello %s,</p>
        <p>You have received a new message from a user on the platform. You can reply directly to them at: <a href="mailto:%s">%s</a></p>
        <p><strong>Message:</strong></p>
        <div class="message-box">
            <p>%s</p>
        </div>
        %s
    `, esc(expertName), esc(senderEmail), esc(senderEmail), escLines(message), linksBlock)
	return subject, emailHTML(subject, body)
}

// FeedbackEmail routes platform feedback to the administrator.
func FeedbackEmail(senderName, senderEmail, message string) (subject, html string) {
	subject = "New Platform Feedback Received"
	if senderName == "" {
		senderName = "Not provided"
	}
	if senderEmail == "" {
		senderEmail = "Not provided"
	}
	body := fmt.Sprintf(`
        <p>Hello Administrator,</p>
        <p>You have received new feedback for the BookDocker platform.</p>
        <div class="message-box">
            <p><strong>From:</strong> %s</p>
            <p><strong>Email:</strong> %s</p>
            <hr style="border: 0; border-top: 1px solid #eee; margin: 10px 0;">
            <p><strong>Message:</strong></p>
            <p>%s</p>
        </div>
    `, esc(senderName), esc(senderEmail), escLines(message))
	return subject, emailHTML(subject, body)
}

// InviteEmail invites a friend to join the platform.
func InviteEmail(inviterName, message, platformURL string) (subject, html string) {
	subject = fmt.Sprintf("%s sent you an invitation!", inviterName)
	messageBlock := ""
	if message != "" {
		messageBlock = fmt.Sprintf(`<p>They added a personal message for you:</p><div class="message-box"><p>%s</p></div>`, escLines(message))
	}
	body := fmt.Sprintf(`
        <p>Hello,</p>
        <p>Great news! %s has invited you to join BookDocker, a community for book lovers and expert collectors.</p>
        %s
        <p>Click the button below to explore the platform:</p>
        <p style="text-align: center; margin: 20px 0;"><a href="%s" class="button">Explore BookDocker</a></p>
    `, esc(inviterName), messageBlock, esc(platformURL))
	return subject, emailHTML(subject, body)
}
