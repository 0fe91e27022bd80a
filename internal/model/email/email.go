package email

// Attachment references a staged file included with a message.
type Attachment struct {
	// Filename is the name shown to the recipient; Path is the staged
	// location the content is read from.
	Filename string
	Path     string
}

// Email is one outbound message, constructed fresh per submission.
type Email struct {
	From       string
	To         string
	Subject    string
	TextBody   string
	HTMLBody   string
	Attachment *Attachment
}
