package notification

// Message is one e-mail ready to hand to a Sender
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Recipient is a drawn participant: they receive an e-mail revealing the
// name of the participant AssignedTo points at.
type Recipient struct {
	ID         string
	Name       string
	Email      string
	AssignedTo string
}
